// Package session stores editing sessions for the HTTP API.
//
// A session holds the serialized workflow a client is editing. The
// document itself is persisted through a [Store]; the live layout engine
// and its command history stay in process (see [Registry]) and are never
// written out, so a restart keeps the document but starts with an empty
// undo stack.
//
// # Backends
//
//	// In process
//	store := session.NewMemoryStore()
//
//	// Shared across server instances
//	store, err := session.DialRedisStore(ctx, "localhost:6379")
//
//	// Local directory
//	store, err := session.NewFileStore("")  // Uses ~/.config/nodedesign/sessions/
//
// # Usage
//
//	sess, err := session.New(workflowJSON, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, sess.ID)
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/nodedesign/pkg/errors"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session is a workflow under edit.
type Session struct {
	ID        string          `json:"id"`
	Workflow  json.RawMessage `json:"workflow"`
	Revision  int             `json:"revision"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Update replaces the stored workflow and extends the expiry by ttl.
func (s *Session) Update(workflow []byte, ttl time.Duration) {
	now := time.Now()
	s.Workflow = json.RawMessage(workflow)
	s.Revision++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op when the backend expires keys).
	Cleanup(ctx context.Context) error

	Close() error
}

// GenerateID returns a new random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session holding the given workflow JSON.
func New(workflow []byte, ttl time.Duration) (*Session, error) {
	if !json.Valid(workflow) {
		return nil, errors.New(errors.ErrCodeInvalidWorkflow, "session workflow is not valid JSON")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Workflow:  json.RawMessage(workflow),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
