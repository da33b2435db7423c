package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// Live is an open session: the decoded document and the engine editing it.
// Access goes through [Registry.Do] or [Registry.View], which hold the
// entry's lock for the duration of the callback.
type Live struct {
	mu     sync.Mutex
	closed bool // set by Delete; a closed entry is never written back

	Session *Session
	Doc     *workflow.Document
	Engine  *layout.Engine
}

// Options configures a Registry.
type Options struct {
	Layout   layout.Config
	Capacity int           // history capacity per session
	TTL      time.Duration // session lifetime, extended on every write
	Logger   *log.Logger
}

// Registry maps session IDs to live engines, loading documents from a
// Store on first use and writing them back after every change.
type Registry struct {
	store  Store
	opts   Options
	logger *log.Logger

	mu   sync.Mutex
	live map[string]*Live
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store Store, opts Options) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Capacity <= 0 {
		opts.Capacity = history.DefaultCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		store:  store,
		opts:   opts,
		logger: logger,
		live:   make(map[string]*Live),
	}
}

// Store returns the backing store.
func (r *Registry) Store() Store { return r.store }

// Create stores a new session for the workflow JSON and opens it.
func (r *Registry) Create(ctx context.Context, data []byte) (*Session, error) {
	doc, err := workflow.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	sess, err := New(data, r.opts.TTL)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	r.mu.Lock()
	r.live[sess.ID] = r.open(sess, doc)
	r.mu.Unlock()

	r.logger.Debug("session created", "id", sess.ID, "nodes", len(doc.Nodes()))
	return sess, nil
}

// Do runs fn with exclusive access to the session and persists the
// document afterwards. Nothing is written when fn fails.
func (r *Registry) Do(ctx context.Context, id string, fn func(*Live) error) error {
	l, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return notFound(id)
	}

	if err := fn(l); err != nil {
		return err
	}
	data, err := workflow.Marshal(l.Doc)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	l.Session.Update(data, r.opts.TTL)
	if err := r.store.Set(ctx, l.Session); err != nil {
		return fmt.Errorf("store session %s: %w", id, err)
	}
	return nil
}

// View runs fn with exclusive access to the session without persisting.
func (r *Registry) View(ctx context.Context, id string, fn func(*Live) error) error {
	l, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return notFound(id)
	}
	return fn(l)
}

// Delete closes the session and removes it from the store. It waits for a
// running Do to finish so the removal cannot be undone by its write.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	l, ok := r.live[id]
	delete(r.live, id)
	r.mu.Unlock()

	if ok {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.closed = true
	}
	return r.store.Delete(ctx, id)
}

// Cleanup drops expired live sessions and asks the store to do the same.
func (r *Registry) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	for id, l := range r.live {
		if l.expired() {
			delete(r.live, id)
		}
	}
	r.mu.Unlock()
	return r.store.Cleanup(ctx)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) get(ctx context.Context, id string) (*Live, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.live[id]; ok {
		if !l.expired() {
			return l, nil
		}
		delete(r.live, id)
	}

	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if sess == nil {
		return nil, notFound(id)
	}
	doc, err := workflow.Unmarshal(sess.Workflow)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	l := r.open(sess, doc)
	r.live[id] = l
	r.logger.Debug("session loaded", "id", id, "revision", sess.Revision)
	return l, nil
}

func (r *Registry) open(sess *Session, doc *workflow.Document) *Live {
	logger := r.logger.With("session", sess.ID)
	h := history.New(r.opts.Capacity, doc, logger)
	return &Live{
		Session: sess,
		Doc:     doc,
		Engine:  layout.NewEngine(doc, h, r.opts.Layout, logger),
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
}

func (l *Live) expired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Session.IsExpired()
}
