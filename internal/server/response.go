package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/session"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

type sessionResponse struct {
	ID        string            `json:"id"`
	Revision  int               `json:"revision"`
	ExpiresAt time.Time         `json:"expires_at"`
	Workflow  workflow.Workflow `json:"workflow"`
	History   historyState      `json:"history"`
}

type historyState struct {
	CanUndo   bool   `json:"can_undo"`
	CanRedo   bool   `json:"can_redo"`
	Undo      string `json:"undo,omitempty"`
	Redo      string `json:"redo,omitempty"`
	UndoDepth int    `json:"undo_depth"`
	RedoDepth int    `json:"redo_depth"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func newSessionResponse(l *session.Live) sessionResponse {
	h := l.Engine.History()
	undoName, _ := h.PeekUndo()
	redoName, _ := h.PeekRedo()
	undoDepth, redoDepth := h.Len()
	return sessionResponse{
		ID:        l.Session.ID,
		Revision:  l.Session.Revision,
		ExpiresAt: l.Session.ExpiresAt,
		Workflow:  l.Doc.Workflow(),
		History: historyState{
			CanUndo:   h.CanUndo(),
			CanRedo:   h.CanRedo(),
			Undo:      undoName,
			Redo:      redoName,
			UndoDepth: undoDepth,
			RedoDepth: redoDepth,
		},
	}
}

// statusFor maps an error code onto an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOperation, errors.ErrCodeInvalidWorkflow:
		return http.StatusBadRequest
	case errors.ErrCodeInsufficientSelection, errors.ErrCodeCycleOrDisconnected, errors.ErrCodeNoRoot:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeEmptyHistory, errors.ErrCodeInvalidCommand:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: errors.UserMessage(err)}})
}
