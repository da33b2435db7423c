package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodedesign/pkg/buildinfo"
	"github.com/matzehuels/nodedesign/pkg/cache"
	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/node"
	"github.com/matzehuels/nodedesign/pkg/render"
	"github.com/matzehuels/nodedesign/pkg/render/nodelink"
	"github.com/matzehuels/nodedesign/pkg/session"
	"github.com/matzehuels/nodedesign/pkg/workflow"
)

// maxBodySize caps request bodies.
const maxBodySize = 8 << 20

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type operationInfo struct {
	Name     layout.Operation `json:"name"`
	Title    string           `json:"title"`
	MinNodes int              `json:"min_nodes"`
}

func (s *Server) operations(w http.ResponseWriter, r *http.Request) {
	ops := layout.Operations()
	out := make([]operationInfo, len(ops))
	for i, op := range ops {
		out[i] = operationInfo{Name: op, Title: op.Title(), MinNodes: op.MinNodes()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	sess, err := s.sessions.Create(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, r, sess.ID, http.StatusCreated)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.View(r.Context(), id, func(*session.Live) error { return nil }); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectRequest struct {
	IDs []int64 `json:"ids"`
	All bool    `json:"all"`
}

func (s *Server) selectNodes(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mutate(w, r, func(l *session.Live) error {
		if req.All {
			l.Doc.SelectAll()
			return nil
		}
		ids := make([]node.ID, len(req.IDs))
		for i, id := range req.IDs {
			ids[i] = node.ID(id)
		}
		return l.Doc.Select(ids...)
	})
}

func (s *Server) applyOperation(w http.ResponseWriter, r *http.Request) {
	op, err := layout.ParseOperation(chi.URLParam(r, "op"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mutate(w, r, func(l *session.Live) error {
		return engineResult(l.Engine, l.Engine.Apply(op), string(op))
	})
}

type colorRequest struct {
	Field string `json:"field"`
	Color string `json:"color"`
}

func (s *Server) setColor(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mutate(w, r, func(l *session.Live) error {
		switch req.Field {
		case "", "color":
			return engineResult(l.Engine, l.Engine.SetColor(req.Color), "set-color")
		case "bgcolor":
			return engineResult(l.Engine, l.Engine.SetBgColor(req.Color), "set-bgcolor")
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown colour field %q", req.Field)
		}
	})
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(l *session.Live) error {
		return engineResult(l.Engine, l.Engine.Undo(), "undo")
	})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(l *session.Live) error {
		return engineResult(l.Engine, l.Engine.Redo(), "redo")
	})
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if format != render.FormatSVG && format != render.FormatDOT {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported preview format %q", format))
		return
	}
	placement, err := nodelink.ParsePlacement(q.Get("placement"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "placement"))
		return
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	var (
		dot  string
		hash string
		sel  []int64
	)
	err = s.sessions.View(r.Context(), id, func(l *session.Live) error {
		data, err := workflow.Marshal(l.Doc)
		if err != nil {
			return err
		}
		hash = cache.Hash(data)
		for _, nid := range l.Doc.Selection() {
			sel = append(sel, int64(nid))
		}
		dot = nodelink.ToDOT(l.Doc.Nodes(), nodelink.Options{
			Placement: placement,
			Detailed:  detailed,
			Selected:  l.Doc.Selection(),
		})
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == render.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		io.WriteString(w, dot)
		return
	}

	keyer := cache.NewScopedKeyer(s.keyer, "session:"+id+":")
	key := keyer.PreviewKey(hash, cache.PreviewKeyOpts{
		Format:    format,
		Placement: q.Get("placement"),
		Detailed:  detailed,
		Selected:  sel,
	})
	svg, err := s.cachedRender(r.Context(), key, dot, placement)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render preview"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) cachedRender(ctx context.Context, key, dot string, placement nodelink.Placement) ([]byte, error) {
	if data, hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("preview cache read failed", "error", err)
	} else if hit {
		return data, nil
	}
	svg, err := s.render(ctx, dot, placement)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, svg, s.cacheTTL); err != nil {
		s.logger.Warn("preview cache write failed", "error", err)
	}
	return svg, nil
}

// mutate runs fn against the session, persists it and writes the new state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session.Live) error) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Do(r.Context(), id, fn); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, r, id, http.StatusOK)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, id string, status int) {
	var resp sessionResponse
	err := s.sessions.View(r.Context(), id, func(l *session.Live) error {
		resp = newSessionResponse(l)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// engineResult turns a false engine result into its recorded error.
func engineResult(e *layout.Engine, ok bool, op string) error {
	if ok {
		return nil
	}
	if err := e.LastError(); err != nil {
		return err
	}
	return errors.New(errors.ErrCodeInternal, "%s failed", op)
}
