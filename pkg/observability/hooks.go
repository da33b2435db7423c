// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about layout operations, command history and the HTTP API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by commands at startup (internal/metrics for
// "serve --metrics"), never by the engine packages.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHistoryHooks(&myHistoryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(op, len(nodes))
//	// ... compute ...
//	observability.Layout().OnLayoutComplete(op, len(nodes), time.Since(start), ok)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	OnLayoutStart(op string, nodeCount int)
	OnLayoutComplete(op string, nodeCount int, duration time.Duration, applied bool)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the command history.
type HistoryHooks interface {
	// OnExecute records a command applied for the first time.
	OnExecute(command string, undoDepth int)

	// OnUndo records an undo attempt; err is nil on success.
	OnUndo(command string, err error)

	// OnRedo records a redo attempt; err is nil on success.
	OnRedo(command string, err error)

	// OnEvict records the oldest command dropped from a full stack.
	OnEvict(command string)

	// OnRefreshError records a failed host redraw request.
	OnRefreshError(err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(string, int)                           {}
func (NoopLayoutHooks) OnLayoutComplete(string, int, time.Duration, bool) {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnExecute(string, int)  {}
func (NoopHistoryHooks) OnUndo(string, error)   {}
func (NoopHistoryHooks) OnRedo(string, error)   {}
func (NoopHistoryHooks) OnEvict(string)         {}
func (NoopHistoryHooks) OnRefreshError(error)   {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	historyHooks HistoryHooks = NoopHistoryHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
// This should be called once at application startup.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	historyHooks = NoopHistoryHooks{}
	httpHooks = NoopHTTPHooks{}
}
