// Package observability lets a host process watch taskvis at work.
//
// Library packages call the registered hooks at well-defined points: the
// pipeline reports each stage, the pipeline's cache layer reports hits and
// misses, and the HTTP server reports requests. Nothing is recorded unless a
// hook is registered, so the defaults are no-ops.
//
// Register hooks once at startup, before any work begins:
//
//	observability.SetPipelineHooks(myHooks)
//	observability.SetCacheHooks(myHooks)
//
// Emit events from library code:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(records), cfg.LaneCount)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives stage events from the pipeline runner.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, records int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, records, lanes int)
	OnLayoutComplete(ctx context.Context, shapes, overlaps int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events. format names the artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
	OnCacheError(ctx context.Context, op string, err error)
}

// HTTPHooks receives request events from the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
