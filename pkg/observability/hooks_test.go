package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, "user.proto")
	p.OnGenerateComplete(ctx, "user.proto", 5, 3, time.Second, nil)
	p.OnEncodeComplete(ctx, "deflate", 1024, 256)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "https://www.plantuml.com/plantuml/svg/T")
	h.OnResponse(ctx, "GET", "https://www.plantuml.com/plantuml/svg/T", 200, time.Second)
	h.OnError(ctx, "GET", "https://www.plantuml.com/plantuml/svg/T", nil)
}

type testPipelineHooks struct {
	NoopPipelineHooks
	generates int
}

func (h *testPipelineHooks) OnGenerateStart(context.Context, string) { h.generates++ }

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Pipeline().OnGenerateStart(context.Background(), "user.proto")
	if customPipeline.generates != 1 {
		t.Error("registered hooks should receive events")
	}

	// Nil registrations keep the current hooks
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore noop hooks")
	}
}
