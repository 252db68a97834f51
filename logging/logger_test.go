package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCtxAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Replace(zap.New(core))
	defer SetDebug(false)

	ctx := WithRequest(WithSession(context.Background(), "group-1"), "req-9")
	WithCtx(ctx).Info("rendered")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session_id"] != "group-1" || fields["request_id"] != "req-9" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestWithCtxWithoutValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Replace(zap.New(core))
	defer SetDebug(false)

	WithCtx(context.Background()).Warn("plain")
	if got := len(logs.All()[0].Context); got != 0 {
		t.Fatalf("expected no context fields, got %d", got)
	}
}

func TestReplaceNil(t *testing.T) {
	Replace(nil)
	defer SetDebug(false)
	if L() == nil {
		t.Fatalf("logger must never be nil")
	}
	With(zap.String("k", "v")).Info("discarded")
}
