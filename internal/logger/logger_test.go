package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{env: "prod", enabled: zapcore.InfoLevel},
		{env: "local", enabled: zapcore.DebugLevel},
		{env: "cli", enabled: zapcore.WarnLevel},
		{env: "cli", level: "debug", enabled: zapcore.DebugLevel},
		{env: "staging", wantErr: true},
		{env: "prod", level: "loud", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.env+"/"+tc.level, func(t *testing.T) {
			l, err := NewLogger(tc.env, tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tc.enabled) {
				t.Errorf("expected %s to be enabled", tc.enabled)
			}
			if tc.enabled > zapcore.DebugLevel && l.Core().Enabled(tc.enabled-1) {
				t.Errorf("expected %s to be disabled", tc.enabled-1)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}
	l := zap.NewExample()
	if got := FromContext(ContextWithLogger(context.Background(), l)); got != l {
		t.Error("expected the stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected the fallback without a context logger")
	}

	scoped := zap.NewExample()
	if got := FromContextOr(ContextWithLogger(context.Background(), scoped), fallback); got != scoped {
		t.Error("expected the context logger to win")
	}
	if got := FromContextOr(context.Background(), nil); got == nil {
		t.Error("expected a nop logger")
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("request_id", "req-1"))
	FromContext(ctx).Info("ranked")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Errorf("expected request_id field, got %v", got)
	}
}
