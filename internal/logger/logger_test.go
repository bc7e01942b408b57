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
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"prod", "prod", "", false},
		{"local", "local", "", false},
		{"level override", "dev", "warn", false},
		{"unknown env", "staging", "", true},
		{"bad level", "local", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLogger(%q, %q) error = %v, wantErr %v", tt.env, tt.level, err, tt.wantErr)
			}
			if err == nil && tt.level == "warn" && l.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info should be disabled at warn level")
			}
		})
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}
}

func TestContextWithLogger_RoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "abc")))

	FromContext(ctx).Info("scored")

	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "abc" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
