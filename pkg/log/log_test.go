package log_test

import (
	"context"
	"testing"

	"chronix/pkg/log"
)

func TestTraceID(t *testing.T) {
	ctx := log.WithTraceID(context.Background(), "abc")
	if got := log.TraceID(ctx); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := log.TraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}

func TestInit(t *testing.T) {
	cases := []log.ZapConfig{
		{Level: "debug", Mode: log.ModeDevelopment, Encoding: log.EncodingConsole, ColorEnabled: true},
		{Level: "warn", Mode: log.ModeProduction, Encoding: log.EncodingJSON},
		{Level: "nonsense", Mode: "", Encoding: ""},
	}
	for _, cfg := range cases {
		l := log.Init(cfg)
		if l == nil {
			t.Fatalf("Init(%+v) returned nil", cfg)
		}
		l.Debugf(context.Background(), "debug %d", 1)
		l.Info(log.WithTraceID(context.Background(), "t-1"), "info")
	}

	nop := log.NewNop()
	nop.Errorf(context.Background(), "dropped %s", "message")
}
