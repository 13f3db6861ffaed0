package logger

import (
	"testing"

	"github.com/samvad-hq/jsonplaceholder-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("comments saved", "export", map[string]any{"post_id": 10})
	log.DebugObj("debug", "k", 1)

	entries := logs.FilterMessage("comments saved").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	got, ok := fields["export"].(map[string]any)
	if !ok || got["post_id"] != 10 {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	t.Cleanup(func() { S = nil })
	log, err := Init(&config.Config{LogLevel: "debug", AppName: "test"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log == nil || S == nil {
		t.Fatalf("expected loggers to be initialized")
	}
	InfoObj("hello", "k", "v")
}

func TestNopLoggerAndNilHelpers(t *testing.T) {
	S = nil
	var l Logger = NopLogger{}
	l.InfoObj("x", "k", 1)
	InfoObj("x", "k", 1)
	WarnObj("x", "k", 1)
	ErrorObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close with nil logger: %v", err)
	}
}
