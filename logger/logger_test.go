package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_NilConfig(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if l == nil {
		t.Fatal("New(nil) returned nil logger")
	}
	l.Info("test")
}

func TestNew_PartialConfig(t *testing.T) {
	l, err := New(&Config{Level: "debug"})
	if err != nil {
		t.Fatalf("New with partial config failed: %v", err)
	}
	l.Debug("test from partial config")
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&Config{Level: "invalid", Encoding: "json"}); err == nil {
		t.Fatal("expected error for invalid level, got nil")
	}
}

func TestNew_InvalidEncoding(t *testing.T) {
	if _, err := New(&Config{Level: "info", Encoding: "xml"}); err == nil {
		t.Fatal("expected error for invalid encoding, got nil")
	}
}

func TestConfig_MergeDefaults(t *testing.T) {
	cfg := (&Config{Encoding: "console"}).MergeDefaults()
	if cfg.Level != "info" || cfg.Encoding != "console" || len(cfg.OutputPaths) != 1 {
		t.Errorf("unexpected merged config: %+v", cfg)
	}
}

func TestWrap_NamedAndWith(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	child := l.Named("service").Named("menu").With(zap.String("entity", "menu"))
	child.Warn("cache write failed")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "service.menu" {
		t.Errorf("expected logger name service.menu, got %q", entries[0].LoggerName)
	}
	if entries[0].ContextMap()["entity"] != "menu" {
		t.Errorf("expected entity field, got %v", entries[0].ContextMap())
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("discarded")
	if err := l.Sync(); err != nil {
		t.Errorf("nop sync returned %v", err)
	}
}
