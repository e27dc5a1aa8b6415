package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.AdvanceDelay != 500*time.Millisecond {
		t.Errorf("AdvanceDelay = %v", cfg.AdvanceDelay)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("ADVANCE_DELAY", "1.5s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.AdvanceDelay != 1500*time.Millisecond {
		t.Errorf("AdvanceDelay = %v", cfg.AdvanceDelay)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "floppy")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
