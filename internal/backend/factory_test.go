package backend

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/config"
)

func TestCreateMemoryBackend(t *testing.T) {
	cfg := &config.Config{
		DataBackend:   "memory",
		KeyPrefix:     "expense_tracker",
		SweepInterval: 30 * time.Second,
	}
	result, err := Create(cfg, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer result.Cleanup()

	session, err := result.App.StartSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	defer session.Close()

	if len(session.Snapshot().Accounts) == 0 {
		t.Fatal("expected seeded accounts")
	}
}

func TestCreateRejectsUnknownBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "postgres"}
	if _, err := Create(cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestBackendTypeIsValid(t *testing.T) {
	if !SQLiteBackend.IsValid() || !MemoryBackend.IsValid() {
		t.Fatal("known backends must validate")
	}
	if Type("postgres").IsValid() {
		t.Fatal("unknown backend must not validate")
	}
}
