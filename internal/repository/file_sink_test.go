package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"SignalGate/internal/domain/models"
)

func TestFileSinkAppendAndCap(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signals-log.json")
	sink := NewFileSink(path, 3)

	for i := 0; i < 5; i++ {
		s := testSignal(fmt.Sprintf("SIG-%04d", i), models.StatusApproved)
		if err := sink.Append(ctx, s); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entries []*models.Signal
	if err := json.Unmarshal(b, &entries); err != nil {
		t.Fatalf("unmarshal log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(entries))
	}
	// Oldest evicted first: the survivors are the last three appends.
	if entries[0].ID != "SIG-0002" || entries[2].ID != "SIG-0004" {
		t.Fatalf("wrong survivors: %s..%s", entries[0].ID, entries[2].ID)
	}
}

func TestFileSinkRecoversFromCorruptLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signals-log.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	sink := NewFileSink(path, 10)
	if err := sink.Append(ctx, testSignal("SIG-OK", models.StatusPending)); err != nil {
		t.Fatalf("append over corrupt log: %v", err)
	}

	b, _ := os.ReadFile(path)
	var entries []*models.Signal
	if err := json.Unmarshal(b, &entries); err != nil || len(entries) != 1 {
		t.Fatalf("expected fresh log with one entry, got %v (%v)", entries, err)
	}
}

func TestFileSinkHealth(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "log.json"), 500)
	if err := sink.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	bad := NewFileSink("/nonexistent-dir-xyz/log.json", 500)
	if err := bad.Health(context.Background()); err == nil {
		t.Fatalf("expected health failure for missing directory")
	}
}
