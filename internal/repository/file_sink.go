package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"
)

// FileSink appends accepted signals to a JSON array on disk, keeping only
// the most recent cap entries (oldest evicted first). The whole file is
// rewritten per append; ingestion volume is low enough that this is fine.
type FileSink struct {
	mu   sync.Mutex
	path string
	cap  int
}

func NewFileSink(path string, cap int) *FileSink {
	if cap <= 0 {
		cap = 500
	}
	return &FileSink{path: path, cap: cap}
}

func (f *FileSink) Append(_ context.Context, s *models.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var entries []*models.Signal
	if b, err := os.ReadFile(f.path); err == nil {
		if err := json.Unmarshal(b, &entries); err != nil {
			// Corrupt log is not worth failing ingestion over; start fresh.
			entries = nil
		}
	}

	entries = append(entries, s)
	if len(entries) > f.cap {
		entries = entries[len(entries)-f.cap:]
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal signal log: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write signal log: %w", err)
	}
	return nil
}

func (f *FileSink) Health(_ context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("sink directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("sink path parent %s is not a directory", dir)
	}
	return nil
}

func (f *FileSink) Close() error { return nil }

var _ repository.LogSink = (*FileSink)(nil)
