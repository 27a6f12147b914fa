package repository

import (
	"context"

	"SignalGate/internal/domain/models"
)

// SignalStore is the authoritative registry of signals. Implementations
// must make Create and UpdateStatus atomic per id and must hand out copies,
// never references into internal state.
type SignalStore interface {
	Create(ctx context.Context, s *models.Signal) error
	Get(ctx context.Context, id string) (*models.Signal, error)
	// List returns signals in insertion order, optionally filtered by
	// status, truncated to limit.
	List(ctx context.Context, status models.Status, limit int) ([]*models.Signal, error)
	// UpdateStatus applies a PENDING -> APPROVED|REJECTED transition and
	// returns the updated record. models.ErrNotFound when the id is
	// unknown, models.ErrInvalidTransition when the signal is not PENDING.
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Signal, error)
	Stats(ctx context.Context) (models.StatusCounts, error)
}

// Notifier delivers a classified signal to an external channel. Best
// effort: "not configured" is a no-op success, failures never propagate.
type Notifier interface {
	Notify(ctx context.Context, s *models.Signal) error
	Configured() bool
}

// LogSink appends accepted signals to a durable, size-bounded collection.
type LogSink interface {
	Append(ctx context.Context, s *models.Signal) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher broadcasts accepted signals to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, s *models.Signal) error
	Close() error
}

// Broadcaster pushes accepted signals to live subscribers (WebSocket feed).
type Broadcaster interface {
	Broadcast(s *models.Signal)
}

// Metrics records operational counters for the ingestion pipeline.
type Metrics interface {
	RecordIngested(status models.Status)
	RecordValidationFailure()
	RecordTransition(to models.Status)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
