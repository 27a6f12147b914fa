package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/repository"
	"SignalGate/internal/services/engine"
	xlogger "SignalGate/pkg/logger"
)

type stubNotifier struct {
	mu         sync.Mutex
	notified   []string
	failWith   error
	configured bool
}

func (s *stubNotifier) Notify(_ context.Context, sig *models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, sig.ID)
	return s.failWith
}

func (s *stubNotifier) Configured() bool { return s.configured }

func (s *stubNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notified)
}

type stubSink struct {
	mu       sync.Mutex
	appended []string
}

func (s *stubSink) Append(_ context.Context, sig *models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, sig.ID)
	return nil
}

func (s *stubSink) Health(context.Context) error { return nil }
func (s *stubSink) Close() error                 { return nil }

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appended)
}

type stubMetrics struct {
	mu       sync.Mutex
	ingested map[models.Status]int
	failures int
	errors   map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{ingested: map[models.Status]int{}, errors: map[string]int{}}
}

func (m *stubMetrics) RecordIngested(s models.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested[s]++
}

func (m *stubMetrics) RecordValidationFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *stubMetrics) RecordTransition(models.Status) {}

func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *stubMetrics) RecordLatency(string, float64) {}

type testEnv struct {
	processor *SignalProcessor
	store     *repository.MemoryStore
	notifier  *stubNotifier
	sink      *stubSink
	metrics   *stubMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	watchlist := engine.NewWatchlist([]string{"BTCUSD", "ETHUSD"})
	store := repository.NewMemoryStore()
	notifier := &stubNotifier{configured: true}
	sink := &stubSink{}
	metrics := newStubMetrics()

	p := NewSignalProcessor(
		store, notifier, sink, nil, nil, metrics, l,
		watchlist,
		engine.NewValidator(watchlist, engine.DefaultRRWarnThreshold),
		engine.DefaultPolicy(),
		time.Second,
	)
	return &testEnv{processor: p, store: store, notifier: notifier, sink: sink, metrics: metrics}
}

func canonicalPayload() engine.Payload {
	return engine.Payload{
		"asset":            "BTCUSD",
		"signal_type":      "LONG",
		"entry_price":      50000.0,
		"stop_loss":        49000.0,
		"take_profit":      52000.0,
		"rr_ratio":         2.0,
		"confidence_score": 8,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestIngestRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, failure, err := env.processor.Ingest(ctx, canonicalPayload())
	if err != nil || failure != nil {
		t.Fatalf("ingest: err=%v failure=%v", err, failure)
	}
	if result.ApprovalStatus != models.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", result.ApprovalStatus)
	}
	if !strings.HasPrefix(result.SignalID, "SIG-") || len(result.SignalID) != 12 {
		t.Fatalf("bad id: %s", result.SignalID)
	}

	got, err := env.processor.Get(ctx, result.SignalID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Asset != "BTCUSD" || got.Direction != models.DirectionLong ||
		got.EntryPrice != 50000 || got.StopLoss != 49000 || got.TakeProfit != 52000 ||
		got.RRRatio != 2.0 || got.ConfidenceScore != 8 || got.Status != models.StatusApproved {
		t.Fatalf("stored record mismatch: %+v", got)
	}
	if got.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC")
	}

	waitFor(t, func() bool { return env.notifier.count() == 1 && env.sink.count() == 1 })
}

func TestIngestAlternateShapeClassifiesApproved(t *testing.T) {
	env := newTestEnv(t)

	payload := engine.Payload{
		"symbol": "BTCUSD",
		"entry":  50000.0,
		"stop":   49000.0,
		"tp1":    52000.0,
		"score":  9.0,
	}
	result, failure, err := env.processor.Ingest(context.Background(), payload)
	if err != nil || failure != nil {
		t.Fatalf("ingest: err=%v failure=%v", err, failure)
	}
	if result.ApprovalStatus != models.StatusApproved {
		t.Fatalf("status = %s, want APPROVED", result.ApprovalStatus)
	}

	got, _ := env.processor.Get(context.Background(), result.SignalID)
	if got.RRRatio != 2.0 || got.Direction != models.DirectionLong {
		t.Fatalf("normalization lost: %+v", got)
	}
}

func TestIngestRejectedAtCreationIsStillAccepted(t *testing.T) {
	env := newTestEnv(t)

	payload := canonicalPayload()
	payload["confidence_score"] = 3
	result, failure, err := env.processor.Ingest(context.Background(), payload)
	if err != nil || failure != nil {
		t.Fatalf("ingest: err=%v failure=%v", err, failure)
	}
	if result.ApprovalStatus != models.StatusRejected {
		t.Fatalf("status = %s, want REJECTED", result.ApprovalStatus)
	}

	// Rejected-at-creation is terminal: the record exists but manual
	// transitions must fail.
	if _, err := env.processor.Approve(context.Background(), result.SignalID); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	waitFor(t, func() bool { return env.sink.count() == 1 })
}

func TestIngestValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	payload := canonicalPayload()
	payload["asset"] = "DOGECOIN"
	result, failure, err := env.processor.Ingest(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if result != nil || failure == nil {
		t.Fatalf("expected validation failure, got result=%v", result)
	}
	if failure.Reason != "validation_failed" || len(failure.Errors) == 0 {
		t.Fatalf("bad failure: %+v", failure)
	}

	list, _ := env.processor.List(context.Background(), "", 0)
	if list.Count != 0 {
		t.Fatalf("invalid signal must not be stored")
	}
	env.processor.Close()
	if env.notifier.count() != 0 || env.sink.count() != 0 {
		t.Fatalf("side effects must not fire on validation failure")
	}
	if env.metrics.failures != 1 {
		t.Fatalf("validation failure not counted")
	}
}

func TestIngestWarningsPassThrough(t *testing.T) {
	env := newTestEnv(t)

	payload := canonicalPayload()
	payload["rr_ratio"] = 1.2
	payload["confidence_score"] = 7
	result, failure, err := env.processor.Ingest(context.Background(), payload)
	if err != nil || failure != nil {
		t.Fatalf("ingest: err=%v failure=%v", err, failure)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected rr warning, got %v", result.Warnings)
	}
	if result.ApprovalStatus != models.StatusPending {
		t.Fatalf("status = %s, want PENDING", result.ApprovalStatus)
	}
}

func TestNotifierFailureDoesNotAffectIngestion(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.failWith = errors.New("telegram down")

	result, failure, err := env.processor.Ingest(context.Background(), canonicalPayload())
	if err != nil || failure != nil {
		t.Fatalf("ingest must succeed despite notifier failure: err=%v failure=%v", err, failure)
	}
	if _, err := env.processor.Get(context.Background(), result.SignalID); err != nil {
		t.Fatalf("signal must be persisted: %v", err)
	}

	env.processor.Close()
	env.metrics.mu.Lock()
	defer env.metrics.mu.Unlock()
	if env.metrics.errors["notify"] != 1 {
		t.Fatalf("notify failure not counted: %v", env.metrics.errors)
	}
}

func TestApproveRejectFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := canonicalPayload()
	payload["confidence_score"] = 7
	result, _, _ := env.processor.Ingest(ctx, payload)
	if result.ApprovalStatus != models.StatusPending {
		t.Fatalf("precondition: expected PENDING")
	}

	tr, err := env.processor.Approve(ctx, result.SignalID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if tr.Status != models.StatusApproved {
		t.Fatalf("status = %s", tr.Status)
	}

	// Approve is not repeatable.
	if _, err := env.processor.Approve(ctx, result.SignalID); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("second approve must fail with ErrInvalidTransition, got %v", err)
	}

	if _, err := env.processor.Reject(ctx, "SIG-MISSING", "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectEchoesReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := canonicalPayload()
	payload["confidence_score"] = 6
	result, _, _ := env.processor.Ingest(ctx, payload)

	tr, err := env.processor.Reject(ctx, result.SignalID, "setup invalidated")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if tr.Reason != "setup invalidated" || tr.Status != models.StatusRejected {
		t.Fatalf("bad transition result: %+v", tr)
	}

	// The reason is an audit annotation only, never persisted.
	got, _ := env.processor.Get(ctx, result.SignalID)
	if got.Status != models.StatusRejected {
		t.Fatalf("status not persisted")
	}
}

func TestKafkaSignalsHandlerDropsInvalid(t *testing.T) {
	env := newTestEnv(t)
	l, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	h := NewKafkaSignalsHandler("signals.raw", env.processor, l)

	if h.Topic() != "signals.raw" {
		t.Fatalf("topic = %s", h.Topic())
	}
	if err := h.Handle(context.Background(), []byte("{broken")); err != nil {
		t.Fatalf("malformed payload must be dropped, got %v", err)
	}
	if err := h.Handle(context.Background(), []byte(`{"asset":"DOGECOIN"}`)); err != nil {
		t.Fatalf("invalid payload must be dropped, got %v", err)
	}
	if err := h.Handle(context.Background(), []byte(`{"symbol":"BTCUSD","entry":50000,"stop":49000,"tp1":52000,"score":9}`)); err != nil {
		t.Fatalf("valid payload: %v", err)
	}

	list, _ := env.processor.List(context.Background(), "", 0)
	if list.Count != 1 {
		t.Fatalf("expected exactly one stored signal, got %d", list.Count)
	}
}
