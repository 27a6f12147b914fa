package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"SignalGate/internal/domain/models"
	drepo "SignalGate/internal/domain/repository"
	"SignalGate/internal/services/engine"
	xlogger "SignalGate/pkg/logger"

	"github.com/google/uuid"
)

// DefaultSideEffectTimeout bounds each fire-and-forget side effect
// (Telegram, log sink, Kafka broadcast) after the store commit.
const DefaultSideEffectTimeout = 10 * time.Second

// SignalProcessor runs the ingestion pipeline: normalize -> validate ->
// classify -> store -> side effects. It also fronts the approval state
// machine for manual transitions.
type SignalProcessor struct {
	store       drepo.SignalStore
	notifier    drepo.Notifier
	sink        drepo.LogSink
	publisher   drepo.Publisher   // optional
	broadcaster drepo.Broadcaster // optional
	metrics     drepo.Metrics
	logger      *xlogger.Logger

	watchlist *engine.Watchlist
	validator *engine.Validator
	policy    engine.Policy

	effectTimeout time.Duration
	wg            sync.WaitGroup
}

func NewSignalProcessor(
	store drepo.SignalStore,
	notifier drepo.Notifier,
	sink drepo.LogSink,
	publisher drepo.Publisher,
	broadcaster drepo.Broadcaster,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	watchlist *engine.Watchlist,
	validator *engine.Validator,
	policy engine.Policy,
	effectTimeout time.Duration,
) *SignalProcessor {
	if effectTimeout <= 0 {
		effectTimeout = DefaultSideEffectTimeout
	}
	return &SignalProcessor{
		store:         store,
		notifier:      notifier,
		sink:          sink,
		publisher:     publisher,
		broadcaster:   broadcaster,
		metrics:       metrics,
		logger:        logger,
		watchlist:     watchlist,
		validator:     validator,
		policy:        policy,
		effectTimeout: effectTimeout,
	}
}

// NewSignalID mints a store id: SIG- plus the first 8 hex chars of a
// UUID, uppercased.
func NewSignalID() string {
	return "SIG-" + strings.ToUpper(uuid.NewString()[:8])
}

// Ingest processes one raw payload. Three outcomes:
//   - accepted: IngestResult (covers REJECTED-at-creation too; that is
//     still a successful ingestion, just a terminal classification)
//   - validation failure: ValidationFailure with the full error list
//   - internal error: store invariant broke, returned as error
func (p *SignalProcessor) Ingest(ctx context.Context, payload engine.Payload) (*models.IngestResult, *models.ValidationFailure, error) {
	start := time.Now()

	res := p.validator.Validate(engine.Normalize(payload))
	if !res.Valid() {
		p.metrics.RecordValidationFailure()
		p.logger.Warn("signal rejected by validation",
			xlogger.Int("errors", len(res.Errors)),
			xlogger.Any("detail", res.Errors))
		return nil, &models.ValidationFailure{
			Reason:   "validation_failed",
			Errors:   res.Errors,
			Warnings: res.Warnings,
		}, nil
	}

	in := res.Input
	status := p.policy.Classify(in.ConfidenceScore, in.RRRatio)

	sig := &models.Signal{
		ID:              NewSignalID(),
		Timestamp:       time.Now().UTC(),
		Asset:           in.Asset,
		Direction:       in.Direction,
		EntryPrice:      in.EntryPrice,
		StopLoss:        in.StopLoss,
		TakeProfit:      in.TakeProfit,
		RRRatio:         in.RRRatio,
		ConfidenceScore: in.ConfidenceScore,
		Status:          status,
	}

	if err := p.store.Create(ctx, sig); err != nil {
		// Duplicate ids should be unreachable; surface loudly.
		p.metrics.RecordError("store_create")
		p.logger.Error("store create failed", xlogger.String("signal_id", sig.ID), xlogger.Error(err))
		return nil, nil, fmt.Errorf("store signal: %w", err)
	}

	p.metrics.RecordIngested(status)
	p.metrics.RecordLatency("ingest", time.Since(start).Seconds())
	p.logger.Info("signal ingested",
		xlogger.String("signal_id", sig.ID),
		xlogger.String("asset", sig.Asset),
		xlogger.String("status", string(status)))

	p.dispatchSideEffects(sig)

	return &models.IngestResult{
		SignalID:       sig.ID,
		ApprovalStatus: status,
		Message:        fmt.Sprintf("Signal %s %s", sig.ID, strings.ToLower(string(status))),
		Warnings:       res.Warnings,
	}, nil, nil
}

// dispatchSideEffects fans the committed signal out to the best-effort
// channels. Each runs on its own goroutine with a fresh bounded context;
// failures are logged and counted, never returned.
func (p *SignalProcessor) dispatchSideEffects(sig *models.Signal) {
	s := sig.Clone()

	p.runEffect("notify", func(ctx context.Context) error {
		return p.notifier.Notify(ctx, s)
	})
	p.runEffect("log_sink", func(ctx context.Context) error {
		return p.sink.Append(ctx, s)
	})
	if p.publisher != nil {
		p.runEffect("publish", func(ctx context.Context) error {
			return p.publisher.Publish(ctx, s)
		})
	}
	if p.broadcaster != nil {
		p.broadcaster.Broadcast(s)
	}
}

func (p *SignalProcessor) runEffect(name string, fn func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.effectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			p.metrics.RecordError(name)
			p.logger.Warn("side effect failed",
				xlogger.String("effect", name),
				xlogger.Error(err))
		}
	}()
}

// Approve transitions a PENDING signal to APPROVED.
func (p *SignalProcessor) Approve(ctx context.Context, id string) (*models.TransitionResult, error) {
	s, err := p.store.UpdateStatus(ctx, id, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordTransition(models.StatusApproved)
	p.logger.Info("signal approved", xlogger.String("signal_id", id))
	return &models.TransitionResult{SignalID: id, Status: s.Status}, nil
}

// Reject transitions a PENDING signal to REJECTED. The reason is echoed
// back to the caller only; it is not persisted.
func (p *SignalProcessor) Reject(ctx context.Context, id, reason string) (*models.TransitionResult, error) {
	s, err := p.store.UpdateStatus(ctx, id, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordTransition(models.StatusRejected)
	p.logger.Info("signal rejected", xlogger.String("signal_id", id), xlogger.String("reason", reason))
	return &models.TransitionResult{SignalID: id, Status: s.Status, Reason: reason}, nil
}

// Get returns one signal by id.
func (p *SignalProcessor) Get(ctx context.Context, id string) (*models.Signal, error) {
	return p.store.Get(ctx, id)
}

// List returns signals filtered by optional status, capped at limit.
func (p *SignalProcessor) List(ctx context.Context, status models.Status, limit int) (*models.SignalList, error) {
	signals, err := p.store.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	return &models.SignalList{Count: len(signals), Signals: signals}, nil
}

// Stats returns per-status totals.
func (p *SignalProcessor) Stats(ctx context.Context) (models.StatusCounts, error) {
	return p.store.Stats(ctx)
}

// Watchlist exposes the static asset allowlist.
func (p *SignalProcessor) Watchlist() *engine.Watchlist {
	return p.watchlist
}

// NotifierConfigured reports the outbound channel readiness for health.
func (p *SignalProcessor) NotifierConfigured() bool {
	return p.notifier.Configured()
}

// Close waits for in-flight side effects and releases sink/publisher
// resources.
func (p *SignalProcessor) Close() {
	p.wg.Wait()
	if p.sink != nil {
		_ = p.sink.Close()
	}
	if p.publisher != nil {
		_ = p.publisher.Close()
	}
}
