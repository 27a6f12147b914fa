package usecase

import (
	"context"
	"encoding/json"

	"SignalGate/internal/services/engine"
	pkgkafka "SignalGate/pkg/kafka"
	xlogger "SignalGate/pkg/logger"
)

// KafkaSignalsHandler feeds raw payloads from a Kafka topic through the
// same ingestion pipeline as the HTTP endpoint. Strategy engines publish
// either canonical or charting-webhook shaped JSON objects.
type KafkaSignalsHandler struct {
	topic     string
	processor *SignalProcessor
	logger    *xlogger.Logger
}

func NewKafkaSignalsHandler(topic string, processor *SignalProcessor, logger *xlogger.Logger) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, processor: processor, logger: logger}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

// Handle ingests one message. Malformed or invalid payloads are logged and
// dropped (returning nil) so the consumer does not retry poison messages;
// only internal failures propagate for retry.
func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var payload engine.Payload
	if err := json.Unmarshal(b, &payload); err != nil {
		h.logger.Warn("dropping malformed kafka payload", xlogger.Error(err))
		return nil
	}

	result, failure, err := h.processor.Ingest(ctx, payload)
	if err != nil {
		return err
	}
	if failure != nil {
		h.logger.Warn("dropping invalid kafka signal",
			xlogger.Any("errors", failure.Errors))
		return nil
	}

	h.logger.Info("kafka signal ingested",
		xlogger.String("signal_id", result.SignalID),
		xlogger.String("status", string(result.ApprovalStatus)))
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
