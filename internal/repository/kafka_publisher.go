package repository

import (
	"context"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"
	pkgkafka "SignalGate/pkg/kafka"
)

// KafkaPublisher broadcasts accepted signals to a topic for downstream
// consumers (execution bots, dashboards). Keyed by asset so per-asset
// ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, s *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Asset), s)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
