package di

import (
	"context"
	"fmt"
	"time"

	"SignalGate/internal/domain/repository"
	"SignalGate/internal/handler/api"
	internalrepo "SignalGate/internal/repository"
	"SignalGate/internal/service/stream"
	"SignalGate/internal/service/telegram"
	"SignalGate/internal/services/engine"
	"SignalGate/internal/usecase"
	pkgch "SignalGate/pkg/clickhouse"
	"SignalGate/pkg/config"
	pkgkafka "SignalGate/pkg/kafka"
	"SignalGate/pkg/logger"
	"SignalGate/pkg/metrics"
	"SignalGate/pkg/server"

	"github.com/redis/go-redis/v9"
)

// Version is reported by / and /health.
const Version = "1.0.0"

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logging.Format
	if format == "" {
		format = "json"
	}
	output := cfg.Logging.Output
	if output == "" {
		output = "stdout"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the in-memory signal store.
func ProvideStore() repository.SignalStore {
	return internalrepo.NewMemoryStore()
}

// ProvideWatchlist builds the asset allowlist from config.
func ProvideWatchlist(cfg *config.Config) *engine.Watchlist {
	return engine.NewWatchlist(cfg.Watchlist)
}

// ProvideValidator creates the intake validator.
func ProvideValidator(cfg *config.Config, watchlist *engine.Watchlist) *engine.Validator {
	warn := cfg.Risk.RRWarnThreshold
	if warn <= 0 {
		warn = engine.DefaultRRWarnThreshold
	}
	return engine.NewValidator(watchlist, warn)
}

// ProvidePolicy builds the classification thresholds from config.
func ProvidePolicy(cfg *config.Config) engine.Policy {
	p := engine.DefaultPolicy()
	if cfg.Risk.ConfidenceAutoApprove > 0 {
		p.ConfidenceAutoApprove = cfg.Risk.ConfidenceAutoApprove
	}
	if cfg.Risk.ConfidencePending > 0 {
		p.ConfidencePending = cfg.Risk.ConfidencePending
	}
	if cfg.Risk.RRAutoApprove > 0 {
		p.RRAutoApprove = cfg.Risk.RRAutoApprove
	}
	return p
}

// ProvideNotifier creates the Telegram notifier. An empty token yields a
// configured no-op.
func ProvideNotifier(cfg *config.Config, l *logger.Logger) repository.Notifier {
	timeout := cfg.Telegram.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChannelID, timeout, l)
}

// ProvideLogSink selects the signal log backend: file, redis or clickhouse.
func ProvideLogSink(cfg *config.Config) (repository.LogSink, error) {
	switch cfg.Sink.Backend {
	case "file":
		path := cfg.Sink.File.Path
		if path == "" {
			path = "signals_log.json"
		}
		return internalrepo.NewFileSink(path, cfg.Sink.Capacity), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Sink.Redis.Addr,
			Password: cfg.Sink.Redis.Password,
			DB:       cfg.Sink.Redis.DB,
		})
		return internalrepo.NewRedisSink(client, cfg.Sink.Redis.Key, cfg.Sink.Capacity), nil

	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		table := cfg.Sink.Table
		if table == "" {
			table = cfg.ClickHouse.Database + ".signals_log"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, []string{
			"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
			"CREATE TABLE IF NOT EXISTS " + table + ` (
				id String,
				ts DateTime,
				asset String,
				direction String,
				entry_price Float64,
				stop_loss Float64,
				take_profit Float64,
				rr_ratio Float64,
				confidence_score UInt8,
				status String
			) ENGINE=MergeTree ORDER BY (asset, ts) TTL ts + INTERVAL 30 DAY`,
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}

		return internalrepo.NewClickHouseSink(client.DB(), table, client), nil

	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.Sink.Backend)
	}
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvidePublisher wraps the producer as a signal publisher, or nil.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil || cfg.Kafka.Topic == "" {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.IngestTopic == "" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSignalsHandler registers the ingest topic handler, or nil.
func ProvideKafkaSignalsHandler(cfg *config.Config, processor *usecase.SignalProcessor, l *logger.Logger) *usecase.KafkaSignalsHandler {
	if !cfg.Kafka.Enabled || cfg.Kafka.IngestTopic == "" {
		return nil
	}
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.IngestTopic, processor, l)
}

// ProvideHub creates the WebSocket fan-out hub, or nil when disabled.
func ProvideHub(cfg *config.Config, l *logger.Logger) *stream.Hub {
	if !cfg.Stream.Enabled {
		return nil
	}
	return stream.NewHub(l)
}

// ProvideBroadcaster adapts the hub to the domain interface. A disabled
// hub yields a nil interface so the processor skips the broadcast.
func ProvideBroadcaster(hub *stream.Hub) repository.Broadcaster {
	if hub == nil {
		return nil
	}
	return hub
}

// ProvideProcessor creates the signal processing use case.
func ProvideProcessor(
	store repository.SignalStore,
	notifier repository.Notifier,
	sink repository.LogSink,
	publisher repository.Publisher,
	broadcaster repository.Broadcaster,
	m repository.Metrics,
	l *logger.Logger,
	watchlist *engine.Watchlist,
	validator *engine.Validator,
	policy engine.Policy,
	cfg *config.Config,
) *usecase.SignalProcessor {
	return usecase.NewSignalProcessor(
		store, notifier, sink, publisher, broadcaster, m, l,
		watchlist, validator, policy,
		cfg.Telegram.Timeout,
	)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(l *logger.Logger, processor *usecase.SignalProcessor, hub *stream.Hub, cfg *config.Config) *api.SignalsHandler {
	return api.NewSignalsHandler(l, processor, hub, Version, cfg.Sink.Backend)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	processor *usecase.SignalProcessor,
	handler *api.SignalsHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	hub *stream.Hub,
) *server.App {
	// Avoid handing a typed nil to the interface field.
	var mh pkgkafka.MessageHandler
	if kh != nil {
		mh = kh
	}
	return server.New(cfg, l, processor, handler, consumer, mh, hub)
}
