//go:build wireinject
// +build wireinject

package di

import (
	"SignalGate/pkg/config"
	"SignalGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Engine
		ProvideWatchlist,
		ProvideValidator,
		ProvidePolicy,

		// Repositories and outbound channels
		ProvideStore,
		ProvideNotifier,
		ProvideLogSink,
		ProvideKafkaProducer,
		ProvidePublisher,
		ProvideHub,
		ProvideBroadcaster,

		// Use cases
		ProvideProcessor,
		ProvideKafkaConsumer,
		ProvideKafkaSignalsHandler,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
