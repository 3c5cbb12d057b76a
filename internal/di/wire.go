//go:build wireinject
// +build wireinject

package di

import (
	dsvc "HodlCalc/internal/domain/service"
	"HodlCalc/internal/handler/api"
	"HodlCalc/internal/services/forecast"
	"HodlCalc/internal/usecase"
	"HodlCalc/pkg/config"
	"HodlCalc/pkg/server"

	"github.com/google/wire"
)

var priceSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideRateLimiter,
	ProvidePriceSource,
	ProvideFallbackPrices,
	ProvidePriceRepository,
)

var projectionSet = wire.NewSet(
	ProvideForecastModel,
	wire.Bind(new(dsvc.Projector), new(*forecast.Model)),
	ProvideLimits,
	usecase.NewPriceRouter,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		priceSet,
		projectionSet,

		// Infrastructure clients
		ProvideKafkaProducer,

		// Use cases
		usecase.NewValuationUseCase,
		usecase.NewChartUseCase,
		usecase.NewModelInfoUseCase,

		// HTTP
		ProvidePriceStream,
		api.NewDashboardEchoHandler,
		ProvideHTTPServer,

		// Background jobs
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeValuation wires the valuation use case for one-off CLI runs.
func InitializeValuation(cfg *config.Config) (*usecase.ValuationUseCase, error) {
	wire.Build(
		priceSet,
		projectionSet,
		usecase.NewValuationUseCase,
	)
	return &usecase.ValuationUseCase{}, nil
}
