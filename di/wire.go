//go:build wireinject
// +build wireinject

package di

import (
	"poolbook/config"
	"poolbook/infras/kafka"
	"poolbook/infras/otel"
	"poolbook/infras/postgres"
	"poolbook/infras/redis"
	bookingRepository "poolbook/internal/domains/booking/repository"
	bookingService "poolbook/internal/domains/booking/service"
	"poolbook/internal/domains/extradata"
	"poolbook/internal/domains/quota"
	bookingHandler "poolbook/internal/handlers/booking"
	"poolbook/shared/cache"
	"poolbook/transport/http"
	"poolbook/transport/http/middleware"
	"poolbook/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	provideMapping,
	bookingService.NewSettings,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	provideTransactor,
	provideLocker,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	provideBookingTable,
	quota.New,
	extradata.New,
	bookingService.New,
)

var domains = wire.NewSet(
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil
}
