package di

import (
	"poolbook/config"
	"poolbook/infras/otel"
	"poolbook/infras/postgres"
	"poolbook/infras/redis"
	"poolbook/internal/domains/booking/model"
	bookingRepository "poolbook/internal/domains/booking/repository"
	"poolbook/shared/constant"
	"poolbook/shared/lock"
	gRepo "poolbook/shared/repository"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func provideMapping(cfg *config.Config) (model.Mapping, error) {
	return model.NewMapping(cfg) //nolint:wrapcheck
}

func provideTransactor(db *postgres.Connection) gRepo.Transactor {
	return db
}

// provideBookingTable exposes the booking repository as the plain table
// gateway used by quota counting and merged extra data.
func provideBookingTable(repo bookingRepository.Booking) gRepo.Table {
	return repo
}

func provideLocker(cfg *config.Config, client *goRedis.Client, otl otel.Otel) lock.Locker {
	if cfg.Booking.Lock.Mode == constant.LockModeRedis {
		log.Info().Int("ttl_seconds", cfg.Booking.Lock.TTLSeconds).Msg("Using Redis pool lock")

		return redis.NewPoolLock(client, cfg, otl)
	}

	log.Info().Msg("Using Postgres advisory pool lock")

	return postgres.NewAdvisoryLock(otl)
}
