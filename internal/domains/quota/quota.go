package quota

//go:generate go run go.uber.org/mock/mockgen -source=./quota.go -destination=./mocks/quota_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"
	"poolbook/config"
	"poolbook/infras/otel"
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
	gRepo "poolbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Checker decides whether a pool can take more bookings. It must run inside
// the transaction that will perform the inserts.
type Checker interface {
	// CheckAvailability reports whether units more bookings fit in poolID.
	CheckAvailability(ctx context.Context, tx *sqlx.Tx, poolID string, units int) (bool, error)
}

// New picks the strategy named by the booking configuration.
func New(cfg *config.Config, table gRepo.Table, mapping model.Mapping, otl otel.Otel) Checker {
	if cfg.Booking.Quota.Mode == constant.QuotaModeNone {
		log.Info().Msg("Quota enforcement disabled")

		return NewNoQuota()
	}

	log.Info().Int("pools", len(cfg.Booking.Quota.Limits)).Msg("Quota enforcement enabled")

	return NewBasicQuota(table, mapping, cfg.Booking.Quota.Limits, otl)
}

type noQuota struct{}

// NewNoQuota returns a checker that never refuses.
func NewNoQuota() Checker {
	return noQuota{}
}

func (noQuota) CheckAvailability(_ context.Context, _ *sqlx.Tx, _ string, _ int) (bool, error) {
	return true, nil
}

type basicQuota struct {
	table   gRepo.Table
	mapping model.Mapping
	limits  map[string]int
	otel    otel.Otel
}

// NewBasicQuota enforces a fixed limit per pool. Pools without a limit are
// unlimited and never hit the store.
func NewBasicQuota(table gRepo.Table, mapping model.Mapping, limits map[string]int, otl otel.Otel) Checker {
	return &basicQuota{
		table:   table,
		mapping: mapping,
		limits:  maps.Clone(limits),
		otel:    otl,
	}
}

func (q *basicQuota) CheckAvailability(ctx context.Context, tx *sqlx.Tx, poolID string, units int) (allowed bool, err error) {
	ctx, scope := q.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".quota.CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelPoolIDAttributeKey, poolID)

	limit, ok := q.limits[poolID]
	if !ok {
		return true, nil
	}

	count, err := q.table.CountTx(ctx, tx, q.mapping.NonVoid(poolID))
	if err != nil {
		log.Error().Err(err).Str("pool_id", poolID).Msg("failed to count bookings for quota")

		return false, fmt.Errorf("failed to count bookings for pool %s: %w", poolID, err)
	}

	scope.SetAttributes(map[string]any{"quota.limit": limit, "quota.count": count, "quota.units": units})

	return count+units <= limit, nil
}
