package extradata

//go:generate go run go.uber.org/mock/mockgen -source=./extradata.go -destination=./mocks/extradata_mock.go -package=mocks

import (
	"context"
	"poolbook/config"
	"poolbook/infras/otel"
	"poolbook/infras/postgres"
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
	gRepo "poolbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Store persists the extra data attached to a booking set. Its storage mode
// is fixed when it is built. Insert and Update ignore nil data.
type Store interface {
	Mode() string
	InsertExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) error
	UpdateExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) error
	DeleteExtraData(ctx context.Context, tx *sqlx.Tx, bookingSetID string) error
	GetExtraData(ctx context.Context, bookingSetID string) (model.ExtraData, error)
	// Validate rejects data the store could not persist.
	Validate(data model.ExtraData) error
}

// New builds the store for the configured mode. It returns nil when extra
// data storage is disabled.
func New(cfg *config.Config, db *postgres.Connection, bookings gRepo.Table, mapping model.Mapping, otl otel.Otel) Store {
	switch cfg.Booking.ExtraData.Mode {
	case constant.ExtraDataModeMerged:
		log.Info().Str("table", mapping.Table).Msg("Extra data stored in booking table")

		return NewMerged(bookings, mapping, otl)
	case constant.ExtraDataModeSeparate:
		log.Info().Str("table", mapping.ExtraDataTable).Msg("Extra data stored in dedicated table")

		return NewSeparate(gRepo.NewTable(mapping.ExtraDataTable, "", db, otl), mapping, otl)
	default:
		log.Info().Msg("Extra data storage disabled")

		return nil
	}
}
