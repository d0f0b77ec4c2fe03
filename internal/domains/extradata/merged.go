package extradata

import (
	"context"
	"fmt"
	"poolbook/infras/otel"
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
	gRepo "poolbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type merged struct {
	bookings gRepo.Table
	mapping  model.Mapping
	otel     otel.Otel
}

// NewMerged stores extra data as additional columns of the booking rows.
// Those columns belong to the bookings, so they can be overwritten but
// never deleted.
func NewMerged(bookings gRepo.Table, mapping model.Mapping, otl otel.Otel) Store {
	return &merged{
		bookings: bookings,
		mapping:  mapping,
		otel:     otl,
	}
}

func (m *merged) Mode() string {
	return constant.ExtraDataModeMerged
}

func (m *merged) Validate(data model.ExtraData) error {
	return data.Validate(m.mapping.CoreColumns()...) //nolint:wrapcheck
}

func (m *merged) InsertExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.merged.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return m.write(ctx, tx, data, bookingSetID)
}

func (m *merged) UpdateExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.merged.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return m.write(ctx, tx, data, bookingSetID)
}

func (m *merged) write(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) error {
	if data == nil {
		return nil
	}

	if err := m.Validate(data); err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	if _, err := m.bookings.UpdateTx(ctx, tx, data, m.mapping.BySet(bookingSetID)); err != nil {
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to write merged extra data")

		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	return nil
}

// DeleteExtraData always fails: removing the columns would remove bookings.
func (m *merged) DeleteExtraData(_ context.Context, _ *sqlx.Tx, bookingSetID string) error {
	return fmt.Errorf("%w: cannot delete extra data of booking set %s stored in booking rows", model.ErrUnsupportedOperation, bookingSetID)
}

func (m *merged) GetExtraData(ctx context.Context, bookingSetID string) (data model.ExtraData, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.merged.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rows, err := m.bookings.Select(ctx, m.mapping.BySet(bookingSetID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return m.mapping.FromRow(rows[0]).Extra, nil
}
