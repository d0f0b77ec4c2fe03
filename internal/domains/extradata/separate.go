package extradata

import (
	"context"
	"fmt"
	"maps"
	"poolbook/infras/otel"
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
	gDto "poolbook/shared/dto"
	gRepo "poolbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// extraDataSetColumn links a row of the dedicated table to its booking set.
const extraDataSetColumn = "booking_set_id"

type separate struct {
	table   gRepo.Table
	mapping model.Mapping
	otel    otel.Otel
}

// NewSeparate stores extra data in a dedicated table keyed by booking set.
func NewSeparate(table gRepo.Table, mapping model.Mapping, otl otel.Otel) Store {
	return &separate{
		table:   table,
		mapping: mapping,
		otel:    otl,
	}
}

func (s *separate) Mode() string {
	return constant.ExtraDataModeSeparate
}

func (s *separate) Validate(data model.ExtraData) error {
	return data.Validate("id", extraDataSetColumn) //nolint:wrapcheck
}

func (s *separate) filter(bookingSetID string) gDto.FilterGroup {
	return gDto.And(gDto.Eq(extraDataSetColumn, bookingSetID))
}

func (s *separate) InsertExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.separate.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if data == nil {
		return nil
	}

	if err = s.Validate(data); err != nil {
		return err
	}

	fields := maps.Clone(data)
	fields[extraDataSetColumn] = bookingSetID

	if _, err = s.table.InsertTx(ctx, tx, fields); err != nil {
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to insert extra data")

		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	return nil
}

func (s *separate) UpdateExtraData(ctx context.Context, tx *sqlx.Tx, data model.ExtraData, bookingSetID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.separate.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if data == nil {
		return nil
	}

	if err = s.Validate(data); err != nil {
		return err
	}

	if len(data) == 0 {
		return nil
	}

	affected, err := s.table.UpdateTx(ctx, tx, data, s.filter(bookingSetID))
	if err != nil {
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to update extra data")

		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if affected == 0 {
		return s.InsertExtraData(ctx, tx, data, bookingSetID)
	}

	return nil
}

func (s *separate) DeleteExtraData(ctx context.Context, tx *sqlx.Tx, bookingSetID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.separate.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.table.DeleteTx(ctx, tx, s.filter(bookingSetID)); err != nil {
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to delete extra data")

		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	return nil
}

func (s *separate) GetExtraData(ctx context.Context, bookingSetID string) (data model.ExtraData, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".extradata.separate.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rows, err := s.table.Select(ctx, s.filter(bookingSetID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	data = model.ExtraData{}

	for _, row := range rows {
		for column, value := range row {
			if column == "id" || column == extraDataSetColumn || value == nil {
				continue
			}

			data[column] = value
		}
	}

	return data, nil
}
