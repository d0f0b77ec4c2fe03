package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"cmp"
	"context"
	"fmt"
	"poolbook/infras/otel"
	"poolbook/infras/postgres"
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
	gDto "poolbook/shared/dto"
	gRepo "poolbook/shared/repository"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	gRepo.Table
	InsertBookingTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (int64, error)
	// ConfirmSetTx moves every pre-reserved row of the set to booked and
	// returns how many rows changed.
	ConfirmSetTx(ctx context.Context, tx *sqlx.Tx, bookingSetID string, at time.Time) (int64, error)
	GetBySetID(ctx context.Context, bookingSetID string) ([]model.Booking, error)
	Mapping() model.Mapping
}

type repositoryImpl struct {
	gRepo.Table
	mapping model.Mapping
	otel    otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel, mapping model.Mapping) Booking {
	return NewWithTable(gRepo.NewTable(mapping.Table, mapping.ID, db, otel), otel, mapping)
}

// NewWithTable builds the repository on top of an existing table gateway.
func NewWithTable(table gRepo.Table, otel otel.Otel, mapping model.Mapping) Booking {
	return &repositoryImpl{
		Table:   table,
		mapping: mapping,
		otel:    otel,
	}
}

func (r *repositoryImpl) Mapping() model.Mapping {
	return r.mapping
}

func (r *repositoryImpl) InsertBookingTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertBookingTx")
	defer scope.End()

	id, err := r.InsertTx(ctx, tx, r.mapping.ToRow(booking))
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	return id, nil
}

func (r *repositoryImpl) ConfirmSetTx(ctx context.Context, tx *sqlx.Tx, bookingSetID string, at time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ConfirmSetTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelBookingSetIDAttributeKey, bookingSetID)

	fields := map[string]any{
		r.mapping.Status:          string(model.StatusBooked),
		r.mapping.StatusChangedAt: at.UTC(),
	}

	filter := gDto.And(
		gDto.Eq(r.mapping.BookingSetID, bookingSetID),
		gDto.Eq(r.mapping.Status, string(model.StatusPreReserved)),
	)

	affected, err := r.UpdateTx(ctx, tx, fields, filter)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to confirm booking set: %w", err)
	}

	return affected, nil
}

func (r *repositoryImpl) GetBySetID(ctx context.Context, bookingSetID string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetBySetID")
	defer scope.End()

	rows, err := r.Select(ctx, r.mapping.BySet(bookingSetID))
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get booking set: %w", err)
	}

	bookings := make([]model.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, r.mapping.FromRow(row))
	}

	slices.SortFunc(bookings, func(a, b model.Booking) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return bookings, nil
}
