package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"poolbook/config"
	"poolbook/infras/kafka"
	"poolbook/infras/otel"
	"poolbook/internal/domains/booking/model"
	"poolbook/internal/domains/booking/repository"
	"poolbook/internal/domains/extradata"
	"poolbook/internal/domains/quota"
	"poolbook/shared/constant"
	gDto "poolbook/shared/dto"
	"poolbook/shared/lock"
	"poolbook/shared/logger"
	gRepo "poolbook/shared/repository"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const leaseMarginDivisor = 5

var errLeaseExpired = fmt.Errorf("%w: lease ran out before commit", lock.ErrNotAcquired)

type Booking interface {
	// Book reserves the units described by order for booker and returns the
	// id of the new booking set. Either every row of the set is booked or
	// nothing is written.
	Book(ctx context.Context, order model.Order, booker model.Booker, extra model.ExtraData) (string, error)
	// BookPool reserves a single anonymous unit of poolID.
	BookPool(ctx context.Context, poolID string, booker model.Booker, extra model.ExtraData) (string, error)
	GetNbBookings(ctx context.Context, poolID string, filter *gDto.FilterGroup) (int, error)
	GetBookingSet(ctx context.Context, bookingSetID string) ([]model.Booking, error)
	GetExtraData(ctx context.Context, bookingSetID string) (model.ExtraData, error)
	UpdateExtraData(ctx context.Context, bookingSetID string, data model.ExtraData) error
	DeleteExtraData(ctx context.Context, bookingSetID string) error
}

// Settings holds the engine options that do not come from injected ports.
type Settings struct {
	EventTopic string
}

func NewSettings(cfg *config.Config) Settings {
	return Settings{EventTopic: cfg.Kafka.TopicBooked}
}

type serviceImpl struct {
	repo     repository.Booking
	tx       gRepo.Transactor
	quota    quota.Checker
	extra    extradata.Store
	locker   lock.Locker
	kafka    kafka.Client
	settings Settings
	otel     otel.Otel

	now   func() time.Time
	newID func() string
}

// New builds the engine. extra may be nil when extra data storage is disabled.
func New(
	repo repository.Booking,
	tx gRepo.Transactor,
	quota quota.Checker,
	extra extradata.Store,
	locker lock.Locker,
	kafka kafka.Client,
	settings Settings,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		tx:       tx,
		quota:    quota,
		extra:    extra,
		locker:   locker,
		kafka:    kafka,
		settings: settings,
		otel:     otel,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *serviceImpl) BookPool(ctx context.Context, poolID string, booker model.Booker, extra model.ExtraData) (string, error) {
	return s.Book(ctx, model.SimpleOrder{PoolID: poolID}, booker, extra)
}

func (s *serviceImpl) Book(ctx context.Context, order model.Order, booker model.Booker, extra model.ExtraData) (bookingSetID string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if order == nil {
		return "", fmt.Errorf("%w: order is required", model.ErrInvalidOrder)
	}

	if err = order.Validate(); err != nil {
		return "", err
	}

	if err = booker.Validate(); err != nil {
		return "", err
	}

	if extra != nil {
		if s.extra == nil {
			return "", model.ErrMissingExtraDataHandler
		}

		if err = s.extra.Validate(extra); err != nil {
			return "", err //nolint:wrapcheck
		}
	}

	poolID := order.Pool()
	bookingSetID = s.newID()

	scope.SetAttributes(map[string]any{
		constant.OtelPoolIDAttributeKey:       poolID,
		constant.OtelBookingSetIDAttributeKey: bookingSetID,
		constant.OtelOrderKindAttributeKey:    string(order.Kind()),
	})

	release, err := s.locker.Acquire(ctx, poolID)
	if err != nil {
		return "", s.lockError(poolID, err)
	}
	defer release()

	txCtx, cancel := s.leaseContext(ctx, time.Now())
	defer cancel()

	var confirmedAt time.Time

	err = s.tx.WithTx(txCtx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.locker.AcquireTx(ctx, tx, poolID); err != nil {
			return s.lockError(poolID, err)
		}

		allowed, err := s.quota.CheckAvailability(ctx, tx, poolID, order.Units())
		if err != nil {
			return fmt.Errorf("%w: %w", model.ErrPersistence, err)
		}

		if !allowed {
			return fmt.Errorf("%w: pool %s cannot take %d more", model.ErrQuotaExceeded, poolID, order.Units())
		}

		if err := s.insertRows(ctx, tx, order, booker, bookingSetID); err != nil {
			return err
		}

		if extra != nil {
			if err := s.extra.InsertExtraData(ctx, tx, extra, bookingSetID); err != nil {
				return err //nolint:wrapcheck
			}
		}

		confirmedAt = s.now().UTC()

		if err := s.confirm(ctx, tx, bookingSetID, order.Units(), confirmedAt); err != nil {
			return err
		}

		if cause := context.Cause(ctx); cause != nil {
			return s.lockError(poolID, cause)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrPersistence) && errors.Is(context.Cause(txCtx), errLeaseExpired) {
			err = s.lockError(poolID, errLeaseExpired)
		}

		log.Error().Err(err).Str("pool_id", poolID).Str("booking_set_id", bookingSetID).Msg("failed to book")

		return "", err
	}

	log.Info().
		Str("pool_id", poolID).
		Str("booking_set_id", bookingSetID).
		Str("kind", string(order.Kind())).
		Int("units", order.Units()).
		Msg("Booking set confirmed")

	s.publishBooked(ctx, order, booker, bookingSetID, confirmedAt)

	return bookingSetID, nil
}

func (s *serviceImpl) insertRows(ctx context.Context, tx *sqlx.Tx, order model.Order, booker model.Booker, bookingSetID string) error {
	row := model.Booking{
		PoolID:           order.Pool(),
		BookingSetID:     bookingSetID,
		Status:           model.StatusPreReserved,
		UserID:           booker.ID,
		BookerDataSource: booker.DataSource,
	}

	switch o := order.(type) {
	case model.SimpleOrder:
		return s.insertRow(ctx, tx, row)
	case model.UnitOrder:
		row.UnitID = o.UnitID

		return s.insertRow(ctx, tx, row)
	case model.SetOrder:
		for range o.Quantity {
			if err := s.insertRow(ctx, tx, row); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: unsupported order kind %q", model.ErrInvalidOrder, order.Kind())
	}
}

func (s *serviceImpl) insertRow(ctx context.Context, tx *sqlx.Tx, row model.Booking) error {
	if _, err := s.repo.InsertBookingTx(ctx, tx, row); err != nil {
		if errors.Is(err, gRepo.ErrUniqueViolation) {
			return fmt.Errorf("%w: unit %s of pool %s", model.ErrUnitUnavailable, row.UnitID, row.PoolID)
		}

		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	return nil
}

func (s *serviceImpl) confirm(ctx context.Context, tx *sqlx.Tx, bookingSetID string, units int, at time.Time) error {
	if !model.StatusPreReserved.CanTransitionTo(model.StatusBooked) {
		return model.ErrInvalidTransition
	}

	affected, err := s.repo.ConfirmSetTx(ctx, tx, bookingSetID, at)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if affected != int64(units) {
		return fmt.Errorf("%w: confirmed %d of %d rows of set %s", model.ErrPersistence, affected, units, bookingSetID)
	}

	return nil
}

// leaseContext bounds the transaction by the hold of a leased lock. The margin
// covers the lock reply latency and the commit round trip.
func (s *serviceImpl) leaseContext(ctx context.Context, acquiredAt time.Time) (context.Context, context.CancelFunc) {
	leased, ok := s.locker.(lock.Leased)
	if !ok || leased.TTL() <= 0 {
		return ctx, func() {}
	}

	ttl := leased.TTL()

	return context.WithDeadlineCause(ctx, acquiredAt.Add(ttl-ttl/leaseMarginDivisor), errLeaseExpired)
}

func (s *serviceImpl) lockError(poolID string, err error) error {
	if errors.Is(err, lock.ErrNotAcquired) {
		return fmt.Errorf("%w: %s", model.ErrPoolLocked, poolID)
	}

	return fmt.Errorf("%w: %w", model.ErrPersistence, err)
}

// publishBooked sends the booked event in the background. A failed publish
// never affects the committed reservation.
func (s *serviceImpl) publishBooked(ctx context.Context, order model.Order, booker model.Booker, bookingSetID string, at time.Time) {
	event := model.BookedEvent{
		BookingSetID:     bookingSetID,
		PoolID:           order.Pool(),
		OrderKind:        order.Kind(),
		Units:            order.Units(),
		BookerID:         booker.ID,
		BookerDataSource: booker.DataSource,
		BookedAt:         at,
	}

	if unitOrder, ok := order.(model.UnitOrder); ok {
		event.UnitID = unitOrder.UnitID
	}

	ctx = context.WithoutCancel(ctx)

	go func() {
		ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishBooked")
		defer scope.End()

		err := s.kafka.SendMessages(ctx, s.settings.EventTopic, kafka.Message{Key: bookingSetID, Value: event})
		if err != nil {
			scope.TraceError(err)
			logger.ErrorWithStack(err)
		}
	}()
}

func (s *serviceImpl) GetNbBookings(ctx context.Context, poolID string, filter *gDto.FilterGroup) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetNbBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelPoolIDAttributeKey, poolID)

	count, err = s.repo.Count(ctx, s.repo.Mapping().ByPool(poolID, filter))
	if err != nil {
		log.Error().Err(err).Str("pool_id", poolID).Msg("failed to count bookings")

		return 0, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	return count, nil
}

func (s *serviceImpl) GetBookingSet(ctx context.Context, bookingSetID string) (bookings []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookingSet")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err = s.repo.GetBySetID(ctx, bookingSetID)
	if err != nil {
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to get booking set")

		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if len(bookings) == 0 {
		return nil, model.ErrBookingSetNotFound
	}

	return bookings, nil
}

func (s *serviceImpl) GetExtraData(ctx context.Context, bookingSetID string) (data model.ExtraData, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetExtraData")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if s.extra == nil {
		return nil, model.ErrMissingExtraDataHandler
	}

	if err = s.ensureSet(ctx, bookingSetID); err != nil {
		return nil, err
	}

	return s.extra.GetExtraData(ctx, bookingSetID) //nolint:wrapcheck
}

func (s *serviceImpl) UpdateExtraData(ctx context.Context, bookingSetID string, data model.ExtraData) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateExtraData")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if data == nil {
		return nil
	}

	if s.extra == nil {
		return model.ErrMissingExtraDataHandler
	}

	if err = s.extra.Validate(data); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.ensureSet(ctx, bookingSetID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { //nolint:wrapcheck
		return s.extra.UpdateExtraData(ctx, tx, data, bookingSetID) //nolint:wrapcheck
	})
}

func (s *serviceImpl) DeleteExtraData(ctx context.Context, bookingSetID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteExtraData")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if s.extra == nil {
		return model.ErrMissingExtraDataHandler
	}

	// Merged rows cannot lose their extra columns, whatever the set.
	if s.extra.Mode() == constant.ExtraDataModeMerged {
		return model.ErrUnsupportedOperation
	}

	if err = s.ensureSet(ctx, bookingSetID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { //nolint:wrapcheck
		return s.extra.DeleteExtraData(ctx, tx, bookingSetID) //nolint:wrapcheck
	})
}

func (s *serviceImpl) ensureSet(ctx context.Context, bookingSetID string) error {
	count, err := s.repo.Count(ctx, s.repo.Mapping().BySet(bookingSetID))
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	if count == 0 {
		return model.ErrBookingSetNotFound
	}

	return nil
}
