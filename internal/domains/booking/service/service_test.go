package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"poolbook/config"
	"poolbook/infras/kafka"
	kafkaMocks "poolbook/infras/kafka/mocks"
	"poolbook/infras/otel/mocks"
	"poolbook/infras/redis"
	"poolbook/internal/domains/booking/model"
	"poolbook/internal/domains/booking/repository"
	"poolbook/internal/domains/booking/service"
	"poolbook/internal/domains/extradata"
	"poolbook/internal/domains/quota"
	quotaMocks "poolbook/internal/domains/quota/mocks"
	"poolbook/shared/constant"
	gDto "poolbook/shared/dto"
	"poolbook/shared/lock"
	lockMocks "poolbook/shared/lock/mocks"
	"poolbook/shared/repository/memory"
)

const extraDataTable = "booking_extra_datas"

type fixture struct {
	mapping  model.Mapping
	bookings *memory.Table
	extras   *memory.Table
	svc      service.Booking
}

type fixtureOptions struct {
	limits    map[string]int
	extraMode string
	locker    lock.Locker
	kafka     kafka.Client
	quota     quota.Checker
	dbOptions []memory.Option
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	otl := mocks.NewOtel()
	mapping := model.DefaultMapping()
	db := memory.NewDB(opts.dbOptions...)

	bookings := db.Table(mapping.Table, mapping.ID, memory.Unique{
		Columns: []string{mapping.PoolID, mapping.UnitID},
		Where:   gDto.Or(gDto.IsNull(mapping.Status), gDto.NotEq(mapping.Status, string(model.StatusCancelled))),
	})
	extras := db.Table(extraDataTable, "")

	repo := repository.NewWithTable(bookings, otl, mapping)

	var store extradata.Store

	switch opts.extraMode {
	case constant.ExtraDataModeMerged:
		store = extradata.NewMerged(repo, mapping, otl)
	case constant.ExtraDataModeSeparate:
		store = extradata.NewSeparate(extras, mapping, otl)
	}

	locker := opts.locker
	if locker == nil {
		mr := miniredis.RunT(t)
		client := goRedis.NewClient(&goRedis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		locker = redis.NewPoolLockWithOptions(client, otl, 2*time.Second, 2*time.Millisecond)
	}

	publisher := opts.kafka
	if publisher == nil {
		publisher = kafka.New(&config.Config{})
	}

	checker := opts.quota
	if checker == nil {
		checker = quota.NewBasicQuota(repo, mapping, opts.limits, otl)
	}

	svc := service.New(
		repo,
		db,
		checker,
		store,
		locker,
		publisher,
		service.Settings{EventTopic: "booking.booked"},
		otl,
	)

	return &fixture{mapping: mapping, bookings: bookings, extras: extras, svc: svc}
}

func (f *fixture) seed(t *testing.T, poolID string, n int) {
	t.Helper()

	for range n {
		_, err := f.svc.BookPool(context.Background(), poolID, model.InternalBooker("seed"), nil)
		require.NoError(t, err)
	}
}

func (f *fixture) count(t *testing.T, poolID string) int {
	t.Helper()

	count, err := f.svc.GetNbBookings(context.Background(), poolID, nil)
	require.NoError(t, err)

	return count
}

func TestBooking_QuotaExceeded(t *testing.T) {
	f := newFixture(t, fixtureOptions{limits: map[string]int{"2": 3}})
	f.seed(t, "2", 3)

	_, err := f.svc.BookPool(context.Background(), "2", model.InternalBooker("1"), nil)

	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
	assert.Equal(t, 3, f.count(t, "2"))
}

func TestBooking_WithoutQuota(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	setID, err := f.svc.BookPool(context.Background(), "3", model.InternalBooker("2"), nil)

	require.NoError(t, err)
	assert.NotEmpty(t, setID)

	rows := f.bookings.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0]["pool_id"])
	assert.Equal(t, "2", rows[0]["user_id"])
	assert.Equal(t, setID, rows[0]["booking_set_id"])
	assert.Equal(t, string(model.StatusBooked), rows[0]["status"])

	changedAt, ok := rows[0]["status_datetime_utc"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, changedAt.Location())
}

func TestBooking_MergedExtraData(t *testing.T) {
	f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeMerged})

	setID, err := f.svc.BookPool(context.Background(), "3", model.InternalBooker("2"), model.ExtraData{"booking_type": 2})
	require.NoError(t, err)

	rows := f.bookings.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0]["booking_type"])
	assert.Equal(t, string(model.StatusBooked), rows[0]["status"])

	data, err := f.svc.GetExtraData(context.Background(), setID)
	require.NoError(t, err)
	assert.Equal(t, model.ExtraData{"booking_type": 2}, data)
}

func TestBooking_MissingExtraDataHandler(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	_, err := f.svc.BookPool(context.Background(), "3", model.InternalBooker("2"), model.ExtraData{"booking_type": 2})

	assert.ErrorIs(t, err, model.ErrMissingExtraDataHandler)
	assert.Empty(t, f.bookings.Rows())
}

func TestBooking_NilExtraDataIsNoOp(t *testing.T) {
	f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeSeparate})

	_, err := f.svc.BookPool(context.Background(), "3", model.InternalBooker("2"), nil)

	require.NoError(t, err)
	assert.Len(t, f.bookings.Rows(), 1)
	assert.Empty(t, f.extras.Rows())
}

func TestBooking_SetOrder(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		quantity int
		wantErr  error
		wantRows int
	}{
		{name: "fits in quota", limit: 5, quantity: 5, wantRows: 5},
		{name: "whole set counts against quota", limit: 4, quantity: 5, wantErr: model.ErrQuotaExceeded},
		{name: "zero quantity is invalid", limit: 5, quantity: 0, wantErr: model.ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, fixtureOptions{limits: map[string]int{"p": tt.limit}})

			setID, err := f.svc.Book(context.Background(), model.SetOrder{PoolID: "p", Quantity: tt.quantity}, model.InternalBooker("u"), nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.bookings.Rows())

				return
			}

			require.NoError(t, err)

			bookings, err := f.svc.GetBookingSet(context.Background(), setID)
			require.NoError(t, err)
			assert.Len(t, bookings, tt.wantRows)

			for _, booking := range bookings {
				assert.Equal(t, model.StatusBooked, booking.Status)
				assert.Equal(t, setID, booking.BookingSetID)
			}
		})
	}
}

func TestBooking_SetIsAtomic(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	// Rows are inserted, then the confirmation fails.
	f.bookings.FailOn = map[string]error{"UpdateTx": errors.New("connection reset")}

	_, err := f.svc.Book(context.Background(), model.SetOrder{PoolID: "p", Quantity: 3}, model.InternalBooker("u"), nil)

	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Empty(t, f.bookings.Rows())
	assert.Equal(t, 0, f.count(t, "p"))
}

func TestBooking_ExtraDataFailureRollsBack(t *testing.T) {
	f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeSeparate})
	f.extras.FailOn = map[string]error{"InsertTx": errors.New("disk full")}

	_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("u"), model.ExtraData{"note": "x"})

	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Empty(t, f.bookings.Rows())
	assert.Empty(t, f.extras.Rows())
}

func TestBooking_UnitOrder(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	_, err := f.svc.Book(ctx, model.UnitOrder{PoolID: "room", UnitID: "A1"}, model.InternalBooker("u1"), nil)
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, model.UnitOrder{PoolID: "room", UnitID: "A1"}, model.InternalBooker("u2"), nil)
	assert.ErrorIs(t, err, model.ErrUnitUnavailable)

	setID, err := f.svc.Book(ctx, model.UnitOrder{PoolID: "room", UnitID: "A2"}, model.ExternalBooker("ext-9", "crm"), nil)
	require.NoError(t, err)

	bookings, err := f.svc.GetBookingSet(ctx, setID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "A2", bookings[0].UnitID)
	assert.Equal(t, model.ExternalBooker("ext-9", "crm"), bookings[0].Booker())
	assert.Equal(t, 2, f.count(t, "room"))
}

// bookConcurrently fires n single unit bookings on poolID at once and
// returns how many went through.
func bookConcurrently(t *testing.T, svc service.Booking, poolID string, n int) (booked, rejected int) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
	)

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			_, err := svc.BookPool(context.Background(), poolID, model.InternalBooker(string(rune('a'+i))), nil)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				booked++
			case errors.Is(err, model.ErrQuotaExceeded):
				rejected++
			default:
				t.Errorf("unexpected booking error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	return booked, rejected
}

func TestBooking_QuotaInvariantUnderConcurrency(t *testing.T) {
	interleaved := []memory.Option{memory.Concurrent(), memory.CountLatency(10 * time.Millisecond)}

	t.Run("pool lock keeps the limit", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{limits: map[string]int{"p": 5}, dbOptions: interleaved})

		booked, rejected := bookConcurrently(t, f.svc, "p", 20)

		assert.Equal(t, 5, booked)
		assert.Equal(t, 15, rejected)
		assert.Equal(t, 5, f.count(t, "p"))
	})

	t.Run("without a pool lock the limit is overrun", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		mockLocker := lockMocks.NewMockLocker(ctrl)
		mockLocker.EXPECT().Acquire(gomock.Any(), "p").Return(func() {}, nil).AnyTimes()
		mockLocker.EXPECT().AcquireTx(gomock.Any(), gomock.Any(), "p").Return(nil).AnyTimes()

		f := newFixture(t, fixtureOptions{limits: map[string]int{"p": 5}, dbOptions: interleaved, locker: mockLocker})

		booked, _ := bookConcurrently(t, f.svc, "p", 20)

		assert.Greater(t, booked, 5)
		assert.Equal(t, booked, f.count(t, "p"))
	})
}

func TestBooking_TransactionEndsBeforeLeaseExpires(t *testing.T) {
	const ttl = 100 * time.Millisecond

	ctrl := gomock.NewController(t)
	mockChecker := quotaMocks.NewMockChecker(ctrl)

	mr := miniredis.RunT(t)
	client := goRedis.NewClient(&goRedis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker := redis.NewPoolLockWithOptions(client, mocks.NewOtel(), ttl, 2*time.Millisecond)
	f := newFixture(t, fixtureOptions{locker: locker, quota: mockChecker})

	t.Run("slow transaction rolls back", func(t *testing.T) {
		mockChecker.EXPECT().
			CheckAvailability(gomock.Any(), gomock.Nil(), "p", 1).
			DoAndReturn(func(ctx context.Context, _ *sqlx.Tx, _ string, _ int) (bool, error) {
				deadline, ok := ctx.Deadline()
				require.True(t, ok)
				assert.LessOrEqual(t, time.Until(deadline), ttl)

				time.Sleep(ttl + 20*time.Millisecond)

				return true, nil
			})

		_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("slow"), nil)

		assert.ErrorIs(t, err, model.ErrPoolLocked)
		assert.Empty(t, f.bookings.Rows())
		assert.False(t, mr.Exists("poolbook:lock:pool:p"))
	})

	t.Run("fast transaction commits", func(t *testing.T) {
		mockChecker.EXPECT().CheckAvailability(gomock.Any(), gomock.Nil(), "p", 1).Return(true, nil)

		_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("fast"), nil)

		require.NoError(t, err)
		assert.Len(t, f.bookings.Rows(), 1)
	})
}

func TestBooking_GetNbBookingsWithFilter(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.seed(t, "p", 2)

	booked := gDto.And(gDto.Eq(f.mapping.Status, string(model.StatusBooked)))
	cancelled := gDto.And(gDto.Eq(f.mapping.Status, string(model.StatusCancelled)))

	count, err := f.svc.GetNbBookings(context.Background(), "p", &booked)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = f.svc.GetNbBookings(context.Background(), "p", &cancelled)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = f.svc.GetNbBookings(context.Background(), "other", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBooking_InvalidInput(t *testing.T) {
	f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeMerged})
	ctx := context.Background()

	tests := []struct {
		name    string
		order   model.Order
		booker  model.Booker
		extra   model.ExtraData
		wantErr error
	}{
		{name: "nil order", order: nil, booker: model.InternalBooker("u"), wantErr: model.ErrInvalidOrder},
		{name: "empty pool", order: model.SimpleOrder{}, booker: model.InternalBooker("u"), wantErr: model.ErrInvalidOrder},
		{name: "unit order without unit", order: model.UnitOrder{PoolID: "p"}, booker: model.InternalBooker("u"), wantErr: model.ErrInvalidOrder},
		{name: "empty booker", order: model.SimpleOrder{PoolID: "p"}, booker: model.Booker{}, wantErr: model.ErrInvalidBooker},
		{
			name:    "extra data shadows core column",
			order:   model.SimpleOrder{PoolID: "p"},
			booker:  model.InternalBooker("u"),
			extra:   model.ExtraData{"status": "free"},
			wantErr: model.ErrInvalidExtraData,
		},
		{
			name:    "extra data with a nested object",
			order:   model.SimpleOrder{PoolID: "p"},
			booker:  model.InternalBooker("u"),
			extra:   model.ExtraData{"note": map[string]any{"text": "hi"}},
			wantErr: model.ErrInvalidExtraData,
		},
		{
			name:    "extra data with a list",
			order:   model.SimpleOrder{PoolID: "p"},
			booker:  model.InternalBooker("u"),
			extra:   model.ExtraData{"tags": []any{"a", "b"}},
			wantErr: model.ErrInvalidExtraData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Book(ctx, tt.order, tt.booker, tt.extra)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.bookings.Rows())
}

func TestBooking_ExtraDataLifecycle(t *testing.T) {
	t.Run("separate", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeSeparate})
		ctx := context.Background()

		setID, err := f.svc.BookPool(ctx, "p", model.InternalBooker("u"), model.ExtraData{"note": "first"})
		require.NoError(t, err)

		data, err := f.svc.GetExtraData(ctx, setID)
		require.NoError(t, err)
		assert.Equal(t, model.ExtraData{"note": "first"}, data)

		require.NoError(t, f.svc.UpdateExtraData(ctx, setID, model.ExtraData{"note": "second"}))

		data, err = f.svc.GetExtraData(ctx, setID)
		require.NoError(t, err)
		assert.Equal(t, model.ExtraData{"note": "second"}, data)

		require.NoError(t, f.svc.DeleteExtraData(ctx, setID))

		data, err = f.svc.GetExtraData(ctx, setID)
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.Len(t, f.bookings.Rows(), 1)
	})

	t.Run("merged delete is unsupported", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeMerged})
		ctx := context.Background()

		setID, err := f.svc.BookPool(ctx, "p", model.InternalBooker("u"), model.ExtraData{"note": "kept"})
		require.NoError(t, err)

		err = f.svc.DeleteExtraData(ctx, setID)
		assert.ErrorIs(t, err, model.ErrUnsupportedOperation)

		err = f.svc.DeleteExtraData(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrUnsupportedOperation)

		data, err := f.svc.GetExtraData(ctx, setID)
		require.NoError(t, err)
		assert.Equal(t, model.ExtraData{"note": "kept"}, data)
	})

	t.Run("unknown set", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{extraMode: constant.ExtraDataModeSeparate})

		err := f.svc.UpdateExtraData(context.Background(), "missing", model.ExtraData{"note": "x"})
		assert.ErrorIs(t, err, model.ErrBookingSetNotFound)

		_, err = f.svc.GetBookingSet(context.Background(), "missing")
		assert.ErrorIs(t, err, model.ErrBookingSetNotFound)
	})

	t.Run("nil update is a no-op", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})

		assert.NoError(t, f.svc.UpdateExtraData(context.Background(), "missing", nil))
	})
}

func TestBooking_StatusIsFinalAfterBooking(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	setID, err := f.svc.Book(ctx, model.SetOrder{PoolID: "p", Quantity: 2}, model.InternalBooker("u"), nil)
	require.NoError(t, err)

	repo := repository.NewWithTable(f.bookings, mocks.NewOtel(), f.mapping)

	affected, err := repo.ConfirmSetTx(ctx, nil, setID, time.Now())
	require.NoError(t, err)
	assert.Zero(t, affected)

	bookings, err := f.svc.GetBookingSet(ctx, setID)
	require.NoError(t, err)

	for _, booking := range bookings {
		assert.Equal(t, model.StatusBooked, booking.Status)
		assert.False(t, booking.Status.CanTransitionTo(model.StatusPreReserved))
	}
}

func TestBooking_Locking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLocker := lockMocks.NewMockLocker(ctrl)

	t.Run("lock released after commit", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{locker: mockLocker})
		released := false

		gomock.InOrder(
			mockLocker.EXPECT().Acquire(gomock.Any(), "p").Return(func() { released = true }, nil),
			mockLocker.EXPECT().AcquireTx(gomock.Any(), gomock.Nil(), "p").Return(nil),
		)

		_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("u"), nil)

		require.NoError(t, err)
		assert.True(t, released)
	})

	t.Run("busy pool", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{locker: mockLocker})

		mockLocker.EXPECT().Acquire(gomock.Any(), "p").Return(nil, lock.ErrNotAcquired)

		_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("u"), nil)

		assert.ErrorIs(t, err, model.ErrPoolLocked)
		assert.Empty(t, f.bookings.Rows())
	})

	t.Run("lock failure inside transaction rolls back", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{locker: mockLocker})
		released := false

		mockLocker.EXPECT().Acquire(gomock.Any(), "p").Return(func() { released = true }, nil)
		mockLocker.EXPECT().AcquireTx(gomock.Any(), gomock.Nil(), "p").Return(errors.New("connection reset"))

		_, err := f.svc.BookPool(context.Background(), "p", model.InternalBooker("u"), nil)

		assert.ErrorIs(t, err, model.ErrPersistence)
		assert.True(t, released)
		assert.Empty(t, f.bookings.Rows())
	})
}

func TestBooking_PublishesBookedEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	f := newFixture(t, fixtureOptions{kafka: mockKafka})

	events := make(chan model.BookedEvent, 1)

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), "booking.booked", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			event, _ := messages[0].Value.(model.BookedEvent)
			events <- event

			return nil
		})

	setID, err := f.svc.Book(context.Background(), model.UnitOrder{PoolID: "room", UnitID: "B2"}, model.ExternalBooker("ext", "crm"), nil)
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, setID, event.BookingSetID)
		assert.Equal(t, "room", event.PoolID)
		assert.Equal(t, "B2", event.UnitID)
		assert.Equal(t, model.OrderKindUnit, event.OrderKind)
		assert.Equal(t, 1, event.Units)
		assert.Equal(t, "crm", event.BookerDataSource)
	case <-time.After(time.Second):
		t.Fatal("booked event was not published")
	}
}
