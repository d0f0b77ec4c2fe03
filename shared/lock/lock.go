package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotAcquired is returned when a lock could not be taken in time.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker gives one caller at a time exclusive access to a key, typically a
// pool id. Implementations lock either around the transaction (Acquire) or
// inside it (AcquireTx); callers always invoke both.
type Locker interface {
	// Acquire runs before the transaction opens. The returned release func
	// must be called once the transaction has committed or rolled back.
	Acquire(ctx context.Context, key string) (release func(), err error)
	// AcquireTx runs as the first statement of tx.
	AcquireTx(ctx context.Context, tx *sqlx.Tx, key string) error
}

// Leased is implemented by lockers whose hold lapses on its own after TTL.
// Work done under such a lock has to finish, commit included, before then.
type Leased interface {
	TTL() time.Duration
}
