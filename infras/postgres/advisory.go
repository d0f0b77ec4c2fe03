package postgres

import (
	"context"
	"errors"
	"fmt"
	"poolbook/infras/otel"
	"poolbook/shared/constant"

	"github.com/jmoiron/sqlx"
)

const advisoryLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

var errAdvisoryLockNoTx = errors.New("advisory lock requires a transaction")

// AdvisoryLock serialises work on a key with a transaction scoped Postgres
// advisory lock. The lock is released by the server at commit or rollback.
type AdvisoryLock struct {
	otel otel.Otel
}

func NewAdvisoryLock(otl otel.Otel) *AdvisoryLock {
	return &AdvisoryLock{otel: otl}
}

// Acquire is a no-op; the lock lives inside the transaction.
func (l *AdvisoryLock) Acquire(_ context.Context, _ string) (func(), error) {
	return func() {}, nil
}

func (l *AdvisoryLock) AcquireTx(ctx context.Context, tx *sqlx.Tx, key string) error {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelLockScopeName, constant.OtelLockScopeName+".advisory.AcquireTx")
	defer scope.End()

	if tx == nil {
		return errAdvisoryLockNoTx
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, advisoryLockQuery)

	if _, err := tx.ExecContext(ctx, advisoryLockQuery, key); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to take advisory lock (%s): %w", key, err)
	}

	return nil
}
