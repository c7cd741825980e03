package service

import (
	"context"
	"fmt"

	"casino/database"
)

// maxTxAttempts bounds transparent retries of a unit of work aborted by a
// serialization failure or deadlock.
const maxTxAttempts = 3

// runInTransaction executes fn inside a fresh unit of work: begin, fn, commit,
// rollback on any failure. When postgres aborts the transaction with SQLSTATE
// 40001 or 40P01 the whole unit of work is re-run from a clean transaction;
// callers only ever see the final outcome.
func runInTransaction(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = runTxOnce(ctx, factory, fn)
		if err == nil || !database.IsRetryableTxError(err) {
			return err
		}
	}
	return err
}

func runTxOnce(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
