package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

// Uow implements gateway.TransactionManager.
type Uow struct {
	pool *pgxpool.Pool
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{pool: pool}
}

// Run executes fn inside one database transaction. An error from fn rolls
// back, nil commits. Row locks taken with FOR UPDATE are held until then.
func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted, // FOR UPDATE plus the status CAS give per-row serialisation
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Runs on every exit path: error, panic or early return. After a
	// successful commit it is a no-op.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Repositories pick the handle up through WithTx.
	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, tx)

	if err := fn(ctxWithTx); err != nil {
		return err // rolled back by the defer
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
