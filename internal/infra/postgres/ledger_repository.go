package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/postgres/db"
)

type LedgerRepository struct {
	db      *pgxpool.Pool
	queries *db.Queries
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{
		db:      pool,
		queries: db.New(pool),
	}
}

func (r *LedgerRepository) Append(ctx context.Context, entries ...domain.LedgerEntry) error {
	for _, entry := range entries {
		err := r.queries.CreateLedgerEntry(ctx, db.CreateLedgerEntryParams{
			ID:              entry.ID,
			AccountID:       entry.AccountID,
			TransactionID:   nullUUID(entry.TransactionID),
			EntryType:       string(entry.EntryType),
			Amount:          numericFromDecimal(entry.Amount.Amount),
			Currency:        entry.Amount.Currency,
			Description:     entry.Description,
			ReferenceNumber: entry.ReferenceNumber,
			PostedAt:        timestamptz(entry.PostedAt),
		})
		if err != nil {
			return fmt.Errorf("failed to append ledger entry %s: %w", entry.ReferenceNumber, err)
		}
	}
	return nil
}

func (r *LedgerRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByTransaction(ctx, uuid.NullUUID{UUID: transactionID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	out := make([]domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LedgerEntry{
			ID:            row.ID,
			AccountID:     row.AccountID,
			TransactionID: uuidPtr(row.TransactionID),
			EntryType:     domain.EntryType(row.EntryType),
			Amount: domain.Money{
				Amount:   decimalFromNumeric(row.Amount),
				Currency: row.Currency,
			},
			Description:     row.Description,
			ReferenceNumber: row.ReferenceNumber,
			PostedAt:        row.PostedAt.Time.UTC(),
		})
	}
	return out, nil
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &LedgerRepository{
		db:      r.db,
		queries: r.queries.WithTx(pgTx),
	}
}
