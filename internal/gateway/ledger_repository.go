package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

type LedgerRepository interface {
	Append(ctx context.Context, entries ...domain.LedgerEntry) error
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error)
	WithTx(tx TransactionObject) LedgerRepository
}
