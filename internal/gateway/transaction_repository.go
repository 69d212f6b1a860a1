package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.EscrowTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowTransaction, error)

	// GetByIDForUpdate locks the row until the surrounding unit of work ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowTransaction, error)

	// List returns one page and the total number of matching rows.
	List(ctx context.Context, filter domain.TransactionFilter, page domain.PageRequest) ([]*domain.EscrowTransaction, int64, error)

	// Complete persists the terminal state of a transaction (status,
	// resolution, completedAt, failureReason) only while the stored row is
	// still PENDING. It returns domain.ErrInvalidStateTransition otherwise.
	Complete(ctx context.Context, transaction *domain.EscrowTransaction) error

	WithTx(tx TransactionObject) TransactionRepository
}
