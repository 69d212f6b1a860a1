package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

// AccountRepository persists escrow accounts. Balance changes go through
// Debit and Credit so storage can enforce them atomically.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.EscrowAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.EscrowAccount, error)

	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error)
	GetByHolderForUpdate(ctx context.Context, holderID uuid.UUID, accountType domain.AccountType) (*domain.EscrowAccount, error)

	// Debit fails with domain.ErrInsufficientFunds when the balance is short.
	Debit(ctx context.Context, id uuid.UUID, amount domain.Money) error
	Credit(ctx context.Context, id uuid.UUID, amount domain.Money) error
	// UpdateStatus stores a lifecycle change made on a locked account.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error

	WithTx(tx TransactionObject) AccountRepository
}
