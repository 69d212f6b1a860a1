package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type OpenAccountInput struct {
	HolderID uuid.UUID
	Type     domain.AccountType
	Currency string
}

// OpenAccountUseCase creates a zero-balance party account. ESCROW_HOLD
// accounts are only ever opened by InitiateTransactionUseCase.
type OpenAccountUseCase struct {
	accountRepo gateway.AccountRepository
}

func NewOpenAccount(accountRepo gateway.AccountRepository) *OpenAccountUseCase {
	return &OpenAccountUseCase{accountRepo: accountRepo}
}

func (uc *OpenAccountUseCase) Execute(ctx context.Context, input OpenAccountInput) (*domain.EscrowAccount, error) {
	if input.Type == domain.AccountEscrowHold {
		return nil, domain.Validationf("%s accounts cannot be opened directly", domain.AccountEscrowHold)
	}
	account, err := domain.NewEscrowAccount(input.HolderID, input.Type, input.Currency, time.Now())
	if err != nil {
		return nil, err
	}

	// A single insert, no unit of work needed.
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open account: %w", err)
	}
	return account, nil
}
