package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type GetAccountUseCase struct {
	accountRepository gateway.AccountRepository
}

func NewGetAccount(accountRepo gateway.AccountRepository) *GetAccountUseCase {
	return &GetAccountUseCase{accountRepository: accountRepo}
}

func (u *GetAccountUseCase) Execute(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error) {
	account, err := u.accountRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}
