package usecase

import (
	"context"
	"fmt"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type ListAccountsUseCase struct {
	accountRepository gateway.AccountRepository
}

func NewListAccounts(accountRepo gateway.AccountRepository) *ListAccountsUseCase {
	return &ListAccountsUseCase{accountRepository: accountRepo}
}

func (u *ListAccountsUseCase) Execute(ctx context.Context, filter domain.AccountFilter) ([]*domain.EscrowAccount, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.Validationf("unknown account type %q", filter.Type)
	}
	accounts, err := u.accountRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
