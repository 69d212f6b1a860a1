package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type DepositFundsInput struct {
	AccountID   uuid.UUID
	Amount      domain.Money
	Description string
}

type DepositFundsUseCase struct {
	accountRepository  gateway.AccountRepository
	ledgerRepository   gateway.LedgerRepository
	transactionManager gateway.TransactionManager
}

func NewDepositFunds(accountRepo gateway.AccountRepository, ledgerRepo gateway.LedgerRepository, txManager gateway.TransactionManager) *DepositFundsUseCase {
	return &DepositFundsUseCase{
		accountRepository:  accountRepo,
		ledgerRepository:   ledgerRepo,
		transactionManager: txManager,
	}
}

func (u *DepositFundsUseCase) Execute(ctx context.Context, input DepositFundsInput) (*domain.EscrowAccount, error) {
	var updated *domain.EscrowAccount

	err := u.transactionManager.Run(ctx, func(ctx context.Context) error {
		txObj, err := txObject(ctx)
		if err != nil {
			return err
		}
		accountRepoTx := u.accountRepository.WithTx(txObj)
		ledgerRepoTx := u.ledgerRepository.WithTx(txObj)

		account, err := accountRepoTx.GetByIDForUpdate(ctx, input.AccountID)
		if err != nil {
			return err
		}
		if account.Type == domain.AccountEscrowHold {
			return domain.Validationf("deposits into %s accounts are not allowed", domain.AccountEscrowHold)
		}
		if err := account.Credit(input.Amount); err != nil {
			return err
		}
		if err := accountRepoTx.Credit(ctx, account.ID, input.Amount); err != nil {
			return fmt.Errorf("failed to credit account %s: %w", account.ID, err)
		}

		description := input.Description
		if description == "" {
			description = "Deposit"
		}
		entry := domain.NewLedgerEntry(account.ID, nil, domain.EntryCredit, input.Amount, description, time.Now())
		if err := ledgerRepoTx.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to post ledger entry: %w", err)
		}

		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
