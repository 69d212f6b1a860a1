package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type WithdrawFundsInput struct {
	AccountID   uuid.UUID
	Amount      domain.Money
	Description string
}

// WithdrawFundsUseCase pays money out of an ACTIVE party account and posts
// the matching DEBIT entry.
type WithdrawFundsUseCase struct {
	accountRepository  gateway.AccountRepository
	ledgerRepository   gateway.LedgerRepository
	transactionManager gateway.TransactionManager
}

func NewWithdrawFunds(accountRepo gateway.AccountRepository, ledgerRepo gateway.LedgerRepository, txManager gateway.TransactionManager) *WithdrawFundsUseCase {
	return &WithdrawFundsUseCase{
		accountRepository:  accountRepo,
		ledgerRepository:   ledgerRepo,
		transactionManager: txManager,
	}
}

func (u *WithdrawFundsUseCase) Execute(ctx context.Context, input WithdrawFundsInput) (*domain.EscrowAccount, error) {
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
		// The guarded UPDATE in Debit re-checks the balance.
		if err := account.Withdraw(input.Amount); err != nil {
			return err
		}
		if err := accountRepoTx.Debit(ctx, account.ID, input.Amount); err != nil {
			return fmt.Errorf("failed to debit account %s: %w", account.ID, err)
		}

		description := input.Description
		if description == "" {
			description = "Withdrawal"
		}
		entry := domain.NewLedgerEntry(account.ID, nil, domain.EntryDebit, input.Amount, description, time.Now())
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
