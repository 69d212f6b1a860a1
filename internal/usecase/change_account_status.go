package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/rs/zerolog/log"
)

type ChangeAccountStatusInput struct {
	AccountID uuid.UUID
	Action    domain.AccountAction
	Operator  string
}

// ChangeAccountStatusUseCase freezes, unfreezes or closes a party account.
// The row is locked so a concurrent deposit cannot slip past a close.
type ChangeAccountStatusUseCase struct {
	accountRepository  gateway.AccountRepository
	transactionManager gateway.TransactionManager
}

func NewChangeAccountStatus(accountRepo gateway.AccountRepository, txManager gateway.TransactionManager) *ChangeAccountStatusUseCase {
	return &ChangeAccountStatusUseCase{
		accountRepository:  accountRepo,
		transactionManager: txManager,
	}
}

func (u *ChangeAccountStatusUseCase) Execute(ctx context.Context, input ChangeAccountStatusInput) (*domain.EscrowAccount, error) {
	var updated *domain.EscrowAccount
	var previous domain.AccountStatus

	err := u.transactionManager.Run(ctx, func(ctx context.Context) error {
		txObj, err := txObject(ctx)
		if err != nil {
			return err
		}
		accountRepoTx := u.accountRepository.WithTx(txObj)

		account, err := accountRepoTx.GetByIDForUpdate(ctx, input.AccountID)
		if err != nil {
			return err
		}
		previous = account.Status
		if err := account.Apply(input.Action, time.Now()); err != nil {
			return err
		}
		if err := accountRepoTx.UpdateStatus(ctx, account.ID, account.Status); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("account_id", updated.ID.String()).
		Str("action", string(input.Action)).
		Str("operator", input.Operator).
		Str("from", string(previous)).
		Str("to", string(updated.Status)).
		Msg("escrow account status changed")
	return updated, nil
}
