package usecase

import (
	"context"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

// ReleasePaymentUseCase pays a pending job payment out to the worker.
// A second call on the same transaction fails with
// domain.ErrInvalidStateTransition instead of crediting twice.
type ReleasePaymentUseCase struct {
	settlement
}

func NewReleasePayment(
	transactionRepo gateway.TransactionRepository,
	accountRepo gateway.AccountRepository,
	ledgerRepo gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
	notifier gateway.SettlementNotifier,
) *ReleasePaymentUseCase {
	return &ReleasePaymentUseCase{settlement{
		operation:             domain.OperationRelease,
		transactionRepository: transactionRepo,
		accountRepository:     accountRepo,
		ledgerRepository:      ledgerRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
		notifier:              notifier,
	}}
}

func (u *ReleasePaymentUseCase) Execute(ctx context.Context, input SettleInput) (*domain.EscrowTransaction, error) {
	return u.execute(ctx, input)
}
