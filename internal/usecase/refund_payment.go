package usecase

import (
	"context"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

// RefundPaymentUseCase returns the held amount of a pending job payment to
// the client. It is mutually exclusive with release.
type RefundPaymentUseCase struct {
	settlement
}

func NewRefundPayment(
	transactionRepo gateway.TransactionRepository,
	accountRepo gateway.AccountRepository,
	ledgerRepo gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
	notifier gateway.SettlementNotifier,
) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{settlement{
		operation:             domain.OperationRefund,
		transactionRepository: transactionRepo,
		accountRepository:     accountRepo,
		ledgerRepository:      ledgerRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
		notifier:              notifier,
	}}
}

func (u *RefundPaymentUseCase) Execute(ctx context.Context, input SettleInput) (*domain.EscrowTransaction, error) {
	return u.execute(ctx, input)
}
