package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	transactions *memory.TransactionRepository
	accounts     *memory.AccountRepository
	ledger       *memory.LedgerRepository
	uow          *memory.Uow

	open     *OpenAccountUseCase
	deposit  *DepositFundsUseCase
	withdraw *WithdrawFundsUseCase
	status   *ChangeAccountStatusUseCase
	initiate *InitiateTransactionUseCase
	release  *ReleasePaymentUseCase
	refund   *RefundPaymentUseCase
}

func newTestEnv(t *testing.T, publisher gateway.EventPublisher, notifier gateway.SettlementNotifier) *testEnv {
	t.Helper()
	store := memory.NewStore()
	env := &testEnv{
		transactions: memory.NewTransactionRepository(store),
		accounts:     memory.NewAccountRepository(store),
		ledger:       memory.NewLedgerRepository(store),
		uow:          memory.NewUow(store),
	}
	env.open = NewOpenAccount(env.accounts)
	env.deposit = NewDepositFunds(env.accounts, env.ledger, env.uow)
	env.withdraw = NewWithdrawFunds(env.accounts, env.ledger, env.uow)
	env.status = NewChangeAccountStatus(env.accounts, env.uow)
	env.initiate = NewInitiateTransaction(env.transactions, env.accounts, env.ledger, env.uow, publisher)
	env.release = NewReleasePayment(env.transactions, env.accounts, env.ledger, env.uow, publisher, notifier)
	env.refund = NewRefundPayment(env.transactions, env.accounts, env.ledger, env.uow, publisher, notifier)
	return env
}

func ngn(amount int64) domain.Money {
	return domain.Money{Amount: decimal.NewFromInt(amount), Currency: "NGN"}
}

// party opens an account of the given type and funds it.
func (e *testEnv) party(t *testing.T, accountType domain.AccountType, balance int64) *domain.EscrowAccount {
	t.Helper()
	ctx := context.Background()
	account, err := e.open.Execute(ctx, OpenAccountInput{HolderID: uuid.New(), Type: accountType, Currency: "NGN"})
	require.NoError(t, err)
	if balance > 0 {
		account, err = e.deposit.Execute(ctx, DepositFundsInput{AccountID: account.ID, Amount: ngn(balance)})
		require.NoError(t, err)
	}
	return account
}

type jobPaymentFixture struct {
	tx     *domain.EscrowTransaction
	client *domain.EscrowAccount
	worker *domain.EscrowAccount
}

// jobPayment escrows amount from a client funded with clientBalance.
func (e *testEnv) jobPayment(t *testing.T, amount, clientBalance int64) jobPaymentFixture {
	t.Helper()
	client := e.party(t, domain.AccountClient, clientBalance)
	worker := e.party(t, domain.AccountWorker, 0)
	jobID := uuid.New()
	tx, err := e.initiate.Execute(context.Background(), InitiateTransactionInput{
		JobID:       &jobID,
		ClientID:    client.HolderID,
		WorkerID:    &worker.HolderID,
		Amount:      ngn(amount),
		Type:        domain.TypeJobPayment,
		Description: "logo design",
	})
	require.NoError(t, err)
	return jobPaymentFixture{tx: tx, client: client, worker: worker}
}

func (e *testEnv) balance(t *testing.T, id uuid.UUID) string {
	t.Helper()
	account, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance.Amount.String()
}

func (e *testEnv) holdOf(t *testing.T, txID uuid.UUID) *domain.EscrowAccount {
	t.Helper()
	holds, err := e.accounts.List(context.Background(), domain.AccountFilter{HolderID: &txID, Type: domain.AccountEscrowHold})
	require.NoError(t, err)
	require.Len(t, holds, 1)
	return holds[0]
}
