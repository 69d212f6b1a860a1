package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/infra/http/handler"
	"github.com/ragner01/microjobs-marketplace/internal/infra/memory"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	server   *httptest.Server
	initiate *usecase.InitiateTransactionUseCase
	open     *usecase.OpenAccountUseCase
	deposit  *usecase.DepositFundsUseCase
	status   *usecase.ChangeAccountStatusUseCase
	accounts *memory.AccountRepository
}

// newBackend serves the real API over an in-memory store.
func newBackend(t *testing.T) *backend {
	t.Helper()
	store := memory.NewStore()
	txRepo := memory.NewTransactionRepository(store)
	accRepo := memory.NewAccountRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	uow := memory.NewUow(store)

	b := &backend{
		initiate: usecase.NewInitiateTransaction(txRepo, accRepo, ledgerRepo, uow, nil),
		open:     usecase.NewOpenAccount(accRepo),
		deposit:  usecase.NewDepositFunds(accRepo, ledgerRepo, uow),
		status:   usecase.NewChangeAccountStatus(accRepo, uow),
		accounts: accRepo,
	}
	router := handler.NewRouter(handler.RouterConfig{
		Transactions: handler.NewTransactionHandler(
			usecase.NewListTransactions(txRepo),
			usecase.NewGetTransaction(txRepo, ledgerRepo),
			b.initiate,
			usecase.NewReleasePayment(txRepo, accRepo, ledgerRepo, uow, nil, nil),
			usecase.NewRefundPayment(txRepo, accRepo, ledgerRepo, uow, nil, nil),
		),
		Accounts: handler.NewAccountHandler(
			usecase.NewListAccounts(accRepo),
			usecase.NewGetAccount(accRepo),
			b.open,
			b.deposit,
			usecase.NewWithdrawFunds(accRepo, ledgerRepo, uow),
			b.status,
		),
	})
	b.server = httptest.NewServer(router)
	t.Cleanup(b.server.Close)
	return b
}

func ngn(amount int64) domain.Money {
	return domain.Money{Amount: decimal.NewFromInt(amount), Currency: "NGN"}
}

func (b *backend) jobPayment(t *testing.T, amount int64) *domain.EscrowTransaction {
	t.Helper()
	ctx := context.Background()
	client, err := b.open.Execute(ctx, usecase.OpenAccountInput{HolderID: uuid.New(), Type: domain.AccountClient, Currency: "NGN"})
	require.NoError(t, err)
	worker, err := b.open.Execute(ctx, usecase.OpenAccountInput{HolderID: uuid.New(), Type: domain.AccountWorker, Currency: "NGN"})
	require.NoError(t, err)
	_, err = b.deposit.Execute(ctx, usecase.DepositFundsInput{AccountID: client.ID, Amount: ngn(amount)})
	require.NoError(t, err)

	jobID := uuid.New()
	tx, err := b.initiate.Execute(ctx, usecase.InitiateTransactionInput{
		JobID:    &jobID,
		ClientID: client.HolderID,
		WorkerID: &worker.HolderID,
		Amount:   ngn(amount),
		Type:     domain.TypeJobPayment,
	})
	require.NoError(t, err)
	return tx
}

func (b *backend) freezeWorker(t *testing.T, tx *domain.EscrowTransaction) {
	t.Helper()
	ctx := context.Background()
	worker, err := b.accounts.GetByHolderForUpdate(ctx, *tx.WorkerID, domain.AccountWorker)
	require.NoError(t, err)
	_, err = b.status.Execute(ctx, usecase.ChangeAccountStatusInput{AccountID: worker.ID, Action: domain.AccountFreeze})
	require.NoError(t, err)
}

func (b *backend) fee(t *testing.T) *domain.EscrowTransaction {
	t.Helper()
	tx, err := b.initiate.Execute(context.Background(), usecase.InitiateTransactionInput{
		ClientID: uuid.New(),
		Amount:   ngn(50),
		Type:     domain.TypePlatformFee,
	})
	require.NoError(t, err)
	return tx
}

func TestClient_ReadPaths(t *testing.T) {
	b := newBackend(t)
	first := b.jobPayment(t, 5000)
	b.fee(t)
	c := NewClient(b.server.URL + "/")
	ctx := context.Background()

	page, err := c.ListTransactions(ctx, TransactionQuery{Type: domain.TypeJobPayment, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, first.ID, page.Content[0].ID)
	assert.True(t, page.Content[0].Amount.Amount.Equal(decimal.NewFromInt(5000)))

	detail, err := c.GetTransaction(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, detail.LedgerEntries, 2)

	_, err = c.GetTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = c.ListTransactions(ctx, TransactionQuery{Status: "SETTLED", Size: 10})
	assert.ErrorIs(t, err, domain.ErrValidation)

	holds, err := c.ListAccounts(ctx, AccountQuery{Type: domain.AccountEscrowHold})
	require.NoError(t, err)
	assert.Len(t, holds, 1)
}

func TestClient_ReleaseTwice(t *testing.T) {
	b := newBackend(t)
	tx := b.jobPayment(t, 5000)
	c := NewClient(b.server.URL, WithOperator("ops-1"))
	ctx := context.Background()

	released, err := c.Release(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, released.Status)
	assert.Equal(t, domain.ResolutionReleased, released.Resolution)
	require.NotNil(t, released.CompletedAt)

	_, err = c.Release(ctx, tx.ID)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, domain.OperationRelease, opErr.Operation)
	assert.Equal(t, tx.ID, opErr.TransactionID)
	assert.Equal(t, domain.StatusCompleted, opErr.CurrentStatus)

	_, err = c.Refund(ctx, tx.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestClient_ServerErrorIsTransient(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	}))
	defer srv.Close()
	c := NewClient(srv.URL)

	id := uuid.New()
	_, err := c.Refund(context.Background(), id)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "verify the transaction manually")
	assert.Equal(t, 1, calls, "money-moving calls are not retried")
}

func TestClient_TimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := c.Release(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransientFailure)
}

func TestClient_SendsOperatorToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token","code":"UNAUTHORIZED"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithToken("abc")).Release(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Bearer abc", auth)
}

func TestClient_BlockedSettlementIsNotATransitionError(t *testing.T) {
	b := newBackend(t)
	tx := b.jobPayment(t, 900)
	b.freezeWorker(t, tx)
	c := NewClient(b.server.URL)
	ctx := context.Background()

	_, err := c.Release(ctx, tx.ID)
	require.ErrorIs(t, err, domain.ErrSettlementBlocked)
	assert.NotErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.NotErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.False(t, IsTransient(err))

	detail, err := c.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, detail.Status)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrTransactionNotFound},
		{http.StatusConflict, domain.ErrInvalidStateTransition},
		{http.StatusUnprocessableEntity, domain.ErrSettlementBlocked},
		{http.StatusBadRequest, domain.ErrValidation},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusServiceUnavailable, domain.ErrTransientFailure},
	}
	for _, tt := range tests {
		err := classify(tt.status, "")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}
