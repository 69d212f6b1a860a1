package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ngn(amount int64) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: "NGN"}
}

func newJobPayment(t *testing.T) *EscrowTransaction {
	t.Helper()
	jobID, workerID := uuid.New(), uuid.New()
	tx, err := NewEscrowTransaction(NewTransactionParams{
		JobID:    &jobID,
		ClientID: uuid.New(),
		WorkerID: &workerID,
		Amount:   ngn(5000),
		Type:     TypeJobPayment,
	}, time.Now())
	require.NoError(t, err)
	return tx
}

func TestNewEscrowTransaction_StartsPending(t *testing.T) {
	tx := newJobPayment(t)

	assert.Equal(t, StatusPending, tx.Status)
	assert.Nil(t, tx.CompletedAt)
	assert.Equal(t, ResolutionNone, tx.Resolution)
}

func TestNewEscrowTransaction_Validation(t *testing.T) {
	jobID := uuid.New()
	tests := []struct {
		name   string
		params NewTransactionParams
		want   error
	}{
		{"missing client", NewTransactionParams{JobID: &jobID, Amount: ngn(1), Type: TypeJobPayment}, ErrValidation},
		{"unknown type", NewTransactionParams{ClientID: uuid.New(), Amount: ngn(1), Type: "TIP"}, ErrValidation},
		{"zero amount", NewTransactionParams{ClientID: uuid.New(), Amount: ngn(0), Type: TypePlatformFee}, ErrInvalidAmount},
		{"bad currency", NewTransactionParams{ClientID: uuid.New(), Amount: Money{Amount: decimal.NewFromInt(1), Currency: "naira"}, Type: TypePenalty}, ErrValidation},
		{"job payment without job", NewTransactionParams{ClientID: uuid.New(), Amount: ngn(1), Type: TypeJobPayment}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEscrowTransaction(tt.params, time.Now())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSettle_ReleaseThenReleaseAgain(t *testing.T) {
	tx := newJobPayment(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, tx.Settle(OperationRelease, now))
	assert.Equal(t, StatusCompleted, tx.Status)
	assert.Equal(t, ResolutionReleased, tx.Resolution)
	require.NotNil(t, tx.CompletedAt)
	assert.Equal(t, now, *tx.CompletedAt)

	err := tx.Settle(OperationRelease, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, now, *tx.CompletedAt, "completedAt is set exactly once")

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, StatusCompleted, transitionErr.CurrentStatus)
}

func TestSettle_ReleaseAndRefundAreExclusive(t *testing.T) {
	tx := newJobPayment(t)

	require.NoError(t, tx.Settle(OperationRefund, time.Now()))
	assert.Equal(t, ResolutionRefunded, tx.Resolution)

	err := tx.Settle(OperationRelease, time.Now())
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, ResolutionRefunded, tx.Resolution)
}

func TestSettle_RejectsNonJobPayment(t *testing.T) {
	for _, typ := range []TransactionType{TypeDisputeRefund, TypePlatformFee, TypePenalty} {
		t.Run(string(typ), func(t *testing.T) {
			tx, err := NewEscrowTransaction(NewTransactionParams{
				ClientID: uuid.New(),
				Amount:   ngn(100),
				Type:     typ,
			}, time.Now())
			require.NoError(t, err)

			for _, op := range []Operation{OperationRelease, OperationRefund} {
				err := tx.Settle(op, time.Now())
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
				assert.Equal(t, StatusPending, tx.Status)
				assert.Nil(t, tx.CompletedAt)
			}
		})
	}
}

func TestSettle_TerminalStatesHaveNoTransitions(t *testing.T) {
	for _, status := range []TransactionStatus{StatusCompleted, StatusFailed, StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			tx := newJobPayment(t)
			done := time.Now()
			tx.Status = status
			tx.CompletedAt = &done

			assert.ErrorIs(t, tx.Settle(OperationRelease, time.Now()), ErrInvalidStateTransition)
			assert.ErrorIs(t, tx.Settle(OperationRefund, time.Now()), ErrInvalidStateTransition)
			assert.ErrorIs(t, tx.Fail("late", time.Now()), ErrInvalidStateTransition)
			assert.Equal(t, status, tx.Status)
		})
	}
}

func TestSettle_ReleaseRequiresWorker(t *testing.T) {
	tx := newJobPayment(t)
	tx.WorkerID = nil

	assert.ErrorIs(t, tx.Settle(OperationRelease, time.Now()), ErrInvalidStateTransition)
	assert.Equal(t, StatusPending, tx.Status)

	require.NoError(t, tx.Settle(OperationRefund, time.Now()), "refund goes back to the client")
}

func TestFail_SetsCompletedAt(t *testing.T) {
	tx := newJobPayment(t)

	require.NoError(t, tx.Fail("insufficient funds", time.Now()))
	assert.Equal(t, StatusFailed, tx.Status)
	assert.NotNil(t, tx.CompletedAt)
	assert.Equal(t, "insufficient funds", tx.FailureReason)
}

func TestRecipient(t *testing.T) {
	tx := newJobPayment(t)

	assert.Equal(t, tx.WorkerID, tx.Recipient(OperationRelease))
	assert.Equal(t, tx.ClientID, *tx.Recipient(OperationRefund))
}

func TestMoney_JSON(t *testing.T) {
	out, err := json.Marshal(ngn(5000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":5000,"currency":"NGN"}`, string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.50","currency":"usd"}`), &m))
	assert.Equal(t, "USD", m.Currency)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("12.5")))

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"amount":1,"currency":"US"}`), &m), ErrValidation)
}
