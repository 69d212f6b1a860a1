package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
)

func TestReleasePayment_SecondReleaseFails(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	f := env.jobPayment(t, 5000, 8000)

	released, err := env.release.Execute(ctx, SettleInput{TransactionID: f.tx.ID, Operator: "ops-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, released.Status)
	assert.Equal(t, domain.ResolutionReleased, released.Resolution)
	require.NotNil(t, released.CompletedAt)

	assert.Equal(t, "5000", env.balance(t, f.worker.ID))
	assert.Equal(t, "3000", env.balance(t, f.client.ID))
	assert.Equal(t, "0", env.holdOf(t, f.tx.ID).Balance.Amount.String())

	_, err = env.release.Execute(ctx, SettleInput{TransactionID: f.tx.ID, Operator: "ops-1"})
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	var transitionErr *domain.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, domain.StatusCompleted, transitionErr.CurrentStatus)

	assert.Equal(t, "5000", env.balance(t, f.worker.ID), "worker is credited once")
	stored, err := env.transactions.GetByID(ctx, f.tx.ID)
	require.NoError(t, err)
	assert.Equal(t, *released.CompletedAt, *stored.CompletedAt)
}

func TestReleasePayment_NonJobPaymentRejected(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	client := env.party(t, domain.AccountClient, 0)

	fee, err := env.initiate.Execute(ctx, InitiateTransactionInput{
		ClientID: client.HolderID,
		Amount:   ngn(250),
		Type:     domain.TypePlatformFee,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, fee.Status)

	_, err = env.release.Execute(ctx, SettleInput{TransactionID: fee.ID})
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	stored, err := env.transactions.GetByID(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestRefundPayment_ReturnsFundsToClient(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	f := env.jobPayment(t, 5000, 5000)
	assert.Equal(t, "0", env.balance(t, f.client.ID))

	refunded, err := env.refund.Execute(ctx, SettleInput{TransactionID: f.tx.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, refunded.Status)
	assert.Equal(t, domain.ResolutionRefunded, refunded.Resolution)
	assert.Equal(t, "5000", env.balance(t, f.client.ID))
	assert.Equal(t, "0", env.balance(t, f.worker.ID))

	_, err = env.refund.Execute(ctx, SettleInput{TransactionID: f.tx.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = env.release.Execute(ctx, SettleInput{TransactionID: f.tx.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, "5000", env.balance(t, f.client.ID))
}

func TestSettle_PostsBalancedLedgerEntries(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	f := env.jobPayment(t, 1200, 1200)

	_, err := env.release.Execute(ctx, SettleInput{TransactionID: f.tx.ID})
	require.NoError(t, err)

	entries, err := env.ledger.ListByTransaction(ctx, f.tx.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4, "hold debit/credit plus release debit/credit")

	hold := env.holdOf(t, f.tx.ID)
	last := entries[2:]
	assert.Equal(t, domain.EntryDebit, last[0].EntryType)
	assert.Equal(t, hold.ID, last[0].AccountID)
	assert.Equal(t, domain.EntryCredit, last[1].EntryType)
	assert.Equal(t, f.worker.ID, last[1].AccountID)
}

func TestReleasePayment_ConcurrentCallsSettleOnce(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	f := env.jobPayment(t, 5000, 5000)

	var succeeded, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := env.release.Execute(context.Background(), SettleInput{TransactionID: f.tx.ID})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrInvalidStateTransition):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(7), rejected.Load())
	assert.Equal(t, "5000", env.balance(t, f.worker.ID))
}

func TestReleaseAndRefund_RaceHasOneWinner(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	f := env.jobPayment(t, 700, 700)

	var results [2]error
	var g errgroup.Group
	g.Go(func() error {
		_, results[0] = env.release.Execute(context.Background(), SettleInput{TransactionID: f.tx.ID})
		return nil
	})
	g.Go(func() error {
		_, results[1] = env.refund.Execute(context.Background(), SettleInput{TransactionID: f.tx.ID})
		return nil
	})
	require.NoError(t, g.Wait())

	assert.True(t, (results[0] == nil) != (results[1] == nil), "exactly one of release/refund succeeds")
	workerBalance := env.balance(t, f.worker.ID)
	clientBalance := env.balance(t, f.client.ID)
	assert.ElementsMatch(t, []string{"700", "0"}, []string{workerBalance, clientBalance})
}

func TestReleasePayment_NotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	_, err := env.release.Execute(context.Background(), SettleInput{TransactionID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestReleasePayment_RollsBackWhenWorkerHasNoAccount(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	f := env.jobPayment(t, 900, 900)

	// Reassign the payment to a worker without an account.
	stray := uuid.New()
	seeded := *f.tx
	seeded.ID = uuid.New()
	seeded.WorkerID = &stray
	require.NoError(t, env.transactions.Create(ctx, &seeded))
	hold, err := domain.NewEscrowAccount(seeded.ID, domain.AccountEscrowHold, "NGN", seeded.InitiatedAt)
	require.NoError(t, err)
	require.NoError(t, env.accounts.Create(ctx, hold))
	require.NoError(t, env.accounts.Credit(ctx, hold.ID, ngn(900)))

	_, err = env.release.Execute(ctx, SettleInput{TransactionID: seeded.ID})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrSettlementBlocked)

	stored, err := env.transactions.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, "900", env.balance(t, hold.ID))
	entries, err := env.ledger.ListByTransaction(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReleasePayment_AnnouncesAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	notifier := mocks.NewMockSettlementNotifier(ctrl)
	env := newTestEnv(t, publisher, notifier)

	publisher.EXPECT().
		Publish(gomock.Any(), domain.EventsExchange, domain.RoutingKeyInitiated, gomock.Any()).
		Return(nil)
	f := env.jobPayment(t, 5000, 5000)

	publisher.EXPECT().
		Publish(gomock.Any(), domain.EventsExchange, domain.RoutingKeyReleased, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, body any) error {
			event, ok := body.(domain.TransactionEvent)
			require.True(t, ok)
			assert.Equal(t, f.tx.ID, event.TransactionID)
			assert.Equal(t, domain.ResolutionReleased, event.Resolution)
			assert.Equal(t, "ops-7", event.Operator)
			return nil
		})
	notifier.EXPECT().
		NotifySettlement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, notice domain.SettlementNotice) error {
			assert.Equal(t, f.worker.HolderID, notice.RecipientID)
			assert.Equal(t, domain.ResolutionReleased, notice.Resolution)
			return nil
		})

	_, err := env.release.Execute(context.Background(), SettleInput{TransactionID: f.tx.ID, Operator: "ops-7"})
	require.NoError(t, err)
}

func TestRefundPayment_BrokerFailureDoesNotFailSettlement(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	notifier := mocks.NewMockSettlementNotifier(ctrl)
	env := newTestEnv(t, publisher, notifier)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), domain.RoutingKeyInitiated, gomock.Any()).Return(nil)
	f := env.jobPayment(t, 300, 300)

	publisher.EXPECT().
		Publish(gomock.Any(), domain.EventsExchange, domain.RoutingKeyRefunded, gomock.Any()).
		Return(errors.New("channel closed"))
	notifier.EXPECT().
		NotifySettlement(gomock.Any(), gomock.Any()).
		Return(errors.New("redis unavailable"))

	refunded, err := env.refund.Execute(context.Background(), SettleInput{TransactionID: f.tx.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, refunded.Status)
}

func TestReleasePayment_NoEventOnRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)
	notifier := mocks.NewMockSettlementNotifier(ctrl)
	env := newTestEnv(t, publisher, notifier)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), domain.RoutingKeyInitiated, gomock.Any()).Return(nil)
	client := env.party(t, domain.AccountClient, 0)
	penalty, err := env.initiate.Execute(context.Background(), InitiateTransactionInput{
		ClientID: client.HolderID,
		Amount:   ngn(10),
		Type:     domain.TypePenalty,
	})
	require.NoError(t, err)

	// No further Publish or NotifySettlement calls are expected.
	_, err = env.release.Execute(context.Background(), SettleInput{TransactionID: penalty.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}
