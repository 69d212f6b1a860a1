package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	notices []domain.SettlementNotice
	err     error
}

func (c *captureSender) SendSettlementNotice(_ context.Context, notice domain.SettlementNotice) error {
	if c.err != nil {
		return c.err
	}
	c.notices = append(c.notices, notice)
	return nil
}

func sampleNotice() domain.SettlementNotice {
	return domain.SettlementNotice{
		TransactionID: uuid.New(),
		RecipientID:   uuid.New(),
		Resolution:    domain.ResolutionReleased,
		Amount:        domain.Money{Amount: decimal.RequireFromString("5000"), Currency: "NGN"},
		Operator:      "ops-1",
		SettledAt:     time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestSettlementNoticeTask_RoundTripsThroughHandler(t *testing.T) {
	notice := sampleNotice()
	task, err := NewSettlementNoticeTask(notice)
	require.NoError(t, err)
	assert.Equal(t, TaskSettlementNotice, task.Type())

	sender := &captureSender{}
	require.NoError(t, handleSettlementNotice(sender)(context.Background(), task))
	require.Len(t, sender.notices, 1)
	got := sender.notices[0]
	assert.Equal(t, notice.TransactionID, got.TransactionID)
	assert.Equal(t, notice.RecipientID, got.RecipientID)
	assert.True(t, notice.Amount.Amount.Equal(got.Amount.Amount))
	assert.True(t, notice.SettledAt.Equal(got.SettledAt))
}

func TestSettlementNoticeHandler_BadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TaskSettlementNotice, []byte("not json"))
	err := handleSettlementNotice(&captureSender{})(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSettlementNoticeHandler_SendFailureRetries(t *testing.T) {
	task, err := NewSettlementNoticeTask(sampleNotice())
	require.NoError(t, err)

	err = handleSettlementNotice(&captureSender{err: errors.New("smtp down")})(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
