package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderFunc func(ctx context.Context, routingKey string, event domain.TransactionEvent) error

func (f recorderFunc) Execute(ctx context.Context, routingKey string, event domain.TransactionEvent) error {
	return f(ctx, routingKey, event)
}

func TestAuditHandler(t *testing.T) {
	event := domain.TransactionEvent{
		EventID:       uuid.New(),
		TransactionID: uuid.New(),
		Type:          domain.TypeJobPayment,
		Status:        domain.StatusCompleted,
		Resolution:    domain.ResolutionReleased,
		Amount:        domain.Money{Amount: decimal.RequireFromString("12.50"), Currency: "NGN"},
		OccurredAt:    time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("decodes and records", func(t *testing.T) {
		var got domain.TransactionEvent
		var gotKey string
		handle := NewAuditHandler(recorderFunc(func(_ context.Context, key string, e domain.TransactionEvent) error {
			gotKey, got = key, e
			return nil
		}), time.Second)

		require.NoError(t, handle(context.Background(), domain.RoutingKeyReleased, body))
		assert.Equal(t, domain.RoutingKeyReleased, gotKey)
		assert.Equal(t, event.TransactionID, got.TransactionID)
		assert.True(t, event.Amount.Amount.Equal(got.Amount.Amount))
	})

	t.Run("invalid json is dropped", func(t *testing.T) {
		handle := NewAuditHandler(recorderFunc(func(context.Context, string, domain.TransactionEvent) error {
			t.Fatal("recorder must not be called")
			return nil
		}), time.Second)

		err := handle(context.Background(), domain.RoutingKeyReleased, []byte("{"))
		assert.ErrorIs(t, err, ErrMalformedMessage)
	})

	t.Run("validation errors are dropped", func(t *testing.T) {
		handle := NewAuditHandler(recorderFunc(func(context.Context, string, domain.TransactionEvent) error {
			return domain.Validationf("event has no id")
		}), time.Second)

		err := handle(context.Background(), domain.RoutingKeyReleased, body)
		assert.ErrorIs(t, err, ErrMalformedMessage)
	})

	t.Run("storage errors are retried", func(t *testing.T) {
		handle := NewAuditHandler(recorderFunc(func(context.Context, string, domain.TransactionEvent) error {
			return errors.New("mongo unavailable")
		}), time.Second)

		err := handle(context.Background(), domain.RoutingKeyReleased, body)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMalformedMessage)
	})
}
