package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToAuditLog(t *testing.T) {
	jobID, clientID := uuid.New(), uuid.New()
	occurred := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	event := domain.TransactionEvent{
		EventID:       uuid.New(),
		TransactionID: uuid.New(),
		JobID:         &jobID,
		ClientID:      &clientID,
		Type:          domain.TypeJobPayment,
		Status:        domain.StatusCompleted,
		Resolution:    domain.ResolutionRefunded,
		Amount:        domain.Money{Amount: decimal.RequireFromString("5000.50"), Currency: "NGN"},
		Operator:      "ops-2",
		OccurredAt:    occurred,
	}

	log := toAuditLog(domain.RoutingKeyRefunded, event, occurred.Add(time.Second))

	assert.Equal(t, event.EventID.String(), log.ID)
	assert.Equal(t, jobID.String(), log.JobID)
	assert.Empty(t, log.WorkerID)
	assert.Equal(t, "5000.5", log.Amount)
	assert.Equal(t, "REFUNDED", log.Resolution)
	assert.Equal(t, domain.RoutingKeyRefunded, log.RoutingKey)
}
