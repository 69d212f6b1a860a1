package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventsExchange is the topic exchange escrow events are published to.
const EventsExchange = "escrow_events"

const (
	RoutingKeyInitiated = "escrow.transaction.initiated"
	RoutingKeyFailed    = "escrow.transaction.failed"
	RoutingKeyReleased  = "escrow.transaction.released"
	RoutingKeyRefunded  = "escrow.transaction.refunded"
)

// TransactionEvent is the message body published after a state change.
type TransactionEvent struct {
	EventID       uuid.UUID         `json:"eventId"`
	TransactionID uuid.UUID         `json:"transactionId"`
	JobID         *uuid.UUID        `json:"jobId,omitempty"`
	ClientID      *uuid.UUID        `json:"clientId,omitempty"`
	WorkerID      *uuid.UUID        `json:"workerId,omitempty"`
	Type          TransactionType   `json:"type,omitempty"`
	Status        TransactionStatus `json:"status,omitempty"`
	Resolution    Resolution        `json:"resolution,omitempty"`
	Amount        Money             `json:"amount"`
	Operator      string            `json:"operator,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// NewTransactionEvent snapshots t.
func NewTransactionEvent(t *EscrowTransaction, operator string, at time.Time) TransactionEvent {
	clientID := t.ClientID
	return TransactionEvent{
		EventID:       uuid.New(),
		TransactionID: t.ID,
		JobID:         t.JobID,
		ClientID:      &clientID,
		WorkerID:      t.WorkerID,
		Type:          t.Type,
		Status:        t.Status,
		Resolution:    t.Resolution,
		Amount:        t.Amount,
		Operator:      operator,
		Reason:        t.FailureReason,
		OccurredAt:    at.UTC(),
	}
}

// RoutingKey maps a settlement outcome to its event routing key.
func (r Resolution) RoutingKey() string {
	if r == ResolutionRefunded {
		return RoutingKeyRefunded
	}
	return RoutingKeyReleased
}

// SettlementNotice asks the worker to notify the credited party.
type SettlementNotice struct {
	TransactionID uuid.UUID  `json:"transactionId"`
	JobID         *uuid.UUID `json:"jobId,omitempty"`
	RecipientID   uuid.UUID  `json:"recipientId"`
	Resolution    Resolution `json:"resolution"`
	Amount        Money      `json:"amount"`
	Operator      string     `json:"operator,omitempty"`
	SettledAt     time.Time  `json:"settledAt"`
}
