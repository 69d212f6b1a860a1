package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// AllStatuses lists every status in display order.
var AllStatuses = []TransactionStatus{StatusPending, StatusCompleted, StatusFailed, StatusCancelled}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TransactionStatus) IsTerminal() bool {
	return s.Valid() && s != StatusPending
}

func ParseTransactionStatus(raw string) (TransactionStatus, error) {
	s := TransactionStatus(raw)
	if !s.Valid() {
		return "", Validationf("unknown status %q", raw)
	}
	return s, nil
}

type TransactionType string

const (
	TypeJobPayment    TransactionType = "JOB_PAYMENT"
	TypeDisputeRefund TransactionType = "DISPUTE_REFUND"
	TypePlatformFee   TransactionType = "PLATFORM_FEE"
	TypePenalty       TransactionType = "PENALTY"
)

var AllTypes = []TransactionType{TypeJobPayment, TypeDisputeRefund, TypePlatformFee, TypePenalty}

func (t TransactionType) Valid() bool {
	switch t {
	case TypeJobPayment, TypeDisputeRefund, TypePlatformFee, TypePenalty:
		return true
	}
	return false
}

func ParseTransactionType(raw string) (TransactionType, error) {
	t := TransactionType(raw)
	if !t.Valid() {
		return "", Validationf("unknown type %q", raw)
	}
	return t, nil
}

// Resolution records which way the held funds went when an operator
// completed the transaction. Status stays COMPLETED for both outcomes.
type Resolution string

const (
	ResolutionNone     Resolution = ""
	ResolutionReleased Resolution = "RELEASED"
	ResolutionRefunded Resolution = "REFUNDED"
)

// Operation is an administrative transition.
type Operation string

const (
	OperationRelease Operation = "release"
	OperationRefund  Operation = "refund"
)

func (o Operation) Resolution() Resolution {
	if o == OperationRefund {
		return ResolutionRefunded
	}
	return ResolutionReleased
}

// EscrowTransaction is a payment held between a client and a worker.
// CompletedAt is set if and only if Status is not PENDING.
type EscrowTransaction struct {
	ID            uuid.UUID
	JobID         *uuid.UUID
	ClientID      uuid.UUID
	WorkerID      *uuid.UUID
	Amount        Money
	Type          TransactionType
	Status        TransactionStatus
	Resolution    Resolution
	Description   string
	FailureReason string
	InitiatedAt   time.Time
	CompletedAt   *time.Time
}

type NewTransactionParams struct {
	JobID       *uuid.UUID
	ClientID    uuid.UUID
	WorkerID    *uuid.UUID
	Amount      Money
	Type        TransactionType
	Description string
}

// NewEscrowTransaction validates params and returns a PENDING transaction.
func NewEscrowTransaction(p NewTransactionParams, now time.Time) (*EscrowTransaction, error) {
	if p.ClientID == uuid.Nil {
		return nil, Validationf("clientId is required")
	}
	if !p.Type.Valid() {
		return nil, Validationf("unknown type %q", p.Type)
	}
	if !validCurrency(p.Amount.Currency) {
		return nil, Validationf("invalid currency code %q", p.Amount.Currency)
	}
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if p.Type == TypeJobPayment && p.JobID == nil {
		return nil, Validationf("jobId is required for %s", TypeJobPayment)
	}
	return &EscrowTransaction{
		ID:          uuid.New(),
		JobID:       p.JobID,
		ClientID:    p.ClientID,
		WorkerID:    p.WorkerID,
		Amount:      p.Amount,
		Type:        p.Type,
		Status:      StatusPending,
		Description: p.Description,
		InitiatedAt: now.UTC(),
	}, nil
}

// CheckSettle reports whether op may be applied. It never mutates t.
func (t *EscrowTransaction) CheckSettle(op Operation) error {
	reject := func(reason string) error {
		return &TransitionError{
			TransactionID: t.ID,
			Operation:     op,
			CurrentStatus: t.Status,
			Type:          t.Type,
			Reason:        reason,
		}
	}
	if t.Status != StatusPending {
		return reject("transaction is no longer pending")
	}
	if t.Type != TypeJobPayment {
		return reject("only JOB_PAYMENT transactions can be settled by an operator")
	}
	if op == OperationRelease && t.WorkerID == nil {
		return reject("no worker assigned")
	}
	return nil
}

// Settle moves a pending job payment to COMPLETED.
func (t *EscrowTransaction) Settle(op Operation, at time.Time) error {
	if err := t.CheckSettle(op); err != nil {
		return err
	}
	completed := at.UTC()
	t.Status = StatusCompleted
	t.Resolution = op.Resolution()
	t.CompletedAt = &completed
	return nil
}

// Fail records a server-side failure, e.g. funds could not be held.
func (t *EscrowTransaction) Fail(reason string, at time.Time) error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: transaction %s is %s", ErrInvalidStateTransition, t.ID, t.Status)
	}
	completed := at.UTC()
	t.Status = StatusFailed
	t.FailureReason = reason
	t.CompletedAt = &completed
	return nil
}

// Recipient is the party credited by op.
func (t *EscrowTransaction) Recipient(op Operation) *uuid.UUID {
	if op == OperationRefund {
		id := t.ClientID
		return &id
	}
	return t.WorkerID
}
