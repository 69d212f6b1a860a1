package console

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

var (
	// ErrActionInFlight is returned when a release or refund is already
	// running for the same transaction.
	ErrActionInFlight = errors.New("an action is already in flight for this transaction")
	ErrDeclined       = errors.New("action declined by operator")
	ErrUnauthorized   = errors.New("operator is not authorized")
)

// OperationError is how a failed release or refund reaches the operator.
// CurrentStatus is set when the server reported the unchanged status.
type OperationError struct {
	Operation     domain.Operation
	TransactionID uuid.UUID
	CurrentStatus domain.TransactionStatus
	Err           error
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s of transaction %s failed: %v", e.Operation, e.TransactionID, e.Err)
	if e.CurrentStatus != "" {
		msg += fmt.Sprintf(" (current status %s)", e.CurrentStatus)
	}
	if errors.Is(e.Err, domain.ErrSettlementBlocked) {
		msg += "; the transaction is still pending, check the receiving account"
	}
	if errors.Is(e.Err, domain.ErrTransientFailure) {
		msg += "; verify the transaction manually before trying again"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
