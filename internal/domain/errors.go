package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound    = errors.New("escrow transaction not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrValidation             = errors.New("validation error")
	ErrTransientFailure       = errors.New("transient failure, outcome unknown")
	ErrAccountNotFound        = errors.New("escrow account not found")
	ErrAccountNotActive       = errors.New("escrow account is not active")
	ErrAccountExists          = errors.New("escrow account already exists")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrCurrencyMismatch       = errors.New("currency mismatch")
	ErrAccountStatus          = errors.New("account status does not allow this change")
	ErrAccountNotEmpty        = errors.New("account balance is not zero")

	// ErrSettlementBlocked marks a release or refund refused because the
	// receiving account cannot take the funds. The transaction stays PENDING.
	ErrSettlementBlocked = errors.New("settlement blocked by party account")
)

// TransitionError is returned when release or refund is attempted on a
// transaction that is not eligible. The transaction is left untouched.
type TransitionError struct {
	TransactionID uuid.UUID
	Operation     Operation
	CurrentStatus TransactionStatus
	Type          TransactionType
	Reason        string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s transaction %s (status=%s, type=%s): %s",
		e.Operation, e.TransactionID, e.CurrentStatus, e.Type, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// CompletionConflict is returned by storage when a completion loses the
// PENDING compare-and-set. current is the row as it is stored now.
func CompletionConflict(current *EscrowTransaction, attempted Resolution) *TransitionError {
	op := Operation("complete")
	switch attempted {
	case ResolutionReleased:
		op = OperationRelease
	case ResolutionRefunded:
		op = OperationRefund
	}
	return &TransitionError{
		TransactionID: current.ID,
		Operation:     op,
		CurrentStatus: current.Status,
		Type:          current.Type,
		Reason:        "transaction is no longer pending",
	}
}

// Validationf builds an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
