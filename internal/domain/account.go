package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountClient     AccountType = "CLIENT"
	AccountWorker     AccountType = "WORKER"
	AccountPlatform   AccountType = "PLATFORM"
	AccountEscrowHold AccountType = "ESCROW_HOLD"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountClient, AccountWorker, AccountPlatform, AccountEscrowHold:
		return true
	}
	return false
}

func ParseAccountType(raw string) (AccountType, error) {
	t := AccountType(raw)
	if !t.Valid() {
		return "", Validationf("unknown account type %q", raw)
	}
	return t, nil
}

type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountFrozen AccountStatus = "FROZEN"
	AccountClosed AccountStatus = "CLOSED"
)

// EscrowAccount is a per-party balance. ESCROW_HOLD accounts are keyed by
// the transaction whose funds they hold.
type EscrowAccount struct {
	ID        uuid.UUID
	HolderID  uuid.UUID
	Type      AccountType
	Balance   Money
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEscrowAccount(holderID uuid.UUID, accountType AccountType, currency string, now time.Time) (*EscrowAccount, error) {
	if holderID == uuid.Nil {
		return nil, Validationf("holderId is required")
	}
	if !accountType.Valid() {
		return nil, Validationf("unknown account type %q", accountType)
	}
	balance, err := NewMoney(Zero(currency).Amount, currency)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return &EscrowAccount{
		ID:        uuid.New(),
		HolderID:  holderID,
		Type:      accountType,
		Balance:   balance,
		Status:    AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasSufficientFunds validates the balance before touching storage.
func (a *EscrowAccount) HasSufficientFunds(amount Money) bool {
	return a.Balance.SameCurrency(amount) && !a.Balance.LessThan(amount)
}

// CanMove checks that amount may be debited from or credited to a.
func (a *EscrowAccount) CanMove(amount Money) error {
	if a.Status != AccountActive {
		return fmt.Errorf("%w: account %s is %s", ErrAccountNotActive, a.ID, a.Status)
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Balance.SameCurrency(amount) {
		return fmt.Errorf("%w: account %s holds %s, got %s", ErrCurrencyMismatch, a.ID, a.Balance.Currency, amount.Currency)
	}
	return nil
}

func (a *EscrowAccount) Debit(amount Money) error {
	if err := a.CanMove(amount); err != nil {
		return err
	}
	if !a.HasSufficientFunds(amount) {
		return ErrInsufficientFunds
	}
	a.Balance, _ = a.Balance.Sub(amount)
	return nil
}

func (a *EscrowAccount) Credit(amount Money) error {
	if err := a.CanMove(amount); err != nil {
		return err
	}
	a.Balance, _ = a.Balance.Add(amount)
	return nil
}

// Withdraw debits a party account. Holds only move through settlement.
func (a *EscrowAccount) Withdraw(amount Money) error {
	if a.Type == AccountEscrowHold {
		return Validationf("withdrawals from %s accounts are not allowed", AccountEscrowHold)
	}
	return a.Debit(amount)
}

// Freeze blocks all money movement until Unfreeze.
func (a *EscrowAccount) Freeze(now time.Time) error {
	if a.Status != AccountActive {
		return fmt.Errorf("%w: only active accounts can be frozen, account %s is %s", ErrAccountStatus, a.ID, a.Status)
	}
	return a.setStatus(AccountFrozen, now)
}

func (a *EscrowAccount) Unfreeze(now time.Time) error {
	if a.Status != AccountFrozen {
		return fmt.Errorf("%w: only frozen accounts can be unfrozen, account %s is %s", ErrAccountStatus, a.ID, a.Status)
	}
	return a.setStatus(AccountActive, now)
}

// Close is final and needs a zero balance.
func (a *EscrowAccount) Close(now time.Time) error {
	if a.Status == AccountClosed {
		return fmt.Errorf("%w: account %s is already closed", ErrAccountStatus, a.ID)
	}
	if !a.Balance.Amount.IsZero() {
		return fmt.Errorf("%w: account %s holds %s", ErrAccountNotEmpty, a.ID, a.Balance)
	}
	return a.setStatus(AccountClosed, now)
}

func (a *EscrowAccount) setStatus(status AccountStatus, now time.Time) error {
	if a.Type == AccountEscrowHold {
		return Validationf("%s accounts follow their transaction", AccountEscrowHold)
	}
	a.Status = status
	a.UpdatedAt = now.UTC()
	return nil
}

// AccountAction is an operator change to an account's status.
type AccountAction string

const (
	AccountFreeze   AccountAction = "freeze"
	AccountUnfreeze AccountAction = "unfreeze"
	AccountClose    AccountAction = "close"
)

// Apply runs the lifecycle method named by action.
func (a *EscrowAccount) Apply(action AccountAction, now time.Time) error {
	switch action {
	case AccountFreeze:
		return a.Freeze(now)
	case AccountUnfreeze:
		return a.Unfreeze(now)
	case AccountClose:
		return a.Close(now)
	}
	return Validationf("unknown account action %q", action)
}

// AccountFilter narrows an account listing. Empty fields match anything.
type AccountFilter struct {
	HolderID *uuid.UUID
	Type     AccountType
}

func (f AccountFilter) Matches(a *EscrowAccount) bool {
	if f.HolderID != nil && a.HolderID != *f.HolderID {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	return true
}
