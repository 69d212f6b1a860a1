package console

import (
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

// Transaction is the console's read model of an escrow transaction.
type Transaction struct {
	ID            uuid.UUID                `json:"id"`
	JobID         *uuid.UUID               `json:"jobId"`
	ClientID      uuid.UUID                `json:"clientId"`
	WorkerID      *uuid.UUID               `json:"workerId"`
	Amount        domain.Money             `json:"amount"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	Resolution    domain.Resolution        `json:"resolution"`
	Description   string                   `json:"description"`
	FailureReason string                   `json:"failureReason"`
	InitiatedAt   time.Time                `json:"initiatedAt"`
	CompletedAt   *time.Time               `json:"completedAt"`
	LedgerEntries []LedgerEntry            `json:"ledgerEntries"`
}

// Settleable reports whether release and refund are offered for t.
func (t Transaction) Settleable() bool {
	return t.Status == domain.StatusPending && t.Type == domain.TypeJobPayment
}

type LedgerEntry struct {
	ID              uuid.UUID        `json:"id"`
	AccountID       uuid.UUID        `json:"accountId"`
	EntryType       domain.EntryType `json:"entryType"`
	Amount          domain.Money     `json:"amount"`
	Description     string           `json:"description"`
	ReferenceNumber string           `json:"referenceNumber"`
	PostedAt        time.Time        `json:"postedAt"`
}

type TransactionPage struct {
	Content       []Transaction `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Number        int           `json:"number"`
	Size          int           `json:"size"`
}

type Account struct {
	ID        uuid.UUID            `json:"id"`
	HolderID  uuid.UUID            `json:"holderId"`
	Type      domain.AccountType   `json:"type"`
	Balance   domain.Money         `json:"balance"`
	Status    domain.AccountStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type TransactionQuery struct {
	Status    domain.TransactionStatus
	Type      domain.TransactionType
	Page      int
	Size      int
	Direction domain.SortDirection
}

type AccountQuery struct {
	HolderID *uuid.UUID
	Type     domain.AccountType
}
