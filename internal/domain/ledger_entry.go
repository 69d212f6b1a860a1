package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// LedgerEntry is one side of a balance movement.
type LedgerEntry struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	TransactionID   *uuid.UUID
	EntryType       EntryType
	Amount          Money
	Description     string
	ReferenceNumber string
	PostedAt        time.Time
}

func NewLedgerEntry(accountID uuid.UUID, transactionID *uuid.UUID, entryType EntryType, amount Money, description string, now time.Time) LedgerEntry {
	id := uuid.New()
	postedAt := now.UTC()
	return LedgerEntry{
		ID:              id,
		AccountID:       accountID,
		TransactionID:   transactionID,
		EntryType:       entryType,
		Amount:          amount,
		Description:     description,
		ReferenceNumber: referenceNumber(postedAt, id),
		PostedAt:        postedAt,
	}
}

// referenceNumber has the form LE-YYYYMMDD-XXXXXXXX.
func referenceNumber(at time.Time, id uuid.UUID) string {
	return "LE-" + at.Format("20060102") + "-" + strings.ToUpper(id.String()[:8])
}
