package postgres

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/infra/postgres/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleDB answers every UPDATE with zero rows and every single-row read with
// stored, as if another writer completed the transaction first.
type staleDB struct {
	stored *db.EscrowTransaction
}

func (s staleDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 0"), nil
}

func (s staleDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (s staleDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return rowOf{stored: s.stored}
}

type rowOf struct {
	stored *db.EscrowTransaction
}

func (r rowOf) Scan(dest ...any) error {
	if r.stored == nil {
		return pgx.ErrNoRows
	}
	src := reflect.ValueOf(*r.stored)
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(src.Field(i))
	}
	return nil
}

func TestTransactionRepository_CompleteConflictCarriesStatus(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	stored := &db.EscrowTransaction{
		ID:          id,
		ClientID:    uuid.New(),
		Amount:      numericFromDecimal(decimal.NewFromInt(5000)),
		Currency:    "NGN",
		Type:        string(domain.TypeJobPayment),
		Status:      string(domain.StatusCompleted),
		Resolution:  pgtype.Text{String: string(domain.ResolutionReleased), Valid: true},
		InitiatedAt: pgtype.Timestamptz{Time: at, Valid: true},
		CompletedAt: pgtype.Timestamptz{Time: at.Add(time.Hour), Valid: true},
	}
	repo := &TransactionRepository{queries: db.New(staleDB{stored: stored})}

	done := at.Add(2 * time.Hour)
	err := repo.Complete(context.Background(), &domain.EscrowTransaction{
		ID:          id,
		Status:      domain.StatusCompleted,
		Resolution:  domain.ResolutionRefunded,
		CompletedAt: &done,
	})
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	var transitionErr *domain.TransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, id, transitionErr.TransactionID)
	assert.Equal(t, domain.StatusCompleted, transitionErr.CurrentStatus)
	assert.Equal(t, domain.OperationRefund, transitionErr.Operation)
}

func TestTransactionRepository_CompleteMissingRow(t *testing.T) {
	repo := &TransactionRepository{queries: db.New(staleDB{})}
	done := time.Now()
	err := repo.Complete(context.Background(), &domain.EscrowTransaction{
		ID:          uuid.New(),
		Status:      domain.StatusCompleted,
		Resolution:  domain.ResolutionReleased,
		CompletedAt: &done,
	})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
