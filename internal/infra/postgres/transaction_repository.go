package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/postgres/db"
)

type TransactionRepository struct {
	db      *pgxpool.Pool
	queries *db.Queries
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		db:      pool,
		queries: db.New(pool),
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.EscrowTransaction) error {
	params := db.CreateTransactionParams{
		ID:            tx.ID,
		JobID:         nullUUID(tx.JobID),
		ClientID:      tx.ClientID,
		WorkerID:      nullUUID(tx.WorkerID),
		Amount:        numericFromDecimal(tx.Amount.Amount),
		Currency:      tx.Amount.Currency,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		Resolution:    textToPgType(string(tx.Resolution)),
		Description:   tx.Description,
		FailureReason: textToPgType(tx.FailureReason),
		InitiatedAt:   timestamptz(tx.InitiatedAt),
		CompletedAt:   timestamptzPtr(tx.CompletedAt),
	}
	if err := r.queries.CreateTransaction(ctx, params); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowTransaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return toDomainTransaction(row), nil
}

func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowTransaction, error) {
	row, err := r.queries.GetTransactionForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return toDomainTransaction(row), nil
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter, page domain.PageRequest) ([]*domain.EscrowTransaction, int64, error) {
	status := textToPgType(string(filter.Status))
	txType := textToPgType(string(filter.Type))

	total, err := r.queries.CountTransactions(ctx, db.CountTransactionsParams{Status: status, Type: txType})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []db.EscrowTransaction
	if page.Direction == domain.SortAsc {
		rows, err = r.queries.ListTransactionsAsc(ctx, db.ListTransactionsAscParams{
			Status: status,
			Type:   txType,
			Limit:  int32(page.Size),
			Offset: int32(page.Offset()),
		})
	} else {
		rows, err = r.queries.ListTransactionsDesc(ctx, db.ListTransactionsDescParams{
			Status: status,
			Type:   txType,
			Limit:  int32(page.Size),
			Offset: int32(page.Offset()),
		})
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]*domain.EscrowTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTransaction(row))
	}
	return out, total, nil
}

// Complete is a compare-and-set on status = 'PENDING'.
func (r *TransactionRepository) Complete(ctx context.Context, tx *domain.EscrowTransaction) error {
	rowsAffected, err := r.queries.CompleteTransaction(ctx, db.CompleteTransactionParams{
		ID:            tx.ID,
		Status:        string(tx.Status),
		Resolution:    textToPgType(string(tx.Resolution)),
		FailureReason: textToPgType(tx.FailureReason),
		CompletedAt:   timestamptzPtr(tx.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to complete transaction: %w", err)
	}
	if rowsAffected == 0 {
		return r.completionConflict(ctx, tx)
	}
	return nil
}

// completionConflict re-reads the row so the caller sees the status that
// won the compare-and-set.
func (r *TransactionRepository) completionConflict(ctx context.Context, tx *domain.EscrowTransaction) error {
	row, err := r.queries.GetTransaction(ctx, tx.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTransactionNotFound
		}
		return fmt.Errorf("%w: transaction %s is no longer pending", domain.ErrInvalidStateTransition, tx.ID)
	}
	return domain.CompletionConflict(toDomainTransaction(row), tx.Resolution)
}

func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionRepository{
		db:      r.db,
		queries: r.queries.WithTx(pgTx),
	}
}

func toDomainTransaction(row db.EscrowTransaction) *domain.EscrowTransaction {
	return &domain.EscrowTransaction{
		ID:       row.ID,
		JobID:    uuidPtr(row.JobID),
		ClientID: row.ClientID,
		WorkerID: uuidPtr(row.WorkerID),
		Amount: domain.Money{
			Amount:   decimalFromNumeric(row.Amount),
			Currency: row.Currency,
		},
		Type:          domain.TransactionType(row.Type),
		Status:        domain.TransactionStatus(row.Status),
		Resolution:    domain.Resolution(row.Resolution.String),
		Description:   row.Description,
		FailureReason: row.FailureReason.String,
		InitiatedAt:   row.InitiatedAt.Time.UTC(),
		CompletedAt:   timePtr(row.CompletedAt),
	}
}
