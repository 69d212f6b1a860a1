package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/postgres/db"
)

const uniqueViolation = "23505"

// AccountRepository implements gateway.AccountRepository using pgx/v5.
type AccountRepository struct {
	db      *pgxpool.Pool
	queries *db.Queries
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db:      pool,
		queries: db.New(pool),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.EscrowAccount) error {
	err := r.queries.CreateAccount(ctx, db.CreateAccountParams{
		ID:        account.ID,
		HolderID:  account.HolderID,
		Type:      string(account.Type),
		Balance:   numericFromDecimal(account.Balance.Amount),
		Currency:  account.Balance.Currency,
		Status:    string(account.Status),
		CreatedAt: timestamptz(account.CreatedAt),
		UpdatedAt: timestamptz(account.UpdatedAt),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		// (holder_id, type) is unique: one account per party and role.
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return toDomainAccount(row), nil
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error) {
	row, err := r.queries.GetAccountForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return toDomainAccount(row), nil
}

func (r *AccountRepository) GetByHolderForUpdate(ctx context.Context, holderID uuid.UUID, accountType domain.AccountType) (*domain.EscrowAccount, error) {
	row, err := r.queries.GetAccountByHolderForUpdate(ctx, db.GetAccountByHolderForUpdateParams{
		HolderID: holderID,
		Type:     string(accountType),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock %s account of %s: %w", accountType, holderID, err)
	}
	return toDomainAccount(row), nil
}

func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.EscrowAccount, error) {
	rows, err := r.queries.ListAccounts(ctx, db.ListAccountsParams{
		HolderID: nullUUID(filter.HolderID),
		Type:     textToPgType(string(filter.Type)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]*domain.EscrowAccount, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAccount(row))
	}
	return out, nil
}

// Debit relies on "balance >= amount" in the UPDATE; zero rows affected
// means the guard rejected it.
func (r *AccountRepository) Debit(ctx context.Context, id uuid.UUID, amount domain.Money) error {
	rowsAffected, err := r.queries.DebitAccount(ctx, db.DebitAccountParams{
		Amount:   numericFromDecimal(amount.Amount),
		ID:       id,
		Currency: amount.Currency,
	})
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *AccountRepository) Credit(ctx context.Context, id uuid.UUID, amount domain.Money) error {
	rowsAffected, err := r.queries.CreditAccount(ctx, db.CreditAccountParams{
		Amount:   numericFromDecimal(amount.Amount),
		ID:       id,
		Currency: amount.Currency,
	})
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	// Zero rows: missing, not ACTIVE or another currency. Callers check the
	// locked row first, so by now it is the status.
	if rowsAffected == 0 {
		return fmt.Errorf("%w: account %s cannot take %s", domain.ErrAccountNotActive, id, amount.Currency)
	}
	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error {
	rowsAffected, err := r.queries.UpdateAccountStatus(ctx, db.UpdateAccountStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) WithTx(tx gateway.TransactionObject) gateway.AccountRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r // not inside a unit of work: use the pool
	}
	return &AccountRepository{
		db:      r.db,
		queries: r.queries.WithTx(pgTx),
	}
}

func toDomainAccount(row db.EscrowAccount) *domain.EscrowAccount {
	return &domain.EscrowAccount{
		ID:       row.ID,
		HolderID: row.HolderID,
		Type:     domain.AccountType(row.Type),
		Balance: domain.Money{
			Amount:   decimalFromNumeric(row.Balance),
			Currency: row.Currency,
		},
		Status:    domain.AccountStatus(row.Status),
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}
