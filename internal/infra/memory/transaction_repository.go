package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type TransactionRepository struct {
	store *Store
	inTx  bool
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(_ context.Context, tx *domain.EscrowTransaction) error {
	return r.store.write(r.inTx, func() error {
		r.store.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *TransactionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EscrowTransaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

// GetByIDForUpdate needs no row lock: units of work are already serialised.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) List(_ context.Context, filter domain.TransactionFilter, page domain.PageRequest) ([]*domain.EscrowTransaction, int64, error) {
	r.store.mu.RLock()
	matched := make([]*domain.EscrowTransaction, 0, len(r.store.transactions))
	for _, tx := range r.store.transactions {
		if filter.Matches(&tx) {
			matched = append(matched, &tx)
		}
	}
	r.store.mu.RUnlock()

	slices.SortFunc(matched, domain.CompareInitiated(page.Direction))

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.Size, len(matched))
	return matched[start:end], total, nil
}

func (r *TransactionRepository) Complete(_ context.Context, tx *domain.EscrowTransaction) error {
	return r.store.write(r.inTx, func() error {
		stored, ok := r.store.transactions[tx.ID]
		if !ok {
			return domain.ErrTransactionNotFound
		}
		if stored.Status != domain.StatusPending {
			return domain.CompletionConflict(&stored, tx.Resolution)
		}
		stored.Status = tx.Status
		stored.Resolution = tx.Resolution
		stored.CompletedAt = tx.CompletedAt
		stored.FailureReason = tx.FailureReason
		r.store.transactions[tx.ID] = stored
		return nil
	})
}

func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	if !r.store.boundTo(tx) {
		return r
	}
	return &TransactionRepository{store: r.store, inTx: true}
}
