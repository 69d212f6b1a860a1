package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type LedgerRepository struct {
	store *Store
	inTx  bool
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) Append(_ context.Context, entries ...domain.LedgerEntry) error {
	return r.store.write(r.inTx, func() error {
		r.store.entries = append(r.store.entries, entries...)
		return nil
	})
}

func (r *LedgerRepository) ListByTransaction(_ context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.LedgerEntry, 0)
	for _, entry := range r.store.entries {
		if entry.TransactionID != nil && *entry.TransactionID == transactionID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *LedgerRepository) WithTx(tx gateway.TransactionObject) gateway.LedgerRepository {
	if !r.store.boundTo(tx) {
		return r
	}
	return &LedgerRepository{store: r.store, inTx: true}
}
