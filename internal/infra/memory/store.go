// Package memory is a process-local storage backend used for development
// and tests. Units of work are serialised and roll back from a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type Store struct {
	// work is held for the whole of a unit of work and by writes made
	// outside one, so a rollback never discards someone else's write.
	work sync.Mutex
	mu   sync.RWMutex

	transactions map[uuid.UUID]domain.EscrowTransaction
	accounts     map[uuid.UUID]domain.EscrowAccount
	entries      []domain.LedgerEntry
}

func NewStore() *Store {
	return &Store{
		transactions: make(map[uuid.UUID]domain.EscrowTransaction),
		accounts:     make(map[uuid.UUID]domain.EscrowAccount),
	}
}

type snapshot struct {
	transactions map[uuid.UUID]domain.EscrowTransaction
	accounts     map[uuid.UUID]domain.EscrowAccount
	entries      []domain.LedgerEntry
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		transactions: maps.Clone(s.transactions),
		accounts:     maps.Clone(s.accounts),
		entries:      slices.Clone(s.entries),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = snap.transactions
	s.accounts = snap.accounts
	s.entries = snap.entries
}

// unit is the TransactionObject handed out by Uow.
type unit struct {
	store *Store
}

// Uow implements gateway.TransactionManager.
type Uow struct {
	store *Store
}

func NewUow(store *Store) *Uow {
	return &Uow{store: store}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.work.Lock()
	defer u.store.work.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := u.store.snapshot()
	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, &unit{store: u.store})
	if err := fn(ctxWithTx); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// boundTo reports whether tx is a unit of work opened on s.
func (s *Store) boundTo(tx gateway.TransactionObject) bool {
	w, ok := tx.(*unit)
	return ok && w.store == s
}

// write runs fn under the store lock. Outside a unit of work it also waits
// for any running unit to finish.
func (s *Store) write(inTx bool, fn func() error) error {
	if !inTx {
		s.work.Lock()
		defer s.work.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}
