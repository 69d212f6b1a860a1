package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type AccountRepository struct {
	store *Store
	inTx  bool
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.EscrowAccount) error {
	return r.store.write(r.inTx, func() error {
		for _, existing := range r.store.accounts {
			if existing.HolderID == account.HolderID && existing.Type == account.Type {
				return domain.ErrAccountExists
			}
		}
		r.store.accounts[account.ID] = *account
		return nil
	})
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EscrowAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.EscrowAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) GetByHolderForUpdate(_ context.Context, holderID uuid.UUID, accountType domain.AccountType) (*domain.EscrowAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, account := range r.store.accounts {
		if account.HolderID == holderID && account.Type == accountType {
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepository) List(_ context.Context, filter domain.AccountFilter) ([]*domain.EscrowAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.EscrowAccount, 0)
	for _, account := range r.store.accounts {
		if filter.Matches(&account) {
			out = append(out, &account)
		}
	}
	slices.SortFunc(out, func(a, b *domain.EscrowAccount) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (r *AccountRepository) Debit(_ context.Context, id uuid.UUID, amount domain.Money) error {
	return r.mutate(id, func(account *domain.EscrowAccount) error {
		return account.Debit(amount)
	})
}

func (r *AccountRepository) Credit(_ context.Context, id uuid.UUID, amount domain.Money) error {
	return r.mutate(id, func(account *domain.EscrowAccount) error {
		return account.Credit(amount)
	})
}

func (r *AccountRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AccountStatus) error {
	return r.mutate(id, func(account *domain.EscrowAccount) error {
		account.Status = status
		return nil
	})
}

func (r *AccountRepository) mutate(id uuid.UUID, fn func(*domain.EscrowAccount) error) error {
	return r.store.write(r.inTx, func() error {
		account, ok := r.store.accounts[id]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if err := fn(&account); err != nil {
			return err
		}
		account.UpdatedAt = time.Now().UTC()
		r.store.accounts[id] = account
		return nil
	})
}

func (r *AccountRepository) WithTx(tx gateway.TransactionObject) gateway.AccountRepository {
	if !r.store.boundTo(tx) {
		return r
	}
	return &AccountRepository{store: r.store, inTx: true}
}
