package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

type TransactionDetail struct {
	Transaction   *domain.EscrowTransaction
	LedgerEntries []domain.LedgerEntry
}

type GetTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
	ledgerRepository      gateway.LedgerRepository
}

func NewGetTransaction(transactionRepo gateway.TransactionRepository, ledgerRepo gateway.LedgerRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactionRepository: transactionRepo,
		ledgerRepository:      ledgerRepo,
	}
}

func (u *GetTransactionUseCase) Execute(ctx context.Context, id uuid.UUID) (*TransactionDetail, error) {
	tx, err := u.transactionRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}

	entries, err := u.ledgerRepository.ListByTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries of %s: %w", id, err)
	}
	return &TransactionDetail{Transaction: tx, LedgerEntries: entries}, nil
}
