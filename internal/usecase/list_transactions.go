package usecase

import (
	"context"
	"fmt"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

// ListTransactionsInput carries the raw filter values; empty means any.
type ListTransactionsInput struct {
	Status string
	Type   string
	Page   domain.PageRequest
}

type ListTransactionsUseCase struct {
	transactionRepository gateway.TransactionRepository
}

func NewListTransactions(transactionRepo gateway.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepository: transactionRepo}
}

func (u *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (domain.Page[*domain.EscrowTransaction], error) {
	var filter domain.TransactionFilter
	var err error
	if input.Status != "" {
		if filter.Status, err = domain.ParseTransactionStatus(input.Status); err != nil {
			return domain.Page[*domain.EscrowTransaction]{}, err
		}
	}
	if input.Type != "" {
		if filter.Type, err = domain.ParseTransactionType(input.Type); err != nil {
			return domain.Page[*domain.EscrowTransaction]{}, err
		}
	}
	if err := input.Page.Validate(); err != nil {
		return domain.Page[*domain.EscrowTransaction]{}, err
	}

	content, total, err := u.transactionRepository.List(ctx, filter, input.Page)
	if err != nil {
		return domain.Page[*domain.EscrowTransaction]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return domain.Page[*domain.EscrowTransaction]{
		Content:       content,
		TotalElements: total,
		Number:        input.Page.Page,
		Size:          input.Page.Size,
	}, nil
}
