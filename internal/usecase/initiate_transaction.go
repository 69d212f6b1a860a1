package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/metrics"
	"github.com/rs/zerolog/log"
)

type InitiateTransactionInput struct {
	JobID       *uuid.UUID
	ClientID    uuid.UUID
	WorkerID    *uuid.UUID
	Amount      domain.Money
	Type        domain.TransactionType
	Description string
}

// InitiateTransactionUseCase records a new escrow transaction. Job payments
// move the amount from the client's account into a fresh ESCROW_HOLD
// account; if that is impossible the transaction is stored as FAILED.
type InitiateTransactionUseCase struct {
	transactionRepository gateway.TransactionRepository
	accountRepository     gateway.AccountRepository
	ledgerRepository      gateway.LedgerRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewInitiateTransaction(
	transactionRepo gateway.TransactionRepository,
	accountRepo gateway.AccountRepository,
	ledgerRepo gateway.LedgerRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *InitiateTransactionUseCase {
	return &InitiateTransactionUseCase{
		transactionRepository: transactionRepo,
		accountRepository:     accountRepo,
		ledgerRepository:      ledgerRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *InitiateTransactionUseCase) Execute(ctx context.Context, input InitiateTransactionInput) (*domain.EscrowTransaction, error) {
	now := time.Now()
	escrowTx, err := domain.NewEscrowTransaction(domain.NewTransactionParams{
		JobID:       input.JobID,
		ClientID:    input.ClientID,
		WorkerID:    input.WorkerID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: input.Description,
	}, now)
	if err != nil {
		return nil, err
	}

	err = u.transactionManager.Run(ctx, func(ctx context.Context) error {
		txObj, err := txObject(ctx)
		if err != nil {
			return err
		}
		transactionRepoTx := u.transactionRepository.WithTx(txObj)
		accountRepoTx := u.accountRepository.WithTx(txObj)
		ledgerRepoTx := u.ledgerRepository.WithTx(txObj)

		// The transaction row must exist before ledger entries reference it.
		if err := transactionRepoTx.Create(ctx, escrowTx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		if escrowTx.Type != domain.TypeJobPayment {
			return nil
		}

		client, err := u.checkParties(ctx, accountRepoTx, escrowTx)
		if err != nil {
			if !isHoldRejection(err) {
				return err
			}
			if err := escrowTx.Fail(err.Error(), now); err != nil {
				return err
			}
			return transactionRepoTx.Complete(ctx, escrowTx)
		}
		return u.holdFunds(ctx, accountRepoTx, ledgerRepoTx, escrowTx, client, now)
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsInitiated.WithLabelValues(string(escrowTx.Type), string(escrowTx.Status)).Inc()
	routingKey := domain.RoutingKeyInitiated
	if escrowTx.Status == domain.StatusFailed {
		routingKey = domain.RoutingKeyFailed
		log.Warn().Str("transaction_id", escrowTx.ID.String()).Str("reason", escrowTx.FailureReason).Msg("escrow hold rejected")
	}
	if u.eventPublisher != nil {
		event := domain.NewTransactionEvent(escrowTx, "", now)
		if err := u.eventPublisher.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
			metrics.EventPublishErrors.WithLabelValues(routingKey).Inc()
			log.Error().Err(err).Str("transaction_id", escrowTx.ID.String()).Msg("failed to publish transaction event")
		}
	}
	return escrowTx, nil
}

// checkParties locks the client account and verifies both parties can take
// part in the hold. It writes nothing.
func (u *InitiateTransactionUseCase) checkParties(ctx context.Context, accounts gateway.AccountRepository, tx *domain.EscrowTransaction) (*domain.EscrowAccount, error) {
	client, err := accounts.GetByHolderForUpdate(ctx, tx.ClientID, domain.AccountClient)
	if err != nil {
		return nil, fmt.Errorf("client account: %w", err)
	}
	trial := *client
	if err := trial.Debit(tx.Amount); err != nil {
		return nil, fmt.Errorf("client account: %w", err)
	}

	if tx.WorkerID != nil {
		worker, err := accounts.GetByHolderForUpdate(ctx, *tx.WorkerID, domain.AccountWorker)
		if err != nil {
			return nil, fmt.Errorf("worker account: %w", err)
		}
		if err := worker.CanMove(tx.Amount); err != nil {
			return nil, fmt.Errorf("worker account: %w", err)
		}
	}
	return client, nil
}

func (u *InitiateTransactionUseCase) holdFunds(
	ctx context.Context,
	accounts gateway.AccountRepository,
	ledger gateway.LedgerRepository,
	tx *domain.EscrowTransaction,
	client *domain.EscrowAccount,
	now time.Time,
) error {
	hold, err := domain.NewEscrowAccount(tx.ID, domain.AccountEscrowHold, tx.Amount.Currency, now)
	if err != nil {
		return err
	}
	if err := accounts.Create(ctx, hold); err != nil {
		return fmt.Errorf("failed to create escrow hold: %w", err)
	}
	if err := accounts.Debit(ctx, client.ID, tx.Amount); err != nil {
		return fmt.Errorf("failed to debit client account %s: %w", client.ID, err)
	}
	if err := accounts.Credit(ctx, hold.ID, tx.Amount); err != nil {
		return fmt.Errorf("failed to credit escrow hold %s: %w", hold.ID, err)
	}

	description := "Job payment hold"
	if tx.JobID != nil {
		description = fmt.Sprintf("Job payment hold for job %s", *tx.JobID)
	}
	if err := ledger.Append(ctx,
		domain.NewLedgerEntry(client.ID, &tx.ID, domain.EntryDebit, tx.Amount, description, now),
		domain.NewLedgerEntry(hold.ID, &tx.ID, domain.EntryCredit, tx.Amount, description, now),
	); err != nil {
		return fmt.Errorf("failed to post ledger entries: %w", err)
	}
	return nil
}

// isHoldRejection separates business refusals, which fail the transaction,
// from infrastructure errors, which abort the request.
func isHoldRejection(err error) bool {
	return errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrAccountNotActive) ||
		errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrCurrencyMismatch)
}
