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

// SettleInput identifies the transaction and the operator acting on it.
type SettleInput struct {
	TransactionID uuid.UUID
	Operator      string
}

// settlement moves the held amount of a pending job payment out of its
// ESCROW_HOLD account. Release credits the worker, refund the client.
type settlement struct {
	operation             domain.Operation
	transactionRepository gateway.TransactionRepository
	accountRepository     gateway.AccountRepository
	ledgerRepository      gateway.LedgerRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
	notifier              gateway.SettlementNotifier
}

func (s *settlement) execute(ctx context.Context, input SettleInput) (_ *domain.EscrowTransaction, err error) {
	started := time.Now()
	defer func() {
		metrics.SettlementLatency.WithLabelValues(string(s.operation)).Observe(time.Since(started).Seconds())
		metrics.SettlementsTotal.WithLabelValues(string(s.operation), outcome(err)).Inc()
	}()

	var settled *domain.EscrowTransaction

	err = s.transactionManager.Run(ctx, func(ctx context.Context) error {
		txObj, err := txObject(ctx)
		if err != nil {
			return err
		}
		transactionRepoTx := s.transactionRepository.WithTx(txObj)
		accountRepoTx := s.accountRepository.WithTx(txObj)
		ledgerRepoTx := s.ledgerRepository.WithTx(txObj)

		// The row lock serialises concurrent operators on the same id.
		escrowTx, err := transactionRepoTx.GetByIDForUpdate(ctx, input.TransactionID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := escrowTx.Settle(s.operation, now); err != nil {
			return err
		}

		hold, err := accountRepoTx.GetByHolderForUpdate(ctx, escrowTx.ID, domain.AccountEscrowHold)
		if err != nil {
			return fmt.Errorf("escrow hold of %s: %w", escrowTx.ID, err)
		}

		recipientType := domain.AccountWorker
		if s.operation == domain.OperationRefund {
			recipientType = domain.AccountClient
		}
		recipientID := *escrowTx.Recipient(s.operation)
		recipient, err := accountRepoTx.GetByHolderForUpdate(ctx, recipientID, recipientType)
		if err != nil {
			return blocked(err, recipientType, recipientID)
		}
		if err := recipient.CanMove(escrowTx.Amount); err != nil {
			return blocked(err, recipientType, recipientID)
		}

		if err := accountRepoTx.Debit(ctx, hold.ID, escrowTx.Amount); err != nil {
			return fmt.Errorf("failed to debit escrow hold %s: %w", hold.ID, err)
		}
		if err := accountRepoTx.Credit(ctx, recipient.ID, escrowTx.Amount); err != nil {
			return blocked(fmt.Errorf("failed to credit %s: %w", recipient.ID, err), recipientType, recipientID)
		}

		description := fmt.Sprintf("Job payment %s", s.operation)
		if escrowTx.JobID != nil {
			description = fmt.Sprintf("Job payment %s for job %s", s.operation, *escrowTx.JobID)
		}
		if err := ledgerRepoTx.Append(ctx,
			domain.NewLedgerEntry(hold.ID, &escrowTx.ID, domain.EntryDebit, escrowTx.Amount, description, now),
			domain.NewLedgerEntry(recipient.ID, &escrowTx.ID, domain.EntryCredit, escrowTx.Amount, description, now),
		); err != nil {
			return fmt.Errorf("failed to post ledger entries: %w", err)
		}

		if err := transactionRepoTx.Complete(ctx, escrowTx); err != nil {
			return err
		}
		settled = escrowTx
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", settled.ID.String()).
		Str("operation", string(s.operation)).
		Str("operator", input.Operator).
		Str("amount", settled.Amount.String()).
		Msg("escrow transaction settled")

	s.announce(ctx, settled, input.Operator)
	return settled, nil
}

// announce runs after commit. Failures are logged and never undo the
// settlement.
func (s *settlement) announce(ctx context.Context, tx *domain.EscrowTransaction, operator string) {
	routingKey := tx.Resolution.RoutingKey()
	if s.eventPublisher != nil {
		event := domain.NewTransactionEvent(tx, operator, *tx.CompletedAt)
		if err := s.eventPublisher.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
			metrics.EventPublishErrors.WithLabelValues(routingKey).Inc()
			log.Error().Err(err).Str("transaction_id", tx.ID.String()).Msg("failed to publish settlement event")
		}
	}

	if s.notifier != nil {
		notice := domain.SettlementNotice{
			TransactionID: tx.ID,
			JobID:         tx.JobID,
			RecipientID:   *tx.Recipient(s.operation),
			Resolution:    tx.Resolution,
			Amount:        tx.Amount,
			Operator:      operator,
			SettledAt:     *tx.CompletedAt,
		}
		if err := s.notifier.NotifySettlement(ctx, notice); err != nil {
			metrics.NoticeEnqueueErrors.Inc()
			log.Error().Err(err).Str("transaction_id", tx.ID.String()).Msg("failed to queue settlement notice")
		}
	}
}

// blocked marks recipient account refusals so they are not mistaken for a
// missing transaction. Other errors pass through.
func blocked(err error, accountType domain.AccountType, holderID uuid.UUID) error {
	if !isHoldRejection(err) {
		return err
	}
	return fmt.Errorf("%w: %s account of %s: %w", domain.ErrSettlementBlocked, accountType, holderID, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSettlementBlocked):
		return "blocked"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return "rejected"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "not_found"
	default:
		return "error"
	}
}
