package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/rs/zerolog/log"
)

type RecordAuditUseCase struct {
	auditRepository gateway.AuditRepository
}

func NewRecordAudit(auditRepo gateway.AuditRepository) *RecordAuditUseCase {
	return &RecordAuditUseCase{auditRepository: auditRepo}
}

// Execute stores one consumed event. Events without identifiers are
// rejected with domain.ErrValidation and should not be redelivered.
func (u *RecordAuditUseCase) Execute(ctx context.Context, routingKey string, event domain.TransactionEvent) error {
	if event.EventID == uuid.Nil || event.TransactionID == uuid.Nil {
		return domain.Validationf("event on %s has no id", routingKey)
	}
	if err := u.auditRepository.Save(ctx, routingKey, event); err != nil {
		return fmt.Errorf("failed to save audit event %s: %w", event.EventID, err)
	}
	log.Info().
		Str("routing_key", routingKey).
		Str("transaction_id", event.TransactionID.String()).
		Str("status", string(event.Status)).
		Msg("audit event recorded")
	return nil
}
