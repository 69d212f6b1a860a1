package gateway

import (
	"context"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

// AuditRepository keeps an append-only trail of escrow events. Saving the
// same event twice must be a no-op so redeliveries are harmless.
type AuditRepository interface {
	Save(ctx context.Context, routingKey string, event domain.TransactionEvent) error
}
