package gateway

import (
	"context"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

//go:generate mockgen -source=notifier.go -destination=mocks/notifier_mock.go -package=mocks

// SettlementNotifier tells the parties of a transaction that it settled.
// Delivery is asynchronous; a nil error only means the notice was queued.
type SettlementNotifier interface {
	NotifySettlement(ctx context.Context, notice domain.SettlementNotice) error
}
