package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

const (
	TaskSettlementNotice = "escrow:settlement_notice"
	QueueNotifications   = "notifications"
)

type Notifier struct {
	client *asynq.Client
}

func NewNotifier(client *asynq.Client) *Notifier {
	return &Notifier{client: client}
}

// NewSettlementNoticeTask encodes notice as an asynq task. The task id is
// derived from the transaction so a notice is queued at most once.
func NewSettlementNoticeTask(notice domain.SettlementNotice) (*asynq.Task, error) {
	payload, err := json.Marshal(notice)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settlement notice: %w", err)
	}
	return asynq.NewTask(TaskSettlementNotice, payload,
		asynq.Queue(QueueNotifications),
		asynq.TaskID("settlement:"+notice.TransactionID.String()),
		asynq.MaxRetry(10),
		asynq.Retention(24*time.Hour),
	), nil
}

func (n *Notifier) NotifySettlement(ctx context.Context, notice domain.SettlementNotice) error {
	task, err := NewSettlementNoticeTask(notice)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue settlement notice: %w", err)
	}
	return nil
}
