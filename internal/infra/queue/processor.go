package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/rs/zerolog/log"
)

// Sender delivers a settlement notice to its recipient.
type Sender interface {
	SendSettlementNotice(ctx context.Context, notice domain.SettlementNotice) error
}

// LogSender writes notices to the log. It stands in until a mail or push
// provider is configured.
type LogSender struct{}

func (LogSender) SendSettlementNotice(_ context.Context, notice domain.SettlementNotice) error {
	log.Info().
		Str("transaction_id", notice.TransactionID.String()).
		Str("recipient_id", notice.RecipientID.String()).
		Str("resolution", string(notice.Resolution)).
		Str("amount", notice.Amount.String()).
		Msg("settlement notice sent")
	return nil
}

// NewServeMux routes queued tasks to their handlers.
func NewServeMux(sender Sender) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSettlementNotice, handleSettlementNotice(sender))
	return mux
}

func NewServer(opt asynq.RedisClientOpt, concurrency int) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueNotifications: 10,
		},
		Logger: zerologAdapter{},
	})
}

func handleSettlementNotice(sender Sender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var notice domain.SettlementNotice
		if err := json.Unmarshal(t.Payload(), &notice); err != nil {
			return fmt.Errorf("invalid settlement notice payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := sender.SendSettlementNotice(ctx, notice); err != nil {
			log.Error().Err(err).Str("transaction_id", notice.TransactionID.String()).Msg("settlement notice failed")
			return err
		}
		return nil
	}
}

// zerologAdapter routes asynq's internal logging through zerolog.
type zerologAdapter struct{}

func (zerologAdapter) Debug(args ...any) { log.Debug().Msg(fmt.Sprint(args...)) }
func (zerologAdapter) Info(args ...any)  { log.Info().Msg(fmt.Sprint(args...)) }
func (zerologAdapter) Warn(args ...any)  { log.Warn().Msg(fmt.Sprint(args...)) }
func (zerologAdapter) Error(args ...any) { log.Error().Msg(fmt.Sprint(args...)) }
func (zerologAdapter) Fatal(args ...any) { log.Fatal().Msg(fmt.Sprint(args...)) }
