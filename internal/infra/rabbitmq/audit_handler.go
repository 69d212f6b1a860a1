package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/metrics"
)

type AuditRecorder interface {
	Execute(ctx context.Context, routingKey string, event domain.TransactionEvent) error
}

// NewAuditHandler decodes escrow events and passes them to recorder.
func NewAuditHandler(recorder AuditRecorder, timeout time.Duration) HandlerFunc {
	return func(ctx context.Context, routingKey string, body []byte) error {
		var event domain.TransactionEvent
		if err := json.Unmarshal(body, &event); err != nil {
			metrics.AuditEventsProcessed.WithLabelValues("malformed").Inc()
			return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}

		saveCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := recorder.Execute(saveCtx, routingKey, event); err != nil {
			if errors.Is(err, domain.ErrValidation) {
				metrics.AuditEventsProcessed.WithLabelValues("malformed").Inc()
				return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
			}
			metrics.AuditEventsProcessed.WithLabelValues("retry").Inc()
			return err
		}
		metrics.AuditEventsProcessed.WithLabelValues("stored").Inc()
		return nil
	}
}
