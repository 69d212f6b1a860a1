package usecase

import (
	"context"
	"errors"

	"github.com/ragner01/microjobs-marketplace/internal/gateway"
)

var errNoTransaction = errors.New("unit of work handle missing from context")

// txObject returns the handle injected by gateway.TransactionManager.Run.
func txObject(ctx context.Context) (gateway.TransactionObject, error) {
	obj := ctx.Value(gateway.TransactionKey)
	if obj == nil {
		return nil, errNoTransaction
	}
	return obj, nil
}
