package gateway

import "context"

// TransactionObject is the opaque handle of a database transaction.
type TransactionObject interface{}

// TransactionManager runs fn inside a unit of work. The handle is stored in
// the context under TransactionKey; fn returning an error rolls back.
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType avoids collisions with other context keys.
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"
