package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager wraps a function in a single relational transaction.
// Every mutation sequence in the services runs through ExecTx so partial
// writes are never observably committed.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
