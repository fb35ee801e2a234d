package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Multi-step drop
// resolutions (grouping, order splices) run under it so sibling positions
// and the mixed order never diverge.
type TransactionManager interface {
	// ExecTx executes fn within a transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
