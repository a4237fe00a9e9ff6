package port

import "context"

// ImportTx exposes the repositories bound to one open transaction.
type ImportTx interface {
	Debtors() DebtorRepository
	Contracts() ContractRepository
	ImportRuns() ImportRunRepository
	// Savepoint runs fn inside a savepoint. When fn fails the savepoint is
	// rolled back and the transaction stays usable.
	Savepoint(ctx context.Context, fn func() error) error
}

// Transactor runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx ImportTx) error) error
}
