package transaction

import "context"

// Tx abstracts a storage transaction so the domain and application layers do
// not depend on the concrete driver.
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager starts transactions.
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
