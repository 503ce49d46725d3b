package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope; every
	// repository call made with the derived context joins the same
	// transaction. An error rolls back the whole group.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
