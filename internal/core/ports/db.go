package ports

import (
	"context"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

// RepoManager gives access to the marketplace repositories and to the
// transaction boundary they share.
type RepoManager interface {
	SellOrderRepository() domain.SellOrderRepository
	DenomRepository() domain.DenomRepository
	MarketRepository() domain.MarketRepository
	FeeRepository() domain.FeeRepository

	// RunTransaction runs the handler inside a single storage transaction:
	// every repository call made through the handler's context is committed
	// as one atomic unit, or discarded entirely if the handler errors.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}

// Transaction interface defines the methods to commit or discard a database
// transaction.
type Transaction interface {
	Commit() error
	Discard()
}
