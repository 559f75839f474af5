package domain

import (
	"context"
)

// MarketRepository is the abstraction for any kind of database intended to
// persist markets.
type MarketRepository interface {
	// GetOrCreateMarket returns the market for the given credit type and
	// bank denom pair, creating it with a fresh id if not found.
	GetOrCreateMarket(ctx context.Context, creditTypeAbbrev, bankDenom string) (*Market, error)
	// GetMarket returns the market with the given id, or ErrMarketNotFound.
	GetMarket(ctx context.Context, id uint64) (*Market, error)
	// GetMarketByDenom returns the market with the given bank denom, or
	// ErrMarketNotFound.
	GetMarketByDenom(ctx context.Context, bankDenom string) (*Market, error)
}
