package domain

import (
	"context"
)

// SellOrderRepository is the abstraction for any kind of database intended
// to persist sell orders, keyed by a monotonic sequence id.
type SellOrderRepository interface {
	// NextSellOrderId atomically increments the persisted sequence counter
	// and returns the new id. Ids start at 1, are strictly increasing and
	// never reused after deletion.
	NextSellOrderId(ctx context.Context) (uint64, error)
	// AddSellOrder inserts the order at its id.
	AddSellOrder(ctx context.Context, order *SellOrder) error
	// GetSellOrder returns the order with the given id, or
	// ErrSellOrderNotFound.
	GetSellOrder(ctx context.Context, id uint64) (*SellOrder, error)
	// UpdateSellOrder allows to commit multiple changes to the same order in
	// a transactional way. It fails with ErrSellOrderNotFound if absent.
	UpdateSellOrder(
		ctx context.Context,
		id uint64,
		updateFn func(order *SellOrder) (*SellOrder, error),
	) error
	// DeleteSellOrder removes the order. Deleting an absent id is a no-op.
	DeleteSellOrder(ctx context.Context, id uint64) error
	// GetSellOrders returns up to limit orders with ids strictly greater
	// than startAfter, in ascending id order.
	GetSellOrders(ctx context.Context, startAfter uint64, limit int) ([]SellOrder, error)
}
