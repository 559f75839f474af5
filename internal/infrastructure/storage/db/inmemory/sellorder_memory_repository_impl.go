package inmemory

import (
	"context"
	"sort"

	errorsmod "cosmossdk.io/errors"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

const sellOrderSeqKey = "sell_order_seq"

type sellOrderRepositoryImpl struct {
	storage *storage
}

func newSellOrderRepositoryImpl(storage *storage) domain.SellOrderRepository {
	return sellOrderRepositoryImpl{storage: storage}
}

func (r sellOrderRepositoryImpl) NextSellOrderId(_ context.Context) (uint64, error) {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.sequences[sellOrderSeqKey]++
	return r.storage.sequences[sellOrderSeqKey], nil
}

func (r sellOrderRepositoryImpl) AddSellOrder(
	_ context.Context, order *domain.SellOrder,
) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.orders[order.Id] = *order
	return nil
}

func (r sellOrderRepositoryImpl) GetSellOrder(
	_ context.Context, id uint64,
) (*domain.SellOrder, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	order, ok := r.storage.orders[id]
	if !ok {
		return nil, errorsmod.Wrapf(domain.ErrSellOrderNotFound, "id %d", id)
	}

	return &order, nil
}

func (r sellOrderRepositoryImpl) UpdateSellOrder(
	ctx context.Context,
	id uint64,
	updateFn func(order *domain.SellOrder) (*domain.SellOrder, error),
) error {
	currentOrder, err := r.GetSellOrder(ctx, id)
	if err != nil {
		return err
	}

	updatedOrder, err := updateFn(currentOrder)
	if err != nil {
		return err
	}

	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.orders[id] = *updatedOrder
	return nil
}

func (r sellOrderRepositoryImpl) DeleteSellOrder(_ context.Context, id uint64) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	delete(r.storage.orders, id)
	return nil
}

func (r sellOrderRepositoryImpl) GetSellOrders(
	_ context.Context, startAfter uint64, limit int,
) ([]domain.SellOrder, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	ids := make([]uint64, 0, len(r.storage.orders))
	for id := range r.storage.orders {
		if id > startAfter {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) > limit {
		ids = ids[:limit]
	}

	orders := make([]domain.SellOrder, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, r.storage.orders[id])
	}

	return orders, nil
}
