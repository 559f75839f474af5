package dbbadger

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/timshannon/badgerhold/v4"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

type sellOrderRepositoryImpl struct {
	store *badgerhold.Store
}

func newSellOrderRepositoryImpl(store *badgerhold.Store) domain.SellOrderRepository {
	return sellOrderRepositoryImpl{store: store}
}

func (r sellOrderRepositoryImpl) NextSellOrderId(ctx context.Context) (uint64, error) {
	return nextSeq(ctx, r.store, sellOrderSeqKey)
}

func (r sellOrderRepositoryImpl) AddSellOrder(
	ctx context.Context, order *domain.SellOrder,
) error {
	if tx := getTx(ctx); tx != nil {
		return r.store.TxInsert(tx, order.Id, order)
	}
	return r.store.Insert(order.Id, order)
}

func (r sellOrderRepositoryImpl) GetSellOrder(
	ctx context.Context, id uint64,
) (*domain.SellOrder, error) {
	var order domain.SellOrder
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &order)
	} else {
		err = r.store.Get(id, &order)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, errorsmod.Wrapf(domain.ErrSellOrderNotFound, "id %d", id)
		}
		return nil, err
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

	if tx := getTx(ctx); tx != nil {
		return r.store.TxUpdate(tx, id, updatedOrder)
	}
	return r.store.Update(id, updatedOrder)
}

func (r sellOrderRepositoryImpl) DeleteSellOrder(ctx context.Context, id uint64) error {
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxDelete(tx, id, domain.SellOrder{})
	} else {
		err = r.store.Delete(id, domain.SellOrder{})
	}
	if err == badgerhold.ErrNotFound {
		return nil
	}

	return err
}

func (r sellOrderRepositoryImpl) GetSellOrders(
	ctx context.Context, startAfter uint64, limit int,
) ([]domain.SellOrder, error) {
	query := badgerhold.Where("Id").Gt(startAfter).SortBy("Id").Limit(limit)

	var orders []domain.SellOrder
	var err error
	if tx := getTx(ctx); tx != nil {
		err = r.store.TxFind(tx, &orders, query)
	} else {
		err = r.store.Find(&orders, query)
	}
	if err != nil {
		return nil, err
	}

	return orders, nil
}
