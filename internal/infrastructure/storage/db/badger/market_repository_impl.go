package dbbadger

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/timshannon/badgerhold/v4"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

type marketRepositoryImpl struct {
	store *badgerhold.Store
}

func newMarketRepositoryImpl(store *badgerhold.Store) domain.MarketRepository {
	return marketRepositoryImpl{store: store}
}

func (r marketRepositoryImpl) GetOrCreateMarket(
	ctx context.Context, creditTypeAbbrev, bankDenom string,
) (*domain.Market, error) {
	market, err := r.GetMarketByDenom(ctx, bankDenom)
	if err == nil {
		return market, nil
	}
	if !domain.ErrMarketNotFound.Is(err) {
		return nil, err
	}

	id, err := nextSeq(ctx, r.store, marketSeqKey)
	if err != nil {
		return nil, err
	}
	market, err = domain.NewMarket(id, creditTypeAbbrev, bankDenom, 0)
	if err != nil {
		return nil, err
	}

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxInsert(tx, id, market)
	} else {
		err = r.store.Insert(id, market)
	}
	if err != nil {
		return nil, err
	}

	return market, nil
}

func (r marketRepositoryImpl) GetMarket(
	ctx context.Context, id uint64,
) (*domain.Market, error) {
	var market domain.Market
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxGet(tx, id, &market)
	} else {
		err = r.store.Get(id, &market)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, errorsmod.Wrapf(domain.ErrMarketNotFound, "id %d", id)
		}
		return nil, err
	}

	return &market, nil
}

func (r marketRepositoryImpl) GetMarketByDenom(
	ctx context.Context, bankDenom string,
) (*domain.Market, error) {
	query := badgerhold.Where("BankDenom").Eq(bankDenom).Limit(1)

	var markets []domain.Market
	var err error
	if tx := getTx(ctx); tx != nil {
		err = r.store.TxFind(tx, &markets, query)
	} else {
		err = r.store.Find(&markets, query)
	}
	if err != nil {
		return nil, err
	}
	if len(markets) == 0 {
		return nil, errorsmod.Wrap(domain.ErrMarketNotFound, bankDenom)
	}

	return &markets[0], nil
}
