package inmemory

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

const marketSeqKey = "market_seq"

type marketRepositoryImpl struct {
	storage *storage
}

func newMarketRepositoryImpl(storage *storage) domain.MarketRepository {
	return marketRepositoryImpl{storage: storage}
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

	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.sequences[marketSeqKey]++
	market, err = domain.NewMarket(
		r.storage.sequences[marketSeqKey], creditTypeAbbrev, bankDenom, 0,
	)
	if err != nil {
		return nil, err
	}

	r.storage.markets[market.Id] = *market
	return market, nil
}

func (r marketRepositoryImpl) GetMarket(
	_ context.Context, id uint64,
) (*domain.Market, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	market, ok := r.storage.markets[id]
	if !ok {
		return nil, errorsmod.Wrapf(domain.ErrMarketNotFound, "id %d", id)
	}

	return &market, nil
}

func (r marketRepositoryImpl) GetMarketByDenom(
	_ context.Context, bankDenom string,
) (*domain.Market, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	for _, market := range r.storage.markets {
		if market.BankDenom == bankDenom {
			m := market
			return &m, nil
		}
	}

	return nil, errorsmod.Wrap(domain.ErrMarketNotFound, bankDenom)
}
