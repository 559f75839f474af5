package inmemory

import (
	"context"
	"sort"

	errorsmod "cosmossdk.io/errors"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

type denomRepositoryImpl struct {
	storage *storage
}

func newDenomRepositoryImpl(storage *storage) domain.DenomRepository {
	return denomRepositoryImpl{storage: storage}
}

func (r denomRepositoryImpl) AddAllowedDenom(
	_ context.Context, denom *domain.AllowedDenom,
) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	if _, ok := r.storage.denoms[denom.BankDenom]; ok {
		return errorsmod.Wrap(domain.ErrDenomAlreadyAllowed, denom.BankDenom)
	}

	r.storage.denoms[denom.BankDenom] = *denom
	return nil
}

func (r denomRepositoryImpl) GetAllowedDenom(
	_ context.Context, bankDenom string,
) (*domain.AllowedDenom, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	denom, ok := r.storage.denoms[bankDenom]
	if !ok {
		return nil, errorsmod.Wrap(domain.ErrDenomNotAllowed, bankDenom)
	}

	return &denom, nil
}

func (r denomRepositoryImpl) RemoveAllowedDenom(
	_ context.Context, bankDenom string,
) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	delete(r.storage.denoms, bankDenom)
	return nil
}

func (r denomRepositoryImpl) GetAllowedDenoms(
	_ context.Context, startAfter string, limit int,
) ([]domain.AllowedDenom, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	keys := make([]string, 0, len(r.storage.denoms))
	for key := range r.storage.denoms {
		if key > startAfter {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if len(keys) > limit {
		keys = keys[:limit]
	}

	denoms := make([]domain.AllowedDenom, 0, len(keys))
	for _, key := range keys {
		denoms = append(denoms, r.storage.denoms[key])
	}

	return denoms, nil
}
