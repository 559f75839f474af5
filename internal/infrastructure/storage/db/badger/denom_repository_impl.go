package dbbadger

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/timshannon/badgerhold/v4"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

type denomRepositoryImpl struct {
	store *badgerhold.Store
}

func newDenomRepositoryImpl(store *badgerhold.Store) domain.DenomRepository {
	return denomRepositoryImpl{store: store}
}

func (r denomRepositoryImpl) AddAllowedDenom(
	ctx context.Context, denom *domain.AllowedDenom,
) error {
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxInsert(tx, denom.BankDenom, denom)
	} else {
		err = r.store.Insert(denom.BankDenom, denom)
	}
	if err == badgerhold.ErrKeyExists {
		return errorsmod.Wrap(domain.ErrDenomAlreadyAllowed, denom.BankDenom)
	}

	return err
}

func (r denomRepositoryImpl) GetAllowedDenom(
	ctx context.Context, bankDenom string,
) (*domain.AllowedDenom, error) {
	var denom domain.AllowedDenom
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxGet(tx, bankDenom, &denom)
	} else {
		err = r.store.Get(bankDenom, &denom)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, errorsmod.Wrap(domain.ErrDenomNotAllowed, bankDenom)
		}
		return nil, err
	}

	return &denom, nil
}

func (r denomRepositoryImpl) RemoveAllowedDenom(
	ctx context.Context, bankDenom string,
) error {
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxDelete(tx, bankDenom, domain.AllowedDenom{})
	} else {
		err = r.store.Delete(bankDenom, domain.AllowedDenom{})
	}
	if err == badgerhold.ErrNotFound {
		return nil
	}

	return err
}

func (r denomRepositoryImpl) GetAllowedDenoms(
	ctx context.Context, startAfter string, limit int,
) ([]domain.AllowedDenom, error) {
	query := badgerhold.Where("BankDenom").Gt(startAfter).SortBy("BankDenom").Limit(limit)

	var denoms []domain.AllowedDenom
	var err error
	if tx := getTx(ctx); tx != nil {
		err = r.store.TxFind(tx, &denoms, query)
	} else {
		err = r.store.Find(&denoms, query)
	}
	if err != nil {
		return nil, err
	}

	return denoms, nil
}
