package dbbadger

import (
	"context"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

const feeParamsKey = "fee_params"

type feeRepositoryImpl struct {
	store *badgerhold.Store
}

func newFeeRepositoryImpl(store *badgerhold.Store) domain.FeeRepository {
	return feeRepositoryImpl{store: store}
}

func (r feeRepositoryImpl) GetFeeParams(ctx context.Context) (domain.FeeParams, error) {
	var params domain.FeeParams
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxGet(tx, feeParamsKey, &params)
	} else {
		err = r.store.Get(feeParamsKey, &params)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.DefaultFeeParams(), nil
		}
		return domain.FeeParams{}, err
	}

	return params, nil
}

func (r feeRepositoryImpl) UpdateFeeParams(
	ctx context.Context, params domain.FeeParams,
) error {
	if tx := getTx(ctx); tx != nil {
		return r.store.TxUpsert(tx, feeParamsKey, &params)
	}
	return r.store.Upsert(feeParamsKey, &params)
}

func (r feeRepositoryImpl) AddDisbursement(
	ctx context.Context, disbursement domain.Disbursement,
) error {
	if tx := getTx(ctx); tx != nil {
		return r.store.TxInsert(tx, disbursement.Id, &disbursement)
	}
	return r.store.Insert(disbursement.Id, &disbursement)
}

func (r feeRepositoryImpl) GetDisbursements(
	ctx context.Context,
) ([]domain.Disbursement, error) {
	var disbursements []domain.Disbursement
	var err error

	if tx := getTx(ctx); tx != nil {
		err = r.store.TxFind(tx, &disbursements, nil)
	} else {
		err = r.store.Find(&disbursements, nil)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(disbursements, func(i, j int) bool {
		return disbursements[i].Timestamp.Before(disbursements[j].Timestamp)
	})

	return disbursements, nil
}
