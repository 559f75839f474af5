package inmemory

import (
	"context"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

type feeRepositoryImpl struct {
	storage *storage
}

func newFeeRepositoryImpl(storage *storage) domain.FeeRepository {
	return feeRepositoryImpl{storage: storage}
}

func (r feeRepositoryImpl) GetFeeParams(_ context.Context) (domain.FeeParams, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	if r.storage.feeParams == nil {
		return domain.DefaultFeeParams(), nil
	}

	return *r.storage.feeParams, nil
}

func (r feeRepositoryImpl) UpdateFeeParams(
	_ context.Context, params domain.FeeParams,
) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.feeParams = &params
	return nil
}

func (r feeRepositoryImpl) AddDisbursement(
	_ context.Context, disbursement domain.Disbursement,
) error {
	r.storage.lock.Lock()
	defer r.storage.lock.Unlock()

	r.storage.disbursements = append(r.storage.disbursements, disbursement)
	return nil
}

func (r feeRepositoryImpl) GetDisbursements(
	_ context.Context,
) ([]domain.Disbursement, error) {
	r.storage.lock.RLock()
	defer r.storage.lock.RUnlock()

	disbursements := make([]domain.Disbursement, len(r.storage.disbursements))
	copy(disbursements, r.storage.disbursements)

	return disbursements, nil
}
