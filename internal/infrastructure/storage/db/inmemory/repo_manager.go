package inmemory

import (
	"context"
	"sync"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

// storage is the shared in-memory state behind every repository of one
// RepoManager.
type storage struct {
	lock *sync.RWMutex

	sequences     map[string]uint64
	orders        map[uint64]domain.SellOrder
	denoms        map[string]domain.AllowedDenom
	markets       map[uint64]domain.Market
	feeParams     *domain.FeeParams
	disbursements []domain.Disbursement
}

// snapshot is a copy of the storage maps taken before a transaction, used
// to roll the state back when the handler fails.
type snapshot struct {
	sequences     map[string]uint64
	orders        map[uint64]domain.SellOrder
	denoms        map[string]domain.AllowedDenom
	markets       map[uint64]domain.Market
	feeParams     *domain.FeeParams
	disbursements []domain.Disbursement
}

func newStorage() *storage {
	return &storage{
		lock:      &sync.RWMutex{},
		sequences: map[string]uint64{},
		orders:    map[uint64]domain.SellOrder{},
		denoms:    map[string]domain.AllowedDenom{},
		markets:   map[uint64]domain.Market{},
	}
}

func (s *storage) takeSnapshot() *snapshot {
	sequences := make(map[string]uint64, len(s.sequences))
	for k, v := range s.sequences {
		sequences[k] = v
	}
	orders := make(map[uint64]domain.SellOrder, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	denoms := make(map[string]domain.AllowedDenom, len(s.denoms))
	for k, v := range s.denoms {
		denoms[k] = v
	}
	markets := make(map[uint64]domain.Market, len(s.markets))
	for k, v := range s.markets {
		markets[k] = v
	}
	var feeParams *domain.FeeParams
	if s.feeParams != nil {
		params := *s.feeParams
		feeParams = &params
	}
	disbursements := make([]domain.Disbursement, len(s.disbursements))
	copy(disbursements, s.disbursements)

	return &snapshot{
		sequences:     sequences,
		orders:        orders,
		denoms:        denoms,
		markets:       markets,
		feeParams:     feeParams,
		disbursements: disbursements,
	}
}

func (s *storage) restore(snap *snapshot) {
	s.sequences = snap.sequences
	s.orders = snap.orders
	s.denoms = snap.denoms
	s.markets = snap.markets
	s.feeParams = snap.feeParams
	s.disbursements = snap.disbursements
}

// RepoManager is an in-memory implementation of ports.RepoManager, useful
// for tests and ephemeral deployments.
type RepoManager struct {
	storage *storage
	txLock  *sync.Mutex

	sellOrderRepository domain.SellOrderRepository
	denomRepository     domain.DenomRepository
	marketRepository    domain.MarketRepository
	feeRepository       domain.FeeRepository
}

func NewRepoManager() ports.RepoManager {
	storage := newStorage()

	return &RepoManager{
		storage:             storage,
		txLock:              &sync.Mutex{},
		sellOrderRepository: newSellOrderRepositoryImpl(storage),
		denomRepository:     newDenomRepositoryImpl(storage),
		marketRepository:    newMarketRepositoryImpl(storage),
		feeRepository:       newFeeRepositoryImpl(storage),
	}
}

func (d *RepoManager) SellOrderRepository() domain.SellOrderRepository {
	return d.sellOrderRepository
}

func (d *RepoManager) DenomRepository() domain.DenomRepository {
	return d.denomRepository
}

func (d *RepoManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *RepoManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

// RunTransaction implements the RepoManager interface. A snapshot of the
// whole state is taken upfront and restored if the handler errors, giving
// the same all-or-nothing semantics as the badger implementation.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.txLock.Lock()
	defer d.txLock.Unlock()

	var snap *snapshot
	if !readOnly {
		d.storage.lock.RLock()
		snap = d.storage.takeSnapshot()
		d.storage.lock.RUnlock()
	}

	res, err := handler(ctx)
	if err != nil {
		if !readOnly {
			d.storage.lock.Lock()
			d.storage.restore(snap)
			d.storage.lock.Unlock()
		}
		return nil, err
	}

	return res, nil
}

func (d *RepoManager) Close() {}
