package registry

import (
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

// BatchRegistry is an in-memory BatchResolver mapping batch denoms to
// internal keys. Batch issuance itself happens outside the marketplace;
// this registry mirrors the batches the daemon is told about.
type BatchRegistry struct {
	lock    *sync.RWMutex
	keys    map[string]uint64
	nextKey uint64
}

func NewBatchRegistry() *BatchRegistry {
	return &BatchRegistry{
		lock: &sync.RWMutex{},
		keys: map[string]uint64{},
	}
}

var _ ports.BatchResolver = (*BatchRegistry)(nil)

// RegisterBatch assigns a key to the batch denom, returning the existing
// key when already registered.
func (r *BatchRegistry) RegisterBatch(batchDenom string) uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	if key, ok := r.keys[batchDenom]; ok {
		return key
	}

	r.nextKey++
	r.keys[batchDenom] = r.nextKey
	return r.nextKey
}

func (r *BatchRegistry) ResolveBatch(
	_ context.Context, batchDenom string,
) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	key, ok := r.keys[batchDenom]
	if !ok {
		return 0, errorsmod.Wrap(domain.ErrBatchNotFound, batchDenom)
	}

	return key, nil
}
