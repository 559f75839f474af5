package ports

import (
	"context"
)

// BatchResolver maps a human-readable credit batch denom to the internal
// batch key referenced by sell orders. Batch issuance lives outside the
// marketplace core.
type BatchResolver interface {
	// ResolveBatch returns the batch key for the given denom, or
	// domain.ErrBatchNotFound.
	ResolveBatch(ctx context.Context, batchDenom string) (uint64, error)
}
