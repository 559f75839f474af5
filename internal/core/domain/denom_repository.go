package domain

import (
	"context"
)

// DenomRepository is the abstraction for any kind of database intended to
// persist the allowed payment denom registry.
type DenomRepository interface {
	// AddAllowedDenom inserts a new registry entry. Re-adding an existing
	// bank denom fails with ErrDenomAlreadyAllowed.
	AddAllowedDenom(ctx context.Context, denom *AllowedDenom) error
	// GetAllowedDenom returns the entry for the given bank denom, or
	// ErrDenomNotAllowed.
	GetAllowedDenom(ctx context.Context, bankDenom string) (*AllowedDenom, error)
	// RemoveAllowedDenom removes the entry. Removing an absent denom is a
	// no-op.
	RemoveAllowedDenom(ctx context.Context, bankDenom string) error
	// GetAllowedDenoms returns up to limit entries with bank denoms strictly
	// greater than startAfter, in lexicographic order.
	GetAllowedDenoms(ctx context.Context, startAfter string, limit int) ([]AllowedDenom, error)
}
