package domain

import (
	"context"
)

// FeeRepository is the abstraction for any kind of database intended to
// persist the fee params singleton and the fee pool disbursement trail.
type FeeRepository interface {
	// GetFeeParams returns the current fee params, or DefaultFeeParams if
	// none were ever set.
	GetFeeParams(ctx context.Context) (FeeParams, error)
	// UpdateFeeParams replaces the singleton.
	UpdateFeeParams(ctx context.Context, params FeeParams) error
	// AddDisbursement appends a fee pool disbursement record.
	AddDisbursement(ctx context.Context, disbursement Disbursement) error
	// GetDisbursements returns all recorded disbursements.
	GetDisbursements(ctx context.Context) ([]Disbursement, error)
}
