package domain

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "marketplace"

// Marketplace sentinel errors. Services wrap these with context via
// errorsmod.Wrapf; callers match them with errors.Is.
var (
	// ErrSellOrderNotFound ...
	ErrSellOrderNotFound = errorsmod.Register(codespace, 2, "sell order not found")
	// ErrUnauthorized is returned when the caller is not allowed to perform
	// the requested mutation.
	ErrUnauthorized = errorsmod.Register(codespace, 3, "unauthorized")
	// ErrInvalidInput is returned for malformed or non-positive numeric fields.
	ErrInvalidInput = errorsmod.Register(codespace, 4, "invalid input")
	// ErrInsufficientBidPrice is returned when the bid unit price is below
	// the order's ask amount.
	ErrInsufficientBidPrice = errorsmod.Register(codespace, 5, "insufficient bid price")
	// ErrMaxFeeExceeded is returned when the computed buyer fee exceeds the
	// buyer-supplied fee cap.
	ErrMaxFeeExceeded = errorsmod.Register(codespace, 6, "max fee exceeded")
	// ErrInsufficientSellOrderQuantity is returned when the requested fill
	// exceeds the remaining order quantity. Oversized requests are rejected
	// outright, never clamped.
	ErrInsufficientSellOrderQuantity = errorsmod.Register(codespace, 7, "insufficient sell order quantity")
	// ErrArithmeticOverflow is returned instead of wrapping when a checked
	// operation exceeds the integer bit length.
	ErrArithmeticOverflow = errorsmod.Register(codespace, 8, "arithmetic overflow")
	// ErrSellOrderExpired is returned when matching against an order whose
	// expiration has passed. Expired orders are not purged automatically.
	ErrSellOrderExpired = errorsmod.Register(codespace, 9, "sell order expired")
	// ErrDenomNotAllowed is returned when an ask price uses a bank denom
	// missing from the allowed denom registry.
	ErrDenomNotAllowed = errorsmod.Register(codespace, 10, "denom not allowed")
	// ErrDenomAlreadyAllowed is returned when re-adding an existing allowed
	// denom. The entry must be removed before it can be replaced.
	ErrDenomAlreadyAllowed = errorsmod.Register(codespace, 11, "denom already allowed")
	// ErrMarketNotFound ...
	ErrMarketNotFound = errorsmod.Register(codespace, 12, "market not found")
	// ErrBatchNotFound is returned when a batch denom cannot be resolved to
	// an internal batch key.
	ErrBatchNotFound = errorsmod.Register(codespace, 13, "credit batch not found")
)
