package domain

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// AllowedDenom registers a bank denom accepted as payment for sell orders,
// along with its display metadata.
type AllowedDenom struct {
	// BankDenom matches the ledger's native token identifier.
	BankDenom string
	// DisplayDenom is the human readable label.
	DisplayDenom string
	// Exponent is the decimal scaling factor between bank and display units.
	Exponent uint32
}

func NewAllowedDenom(bankDenom, displayDenom string, exponent uint32) (*AllowedDenom, error) {
	if bankDenom == "" {
		return nil, errorsmod.Wrap(ErrInvalidInput, "bank denom must not be empty")
	}
	if displayDenom == "" {
		return nil, errorsmod.Wrap(ErrInvalidInput, "display denom must not be empty")
	}

	return &AllowedDenom{
		BankDenom:    bankDenom,
		DisplayDenom: displayDenom,
		Exponent:     exponent,
	}, nil
}

// DisplayAmount converts a bank amount to display units by shifting the
// decimal point by the registered exponent.
func (d AllowedDenom) DisplayAmount(amount math.Int) decimal.Decimal {
	return decimal.NewFromBigInt(amount.BigInt(), -int32(d.Exponent))
}
