package domain

import (
	errorsmod "cosmossdk.io/errors"
)

// Market pairs a credit type with a payment denom and its precision
// modifier. Sell orders reference a market through MarketId; the matching
// path itself does not consult it.
type Market struct {
	Id               uint64
	CreditTypeAbbrev string
	BankDenom        string
	// PrecisionModifier adjusts the credit type precision for price display
	// purposes. Reserved for price-denom resolution.
	PrecisionModifier uint32
}

func NewMarket(id uint64, creditTypeAbbrev, bankDenom string, precisionModifier uint32) (*Market, error) {
	if creditTypeAbbrev == "" {
		return nil, errorsmod.Wrap(ErrInvalidInput, "credit type abbreviation must not be empty")
	}
	if bankDenom == "" {
		return nil, errorsmod.Wrap(ErrInvalidInput, "bank denom must not be empty")
	}

	return &Market{
		Id:                id,
		CreditTypeAbbrev:  creditTypeAbbrev,
		BankDenom:         bankDenom,
		PrecisionModifier: precisionModifier,
	}, nil
}
