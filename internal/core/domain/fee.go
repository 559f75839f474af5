package domain

import (
	"math/big"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// FeeBasisPointDivisor fixes the fee rate scale: rates are expressed in
// basis points, ie. a rate of "25" charges 0.25% of the price.
const FeeBasisPointDivisor = 10000

// FeeParams is the singleton fee configuration, mutated only through the
// admin-gated SetFeeParams operation.
type FeeParams struct {
	// BuyerPercentageFee is the basis-point rate charged on top of the bid
	// price, as a decimal string.
	BuyerPercentageFee string
	// SellerPercentageFee is the basis-point rate deducted from the seller
	// proceeds, as a decimal string.
	SellerPercentageFee string
}

// DefaultFeeParams returns zero-rate params, the value in effect until an
// administrator sets one.
func DefaultFeeParams() FeeParams {
	return FeeParams{BuyerPercentageFee: "0", SellerPercentageFee: "0"}
}

func (f FeeParams) Validate() error {
	if _, err := parseFeeRate(f.BuyerPercentageFee); err != nil {
		return err
	}
	_, err := parseFeeRate(f.SellerPercentageFee)
	return err
}

// Disbursement is the audit record of an administrative transfer out of the
// fee pool.
type Disbursement struct {
	Id        string
	Recipient string
	Coins     []Coin
	Timestamp time.Time
}

// CalculateFee charges the given basis-point rate on a price:
// fee = amount * rate / FeeBasisPointDivisor. The multiplication happens
// before the division to minimize truncation loss, and fails with
// ErrArithmeticOverflow rather than wrapping.
func CalculateFee(price Coin, rate string) (Coin, error) {
	r, err := parseFeeRate(rate)
	if err != nil {
		return Coin{}, err
	}

	product := new(big.Int).Mul(price.Amount.BigInt(), r.BigInt())
	if product.BitLen() > math.MaxBitLen {
		return Coin{}, errorsmod.Wrapf(ErrArithmeticOverflow, "fee on %s at rate %s", price, rate)
	}
	fee := product.Quo(product, big.NewInt(FeeBasisPointDivisor))

	return NewCoin(price.Denom, math.NewIntFromBigInt(fee)), nil
}

func parseFeeRate(rate string) (math.Int, error) {
	r, ok := math.NewIntFromString(rate)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "fee rate %q is not a valid integer", rate)
	}
	if r.IsNegative() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "fee rate must be non-negative, got %q", rate)
	}
	return r, nil
}
