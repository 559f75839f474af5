package domain

import (
	"fmt"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Coin pairs an arbitrary-precision amount with the bank denom it is
// expressed in.
type Coin struct {
	Denom  string
	Amount math.Int
}

func NewCoin(denom string, amount math.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Denom)
}

// Validate returns an error if the coin has an empty denom or a nil or
// negative amount.
func (c Coin) Validate() error {
	if c.Denom == "" {
		return errorsmod.Wrap(ErrInvalidInput, "coin denom must not be empty")
	}
	if c.Amount.IsNil() || c.Amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidInput, "coin amount must be non-negative, got %s", c.Amount)
	}
	return nil
}

// MulChecked multiplies two integers, failing with ErrArithmeticOverflow
// instead of wrapping when the product exceeds the supported bit length.
func MulChecked(a, b math.Int) (math.Int, error) {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.BitLen() > math.MaxBitLen {
		return math.Int{}, errorsmod.Wrapf(ErrArithmeticOverflow, "%s * %s", a, b)
	}
	return math.NewIntFromBigInt(product), nil
}

// ParseQuantity parses a decimal-string credit quantity, requiring a
// strictly positive integer.
func ParseQuantity(quantity string) (math.Int, error) {
	q, ok := math.NewIntFromString(quantity)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "quantity %q is not a valid integer", quantity)
	}
	if !q.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "quantity must be positive, got %q", quantity)
	}
	return q, nil
}
