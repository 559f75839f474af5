package domain

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// SellOrder is a standing offer to exchange a quantity of credits drawn from
// a batch for a minimum unit price.
type SellOrder struct {
	// Id is issued by the sell order sequence, strictly increasing and never
	// reused after deletion.
	Id uint64
	// Seller is the account that created the order and the only one allowed
	// to amend or cancel it.
	Seller string
	// BatchKey is the internal key of the credit batch the order draws from,
	// resolved from the batch denom supplied at creation.
	BatchKey uint64
	// Quantity is the remaining credit quantity encoded as a decimal string.
	// It stays strictly positive while the record exists; depletion to zero
	// deletes the record instead of storing it.
	Quantity string
	// MarketId references the market resolved from the ask price denom.
	MarketId uint64
	// AskAmount is the minimum unit price the seller accepts, as a decimal
	// string.
	AskAmount string
	// DisableAutoRetire keeps purchased credits tradable instead of retiring
	// them on settlement.
	DisableAutoRetire bool
	// Expiration is advisory metadata. An expired order is refused at match
	// time but nothing purges it automatically.
	Expiration *time.Time
	// Maker is always true for orders created via Sell.
	Maker bool
}

// SellOrderAmendment carries the optional replacements applied by
// UpdateSellOrders. Nil fields are left untouched.
type SellOrderAmendment struct {
	NewQuantity       *string
	NewAskPrice       *Coin
	DisableAutoRetire *bool
	NewExpiration     *time.Time
}

// NewSellOrder validates the quantity and ask amount and returns an active
// maker order.
func NewSellOrder(
	id uint64, seller string, batchKey, marketId uint64,
	quantity, askAmount string,
	disableAutoRetire bool, expiration *time.Time,
) (*SellOrder, error) {
	if seller == "" {
		return nil, errorsmod.Wrap(ErrInvalidInput, "seller must not be empty")
	}
	q, err := ParseQuantity(quantity)
	if err != nil {
		return nil, err
	}
	ask, ok := math.NewIntFromString(askAmount)
	if !ok || !ask.IsPositive() {
		return nil, errorsmod.Wrapf(ErrInvalidInput, "ask amount must be a positive integer, got %q", askAmount)
	}

	return &SellOrder{
		Id:                id,
		Seller:            seller,
		BatchKey:          batchKey,
		Quantity:          q.String(),
		MarketId:          marketId,
		AskAmount:         ask.String(),
		DisableAutoRetire: disableAutoRetire,
		Expiration:        expiration,
		Maker:             true,
	}, nil
}

// RemainingQuantity parses the persisted quantity string.
func (s *SellOrder) RemainingQuantity() (math.Int, error) {
	q, ok := math.NewIntFromString(s.Quantity)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "stored quantity %q is not a valid integer", s.Quantity)
	}
	return q, nil
}

// AskPrice parses the persisted ask amount string.
func (s *SellOrder) AskPrice() (math.Int, error) {
	a, ok := math.NewIntFromString(s.AskAmount)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidInput, "stored ask amount %q is not a valid integer", s.AskAmount)
	}
	return a, nil
}

// Fill subtracts the given quantity from the remaining one. A fill larger
// than the remaining quantity is rejected outright, never clamped.
func (s *SellOrder) Fill(quantity math.Int) error {
	remaining, err := s.RemainingQuantity()
	if err != nil {
		return err
	}
	if quantity.GT(remaining) {
		return errorsmod.Wrapf(
			ErrInsufficientSellOrderQuantity,
			"requested %s, remaining %s", quantity, remaining,
		)
	}

	s.Quantity = remaining.Sub(quantity).String()
	return nil
}

// IsDepleted returns true once the remaining quantity reached zero. A
// depleted order must be deleted, never persisted.
func (s *SellOrder) IsDepleted() bool {
	return s.Quantity == "0"
}

// IsExpired returns true if the order carries an expiration in the past.
func (s *SellOrder) IsExpired(now time.Time) bool {
	return s.Expiration != nil && !s.Expiration.After(now)
}

// Amend applies the non-nil fields of the amendment. A replacement quantity
// or ask price must be a positive integer.
func (s *SellOrder) Amend(amendment SellOrderAmendment) error {
	if amendment.NewQuantity != nil {
		q, err := ParseQuantity(*amendment.NewQuantity)
		if err != nil {
			return err
		}
		s.Quantity = q.String()
	}

	if amendment.NewAskPrice != nil {
		ask := amendment.NewAskPrice.Amount
		if ask.IsNil() || !ask.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidInput, "new ask amount must be positive, got %s", ask)
		}
		s.AskAmount = ask.String()
	}

	if amendment.DisableAutoRetire != nil {
		s.DisableAutoRetire = *amendment.DisableAutoRetire
	}

	if amendment.NewExpiration != nil {
		expiration := *amendment.NewExpiration
		s.Expiration = &expiration
	}

	return nil
}
