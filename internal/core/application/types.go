package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
)

// SellOrderInfo is the read view of a sell order, carrying the ask price
// converted to the payment denom's display units alongside the raw record.
type SellOrderInfo struct {
	domain.SellOrder

	AskDenom         string
	DisplayAskAmount decimal.Decimal
}

// SellOrderRequest is a single order of a Sell batch.
type SellOrderRequest struct {
	BatchDenom        string
	Quantity          string
	AskPrice          domain.Coin
	DisableAutoRetire bool
	Expiration        *time.Time
}

// UpdateSellOrderRequest is a single item of an UpdateSellOrders batch.
// Nil fields keep the current value.
type UpdateSellOrderRequest struct {
	SellOrderId       uint64
	NewQuantity       *string
	NewAskPrice       *domain.Coin
	DisableAutoRetire *bool
	NewExpiration     *time.Time
}

// BuyOrderRequest is a single fill of a BuyDirect batch. BidPrice is the
// offered unit price; MaxFeeAmount caps the buyer fee.
type BuyOrderRequest struct {
	SellOrderId            uint64
	Quantity               string
	BidPrice               domain.Coin
	MaxFeeAmount           domain.Coin
	DisableAutoRetire      bool
	RetirementJurisdiction string
	RetirementReason       string
}
