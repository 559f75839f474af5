package application_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/credmarket-network/credmarket-daemon/internal/core/application"
	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/auth"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/bank"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/registry"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/storage/db/inmemory"
)

const (
	adminAccount    = "admin"
	sellerAccount   = "seller"
	buyerAccount    = "buyer"
	strangerAccount = "stranger"

	bankDenom  = "uusd"
	batchDenom = "C01-001-20200101-20210101-001"
)

type testEnv struct {
	marketplaceSvc application.MarketplaceService
	querySvc       application.QueryService
	repoManager    ports.RepoManager
	bankSvc        *bank.Service
	batchRegistry  *registry.BatchRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	t.Cleanup(repoManager.Close)

	bankSvc := bank.NewService()
	batchRegistry := registry.NewBatchRegistry()
	batchRegistry.RegisterBatch(batchDenom)
	authorizer := auth.NewStaticAuthorizer(adminAccount)

	env := &testEnv{
		marketplaceSvc: application.NewMarketplaceService(
			repoManager, bankSvc, authorizer, batchRegistry,
		),
		querySvc:      application.NewQueryService(repoManager, batchRegistry),
		repoManager:   repoManager,
		bankSvc:       bankSvc,
		batchRegistry: batchRegistry,
	}

	err := env.marketplaceSvc.AddAllowedDenom(
		context.Background(), adminAccount, bankDenom, "USD", 6,
	)
	require.NoError(t, err)

	return env
}

func (e *testEnv) sell(t *testing.T, quantity, askAmount string) uint64 {
	t.Helper()

	ids, err := e.marketplaceSvc.Sell(context.Background(), sellerAccount, []application.SellOrderRequest{
		{
			BatchDenom: batchDenom,
			Quantity:   quantity,
			AskPrice:   domain.NewCoin(bankDenom, math.NewIntFromUint64(mustParseUint(t, askAmount))),
		},
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	return ids[0]
}

func mustParseUint(t *testing.T, s string) uint64 {
	t.Helper()

	v, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err)
	return v
}

func TestSell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ids, err := env.marketplaceSvc.Sell(ctx, sellerAccount, []application.SellOrderRequest{
		{BatchDenom: batchDenom, Quantity: "100", AskPrice: domain.NewCoin(bankDenom, math.NewInt(1000))},
		{BatchDenom: batchDenom, Quantity: "50", AskPrice: domain.NewCoin(bankDenom, math.NewInt(2000))},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, ids)

	order, err := env.querySvc.GetSellOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, sellerAccount, order.Seller)
	require.Equal(t, "100", order.Quantity)
	require.Equal(t, "1000", order.AskAmount)
	require.True(t, order.Maker)

	// a market was registered for the credit type / bank denom pair
	market, err := env.repoManager.MarketRepository().GetMarketByDenom(ctx, bankDenom)
	require.NoError(t, err)
	require.Equal(t, "C01", market.CreditTypeAbbrev)
	require.Equal(t, order.MarketId, market.Id)
}

func TestFailingSell(t *testing.T) {
	tests := []struct {
		name          string
		request       application.SellOrderRequest
		expectedError error
	}{
		{
			"denom_not_allowed",
			application.SellOrderRequest{
				BatchDenom: batchDenom,
				Quantity:   "100",
				AskPrice:   domain.NewCoin("uatom", math.NewInt(1000)),
			},
			domain.ErrDenomNotAllowed,
		},
		{
			"unknown_batch",
			application.SellOrderRequest{
				BatchDenom: "C99-999-20200101-20210101-999",
				Quantity:   "100",
				AskPrice:   domain.NewCoin(bankDenom, math.NewInt(1000)),
			},
			domain.ErrBatchNotFound,
		},
		{
			"invalid_quantity",
			application.SellOrderRequest{
				BatchDenom: batchDenom,
				Quantity:   "0",
				AskPrice:   domain.NewCoin(bankDenom, math.NewInt(1000)),
			},
			domain.ErrInvalidInput,
		},
		{
			"invalid_ask",
			application.SellOrderRequest{
				BatchDenom: batchDenom,
				Quantity:   "100",
				AskPrice:   domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			_, err := env.marketplaceSvc.Sell(ctx, sellerAccount, []application.SellOrderRequest{tt.request})
			require.ErrorIs(t, err, tt.expectedError)

			orders, err := env.querySvc.SellOrders(ctx, 0, 0)
			require.NoError(t, err)
			require.Empty(t, orders)
		})
	}
}

func TestSellBatchIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.marketplaceSvc.Sell(ctx, sellerAccount, []application.SellOrderRequest{
		{BatchDenom: batchDenom, Quantity: "100", AskPrice: domain.NewCoin(bankDenom, math.NewInt(1000))},
		{BatchDenom: batchDenom, Quantity: "bad", AskPrice: domain.NewCoin(bankDenom, math.NewInt(1000))},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	orders, err := env.querySvc.SellOrders(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestUpdateSellOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.sell(t, "100", "1000")

	newQuantity := "250"
	newAskPrice := domain.NewCoin(bankDenom, math.NewInt(1500))
	err := env.marketplaceSvc.UpdateSellOrders(ctx, sellerAccount, []application.UpdateSellOrderRequest{
		{SellOrderId: id, NewQuantity: &newQuantity, NewAskPrice: &newAskPrice},
	})
	require.NoError(t, err)

	order, err := env.querySvc.GetSellOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "250", order.Quantity)
	require.Equal(t, "1500", order.AskAmount)
}

func TestFailingUpdateSellOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.sell(t, "100", "1000")

	newQuantity := "250"
	err := env.marketplaceSvc.UpdateSellOrders(ctx, strangerAccount, []application.UpdateSellOrderRequest{
		{SellOrderId: id, NewQuantity: &newQuantity},
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	zeroQuantity := "0"
	err = env.marketplaceSvc.UpdateSellOrders(ctx, sellerAccount, []application.UpdateSellOrderRequest{
		{SellOrderId: id, NewQuantity: &zeroQuantity},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = env.marketplaceSvc.UpdateSellOrders(ctx, sellerAccount, []application.UpdateSellOrderRequest{
		{SellOrderId: 99, NewQuantity: &newQuantity},
	})
	require.ErrorIs(t, err, domain.ErrSellOrderNotFound)

	order, err := env.querySvc.GetSellOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "100", order.Quantity)
}

func TestCancelSellOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.sell(t, "100", "1000")

	err := env.marketplaceSvc.CancelSellOrder(ctx, strangerAccount, id)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.marketplaceSvc.CancelSellOrder(ctx, sellerAccount, id)
	require.NoError(t, err)

	_, err = env.querySvc.GetSellOrder(ctx, id)
	require.ErrorIs(t, err, domain.ErrSellOrderNotFound)

	err = env.marketplaceSvc.CancelSellOrder(ctx, sellerAccount, id)
	require.ErrorIs(t, err, domain.ErrSellOrderNotFound)
}

// Exercises the full happy path: a 100-unit order bought in two 50-unit
// fills, with a 1% buyer fee routed to the fee pool.
func TestBuyDirect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.marketplaceSvc.SetFeeParams(ctx, adminAccount, domain.FeeParams{
		BuyerPercentageFee:  "100",
		SellerPercentageFee: "0",
	})
	require.NoError(t, err)

	id := env.sell(t, "100", "1000")
	env.bankSvc.Fund(buyerAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(200000))})

	buy := func(quantity string) error {
		return env.marketplaceSvc.BuyDirect(ctx, buyerAccount, []application.BuyOrderRequest{
			{
				SellOrderId:  id,
				Quantity:     quantity,
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(10)),
			},
		})
	}

	require.NoError(t, buy("50"))

	order, err := env.querySvc.GetSellOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "50", order.Quantity)

	require.Equal(t, "50000", env.bankSvc.Balance(sellerAccount, bankDenom).String())
	require.Equal(t, "10", env.bankSvc.Balance(ports.FeePoolAccount, bankDenom).String())
	require.Equal(t, "149990", env.bankSvc.Balance(buyerAccount, bankDenom).String())

	require.NoError(t, buy("50"))

	_, err = env.querySvc.GetSellOrder(ctx, id)
	require.ErrorIs(t, err, domain.ErrSellOrderNotFound)

	require.Equal(t, "100000", env.bankSvc.Balance(sellerAccount, bankDenom).String())
	require.Equal(t, "20", env.bankSvc.Balance(ports.FeePoolAccount, bankDenom).String())
}

func TestBuyDirectSellerFee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.marketplaceSvc.SetFeeParams(ctx, adminAccount, domain.FeeParams{
		BuyerPercentageFee:  "0",
		SellerPercentageFee: "200",
	})
	require.NoError(t, err)

	id := env.sell(t, "10", "1000")
	env.bankSvc.Fund(buyerAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(10000))})

	err = env.marketplaceSvc.BuyDirect(ctx, buyerAccount, []application.BuyOrderRequest{
		{
			SellOrderId:  id,
			Quantity:     "10",
			BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
			MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
		},
	})
	require.NoError(t, err)

	// seller receives the full principal, then pays a 2% fee on the bid
	require.Equal(t, "9980", env.bankSvc.Balance(sellerAccount, bankDenom).String())
	require.Equal(t, "20", env.bankSvc.Balance(ports.FeePoolAccount, bankDenom).String())
	require.Equal(t, "0", env.bankSvc.Balance(buyerAccount, bankDenom).String())
}

func TestFailingBuyDirect(t *testing.T) {
	pastExpiration := time.Now().Add(-time.Hour)

	tests := []struct {
		name          string
		request       application.BuyOrderRequest
		expiration    *time.Time
		expectedError error
	}{
		{
			"order_not_found",
			application.BuyOrderRequest{
				SellOrderId:  99,
				Quantity:     "10",
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			nil,
			domain.ErrSellOrderNotFound,
		},
		{
			"expired_order",
			application.BuyOrderRequest{
				SellOrderId:  1,
				Quantity:     "10",
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			&pastExpiration,
			domain.ErrSellOrderExpired,
		},
		{
			"bid_below_ask",
			application.BuyOrderRequest{
				SellOrderId:  1,
				Quantity:     "10",
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(999)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			nil,
			domain.ErrInsufficientBidPrice,
		},
		{
			"oversized_fill",
			application.BuyOrderRequest{
				SellOrderId:  1,
				Quantity:     "101",
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			nil,
			domain.ErrInsufficientSellOrderQuantity,
		},
		{
			"invalid_fill_quantity",
			application.BuyOrderRequest{
				SellOrderId:  1,
				Quantity:     "0",
				BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
				MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
			},
			nil,
			domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			ids, err := env.marketplaceSvc.Sell(ctx, sellerAccount, []application.SellOrderRequest{
				{
					BatchDenom: batchDenom,
					Quantity:   "100",
					AskPrice:   domain.NewCoin(bankDenom, math.NewInt(1000)),
					Expiration: tt.expiration,
				},
			})
			require.NoError(t, err)
			env.bankSvc.Fund(buyerAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(1000000))})

			err = env.marketplaceSvc.BuyDirect(ctx, buyerAccount, []application.BuyOrderRequest{tt.request})
			require.ErrorIs(t, err, tt.expectedError)

			// no partial effects
			order, err := env.querySvc.GetSellOrder(ctx, ids[0])
			require.NoError(t, err)
			require.Equal(t, "100", order.Quantity)
			require.Equal(t, "0", env.bankSvc.Balance(sellerAccount, bankDenom).String())
			require.Equal(t, "1000000", env.bankSvc.Balance(buyerAccount, bankDenom).String())
		})
	}
}

func TestBuyDirectMaxFeeExceeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.marketplaceSvc.SetFeeParams(ctx, adminAccount, domain.FeeParams{
		BuyerPercentageFee:  "100",
		SellerPercentageFee: "0",
	})
	require.NoError(t, err)

	id := env.sell(t, "100", "1000")
	env.bankSvc.Fund(buyerAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(100000))})

	err = env.marketplaceSvc.BuyDirect(ctx, buyerAccount, []application.BuyOrderRequest{
		{
			SellOrderId:  id,
			Quantity:     "50",
			BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
			MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(9)),
		},
	})
	require.ErrorIs(t, err, domain.ErrMaxFeeExceeded)

	order, err := env.querySvc.GetSellOrder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "100", order.Quantity)
}

func TestBuyDirectBatchIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.sell(t, "100", "1000")
	second := env.sell(t, "10", "1000")
	env.bankSvc.Fund(buyerAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(1000000))})

	err := env.marketplaceSvc.BuyDirect(ctx, buyerAccount, []application.BuyOrderRequest{
		{
			SellOrderId:  first,
			Quantity:     "50",
			BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
			MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
		},
		{
			SellOrderId:  second,
			Quantity:     "11",
			BidPrice:     domain.NewCoin(bankDenom, math.NewInt(1000)),
			MaxFeeAmount: domain.NewCoin(bankDenom, math.NewInt(0)),
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientSellOrderQuantity)

	// the first fill rolled back with the failing batch
	order, err := env.querySvc.GetSellOrder(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "100", order.Quantity)

	require.Equal(t, "0", env.bankSvc.Balance(sellerAccount, bankDenom).String())
	require.Equal(t, "1000000", env.bankSvc.Balance(buyerAccount, bankDenom).String())
}

func TestAllowedDenomManagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.marketplaceSvc.AddAllowedDenom(ctx, strangerAccount, "uatom", "ATOM", 6)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.marketplaceSvc.AddAllowedDenom(ctx, adminAccount, "uatom", "ATOM", 6)
	require.NoError(t, err)

	err = env.marketplaceSvc.AddAllowedDenom(ctx, adminAccount, "uatom", "ATOM", 6)
	require.ErrorIs(t, err, domain.ErrDenomAlreadyAllowed)

	err = env.marketplaceSvc.RemoveAllowedDenom(ctx, strangerAccount, "uatom")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.marketplaceSvc.RemoveAllowedDenom(ctx, adminAccount, "uatom")
	require.NoError(t, err)

	// removal is idempotent
	err = env.marketplaceSvc.RemoveAllowedDenom(ctx, adminAccount, "uatom")
	require.NoError(t, err)

	denoms, err := env.querySvc.AllowedDenoms(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, denoms, 1)
	require.Equal(t, bankDenom, denoms[0].BankDenom)
}

func TestSetFeeParams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	params := domain.FeeParams{BuyerPercentageFee: "25", SellerPercentageFee: "50"}

	err := env.marketplaceSvc.SetFeeParams(ctx, strangerAccount, params)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.marketplaceSvc.SetFeeParams(ctx, adminAccount, domain.FeeParams{
		BuyerPercentageFee: "x", SellerPercentageFee: "0",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = env.marketplaceSvc.SetFeeParams(ctx, adminAccount, params)
	require.NoError(t, err)

	stored, err := env.repoManager.FeeRepository().GetFeeParams(ctx)
	require.NoError(t, err)
	require.Equal(t, params, stored)
}

func TestSendFromFeePoolZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// a zero-amount disbursement against an unfunded pool settles cleanly
	err := env.marketplaceSvc.SendFromFeePool(ctx, adminAccount, "treasury",
		[]domain.Coin{domain.NewCoin(bankDenom, math.NewInt(0))})
	require.NoError(t, err)
	require.Equal(t, "0", env.bankSvc.Balance("treasury", bankDenom).String())
	require.Equal(t, "0", env.bankSvc.Balance(ports.FeePoolAccount, bankDenom).String())
}

func TestSendFromFeePool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.bankSvc.Fund(ports.FeePoolAccount, []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(500))})
	coins := []domain.Coin{domain.NewCoin(bankDenom, math.NewInt(300))}

	err := env.marketplaceSvc.SendFromFeePool(ctx, strangerAccount, "treasury", coins)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	err = env.marketplaceSvc.SendFromFeePool(ctx, adminAccount, "", coins)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = env.marketplaceSvc.SendFromFeePool(ctx, adminAccount, "treasury", coins)
	require.NoError(t, err)

	require.Equal(t, "300", env.bankSvc.Balance("treasury", bankDenom).String())
	require.Equal(t, "200", env.bankSvc.Balance(ports.FeePoolAccount, bankDenom).String())

	disbursements, err := env.repoManager.FeeRepository().GetDisbursements(ctx)
	require.NoError(t, err)
	require.Len(t, disbursements, 1)
	require.Equal(t, "treasury", disbursements[0].Recipient)
	require.NotEmpty(t, disbursements[0].Id)
}
