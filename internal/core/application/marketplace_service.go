package application

import (
	"context"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

// MarketplaceService exposes the mutating operations of the marketplace.
// Every operation is all-or-nothing: a batch with a failing item leaves no
// partial writes behind.
type MarketplaceService interface {
	Sell(ctx context.Context, seller string, orders []SellOrderRequest) ([]uint64, error)
	UpdateSellOrders(ctx context.Context, seller string, updates []UpdateSellOrderRequest) error
	CancelSellOrder(ctx context.Context, caller string, sellOrderId uint64) error
	BuyDirect(ctx context.Context, buyer string, orders []BuyOrderRequest) error

	AddAllowedDenom(ctx context.Context, caller, bankDenom, displayDenom string, exponent uint32) error
	RemoveAllowedDenom(ctx context.Context, caller, bankDenom string) error
	SetFeeParams(ctx context.Context, caller string, params domain.FeeParams) error
	SendFromFeePool(ctx context.Context, caller, recipient string, coins []domain.Coin) error
}

type transfer struct {
	from, to string
	coins    []domain.Coin
}

type marketplaceService struct {
	repoManager   ports.RepoManager
	bankSvc       ports.BankService
	authorizer    ports.Authorizer
	batchResolver ports.BatchResolver

	now func() time.Time
}

func NewMarketplaceService(
	repoManager ports.RepoManager,
	bankSvc ports.BankService,
	authorizer ports.Authorizer,
	batchResolver ports.BatchResolver,
) MarketplaceService {
	return &marketplaceService{
		repoManager:   repoManager,
		bankSvc:       bankSvc,
		authorizer:    authorizer,
		batchResolver: batchResolver,
		now:           time.Now,
	}
}

// Sell creates one active maker order per request item, resolving the batch
// key from the batch denom and the market from the ask denom. The ask denom
// must be present in the allowed denom registry.
func (m *marketplaceService) Sell(
	ctx context.Context, seller string, orders []SellOrderRequest,
) ([]uint64, error) {
	if len(orders) == 0 {
		return nil, errorsmod.Wrap(domain.ErrInvalidInput, "at least one order is required")
	}

	res, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			ids := make([]uint64, 0, len(orders))
			for _, req := range orders {
				if err := req.AskPrice.Validate(); err != nil {
					return nil, err
				}
				if _, err := m.repoManager.DenomRepository().GetAllowedDenom(
					ctx, req.AskPrice.Denom,
				); err != nil {
					return nil, err
				}

				batchKey, err := m.batchResolver.ResolveBatch(ctx, req.BatchDenom)
				if err != nil {
					return nil, err
				}
				market, err := m.repoManager.MarketRepository().GetOrCreateMarket(
					ctx, creditTypeFromBatchDenom(req.BatchDenom), req.AskPrice.Denom,
				)
				if err != nil {
					return nil, err
				}

				id, err := m.repoManager.SellOrderRepository().NextSellOrderId(ctx)
				if err != nil {
					return nil, err
				}
				order, err := domain.NewSellOrder(
					id, seller, batchKey, market.Id,
					req.Quantity, req.AskPrice.Amount.String(),
					req.DisableAutoRetire, req.Expiration,
				)
				if err != nil {
					return nil, err
				}
				if err := m.repoManager.SellOrderRepository().AddSellOrder(ctx, order); err != nil {
					return nil, err
				}

				ids = append(ids, id)
			}
			return ids, nil
		},
	)
	if err != nil {
		return nil, err
	}

	ids := res.([]uint64)
	log.WithFields(log.Fields{
		"seller": seller,
		"ids":    ids,
	}).Debug("sell orders created")

	return ids, nil
}

// UpdateSellOrders applies each amendment to its order. Only the recorded
// seller may amend an order.
func (m *marketplaceService) UpdateSellOrders(
	ctx context.Context, seller string, updates []UpdateSellOrderRequest,
) error {
	if len(updates) == 0 {
		return errorsmod.Wrap(domain.ErrInvalidInput, "at least one update is required")
	}

	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			for _, update := range updates {
				amendment := domain.SellOrderAmendment{
					NewQuantity:       update.NewQuantity,
					NewAskPrice:       update.NewAskPrice,
					DisableAutoRetire: update.DisableAutoRetire,
					NewExpiration:     update.NewExpiration,
				}
				err := m.repoManager.SellOrderRepository().UpdateSellOrder(
					ctx, update.SellOrderId,
					func(order *domain.SellOrder) (*domain.SellOrder, error) {
						if order.Seller != seller {
							return nil, errorsmod.Wrapf(
								domain.ErrUnauthorized,
								"account %s does not own sell order %d", seller, order.Id,
							)
						}
						if err := order.Amend(amendment); err != nil {
							return nil, err
						}
						return order, nil
					},
				)
				if err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	)
	return err
}

// CancelSellOrder deletes the order unconditionally, regardless of fill
// state or expiration. Only the recorded seller may cancel.
func (m *marketplaceService) CancelSellOrder(
	ctx context.Context, caller string, sellOrderId uint64,
) error {
	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			order, err := m.repoManager.SellOrderRepository().GetSellOrder(ctx, sellOrderId)
			if err != nil {
				return nil, err
			}
			if order.Seller != caller {
				return nil, errorsmod.Wrapf(
					domain.ErrUnauthorized,
					"account %s does not own sell order %d", caller, sellOrderId,
				)
			}
			return nil, m.repoManager.SellOrderRepository().DeleteSellOrder(ctx, sellOrderId)
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"caller": caller,
		"id":     sellOrderId,
	}).Debug("sell order cancelled")

	return nil
}

// BuyDirect fills the targeted sell orders at the offered bid price. Each
// item is validated in strict order: existence, expiration, bid vs ask,
// fees vs cap, fill vs remaining quantity. The batch is atomic; settlement
// is delegated to the ledger collaborator once every item validated.
func (m *marketplaceService) BuyDirect(
	ctx context.Context, buyer string, orders []BuyOrderRequest,
) error {
	if len(orders) == 0 {
		return errorsmod.Wrap(domain.ErrInvalidInput, "at least one order is required")
	}

	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			feeParams, err := m.repoManager.FeeRepository().GetFeeParams(ctx)
			if err != nil {
				return nil, err
			}

			transfers := make([]transfer, 0, len(orders))
			for _, req := range orders {
				settlement, err := m.fillSellOrder(ctx, buyer, req, feeParams)
				if err != nil {
					return nil, err
				}
				transfers = append(transfers, settlement...)
			}

			for _, t := range transfers {
				if err := m.bankSvc.Transfer(ctx, t.from, t.to, t.coins); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"buyer":  buyer,
		"orders": len(orders),
	}).Debug("buy direct executed")

	return nil
}

func (m *marketplaceService) fillSellOrder(
	ctx context.Context, buyer string, req BuyOrderRequest, feeParams domain.FeeParams,
) ([]transfer, error) {
	orderRepo := m.repoManager.SellOrderRepository()

	order, err := orderRepo.GetSellOrder(ctx, req.SellOrderId)
	if err != nil {
		return nil, err
	}
	if order.IsExpired(m.now()) {
		return nil, errorsmod.Wrapf(domain.ErrSellOrderExpired, "sell order %d", order.Id)
	}

	if err := req.BidPrice.Validate(); err != nil {
		return nil, err
	}
	ask, err := order.AskPrice()
	if err != nil {
		return nil, err
	}
	if req.BidPrice.Amount.LT(ask) {
		return nil, errorsmod.Wrapf(
			domain.ErrInsufficientBidPrice,
			"bid %s below ask %s", req.BidPrice.Amount, ask,
		)
	}

	buyerFee, err := domain.CalculateFee(req.BidPrice, feeParams.BuyerPercentageFee)
	if err != nil {
		return nil, err
	}
	sellerFee, err := domain.CalculateFee(req.BidPrice, feeParams.SellerPercentageFee)
	if err != nil {
		return nil, err
	}
	if err := req.MaxFeeAmount.Validate(); err != nil {
		return nil, err
	}
	if buyerFee.Amount.GT(req.MaxFeeAmount.Amount) {
		return nil, errorsmod.Wrapf(
			domain.ErrMaxFeeExceeded,
			"buyer fee %s exceeds cap %s", buyerFee.Amount, req.MaxFeeAmount.Amount,
		)
	}

	fill, err := domain.ParseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := order.Fill(fill); err != nil {
		return nil, err
	}

	if order.IsDepleted() {
		if err := orderRepo.DeleteSellOrder(ctx, order.Id); err != nil {
			return nil, err
		}
	} else {
		err := orderRepo.UpdateSellOrder(
			ctx, order.Id,
			func(_ *domain.SellOrder) (*domain.SellOrder, error) {
				return order, nil
			},
		)
		if err != nil {
			return nil, err
		}
	}

	principal, err := domain.MulChecked(req.BidPrice.Amount, fill)
	if err != nil {
		return nil, err
	}

	transfers := []transfer{{
		from:  buyer,
		to:    order.Seller,
		coins: []domain.Coin{domain.NewCoin(req.BidPrice.Denom, principal)},
	}}
	if buyerFee.Amount.IsPositive() {
		transfers = append(transfers, transfer{
			from:  buyer,
			to:    ports.FeePoolAccount,
			coins: []domain.Coin{buyerFee},
		})
	}
	if sellerFee.Amount.IsPositive() {
		transfers = append(transfers, transfer{
			from:  order.Seller,
			to:    ports.FeePoolAccount,
			coins: []domain.Coin{sellerFee},
		})
	}

	return transfers, nil
}

// AddAllowedDenom registers a new payment denom. Re-adding an existing one
// is rejected.
func (m *marketplaceService) AddAllowedDenom(
	ctx context.Context, caller, bankDenom, displayDenom string, exponent uint32,
) error {
	if !m.authorizer.IsAuthorized(ctx, caller, ports.ActionAddAllowedDenom, bankDenom) {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "account %s may not add allowed denoms", caller)
	}

	denom, err := domain.NewAllowedDenom(bankDenom, displayDenom, exponent)
	if err != nil {
		return err
	}

	_, err = m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.DenomRepository().AddAllowedDenom(ctx, denom)
		},
	)
	if err != nil {
		return err
	}

	log.WithField("denom", bankDenom).Info("allowed denom added")
	return nil
}

func (m *marketplaceService) RemoveAllowedDenom(
	ctx context.Context, caller, bankDenom string,
) error {
	if !m.authorizer.IsAuthorized(ctx, caller, ports.ActionRemoveAllowedDenom, bankDenom) {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "account %s may not remove allowed denoms", caller)
	}

	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.DenomRepository().RemoveAllowedDenom(ctx, bankDenom)
		},
	)
	if err != nil {
		return err
	}

	log.WithField("denom", bankDenom).Info("allowed denom removed")
	return nil
}

func (m *marketplaceService) SetFeeParams(
	ctx context.Context, caller string, params domain.FeeParams,
) error {
	if !m.authorizer.IsAuthorized(ctx, caller, ports.ActionSetFeeParams, "") {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "account %s may not set fee params", caller)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, m.repoManager.FeeRepository().UpdateFeeParams(ctx, params)
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"buyer_fee":  params.BuyerPercentageFee,
		"seller_fee": params.SellerPercentageFee,
	}).Info("fee params updated")

	return nil
}

// SendFromFeePool disburses accumulated fees to a recipient, recording an
// audit entry before instructing the ledger transfer.
func (m *marketplaceService) SendFromFeePool(
	ctx context.Context, caller, recipient string, coins []domain.Coin,
) error {
	if !m.authorizer.IsAuthorized(ctx, caller, ports.ActionSendFromFeePool, recipient) {
		return errorsmod.Wrapf(domain.ErrUnauthorized, "account %s may not send from the fee pool", caller)
	}
	if recipient == "" {
		return errorsmod.Wrap(domain.ErrInvalidInput, "recipient must not be empty")
	}
	if len(coins) == 0 {
		return errorsmod.Wrap(domain.ErrInvalidInput, "at least one coin is required")
	}
	for _, coin := range coins {
		if err := coin.Validate(); err != nil {
			return err
		}
	}

	disbursement := domain.Disbursement{
		Id:        uuid.NewString(),
		Recipient: recipient,
		Coins:     coins,
		Timestamp: m.now(),
	}

	_, err := m.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := m.repoManager.FeeRepository().AddDisbursement(ctx, disbursement); err != nil {
				return nil, err
			}
			return nil, m.bankSvc.Transfer(ctx, ports.FeePoolAccount, recipient, coins)
		},
	)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"recipient":    recipient,
		"disbursement": disbursement.Id,
	}).Info("fee pool disbursement sent")

	return nil
}

// creditTypeFromBatchDenom extracts the credit type abbreviation, the
// leading segment of a batch denom like "C01-001-20200101-20210101-001".
func creditTypeFromBatchDenom(batchDenom string) string {
	if i := strings.Index(batchDenom, "-"); i > 0 {
		return batchDenom[:i]
	}
	return batchDenom
}
