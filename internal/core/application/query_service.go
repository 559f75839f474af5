package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

const (
	// maxFilterScan bounds how many records a filtered query examines in a
	// single call, so a sparse filter cannot trigger an unbounded scan.
	maxFilterScan = 1000
	// filterScanChunk is the range size fetched per iteration while
	// scanning for filter matches.
	filterScanChunk = 100
)

// QueryService exposes paginated read access over the persisted sell orders
// and the allowed denom registry. Cursors are exclusive last-seen keys.
type QueryService interface {
	GetSellOrder(ctx context.Context, sellOrderId uint64) (*SellOrderInfo, error)
	SellOrders(ctx context.Context, startAfter uint64, limit int) ([]domain.SellOrder, error)
	SellOrdersByBatch(ctx context.Context, batchDenom string, startAfter uint64, limit int) ([]domain.SellOrder, error)
	SellOrdersBySeller(ctx context.Context, seller string, startAfter uint64, limit int) ([]domain.SellOrder, error)
	AllowedDenoms(ctx context.Context, startAfter string, limit int) ([]domain.AllowedDenom, error)
}

type queryService struct {
	repoManager   ports.RepoManager
	batchResolver ports.BatchResolver
}

func NewQueryService(
	repoManager ports.RepoManager, batchResolver ports.BatchResolver,
) QueryService {
	return &queryService{
		repoManager:   repoManager,
		batchResolver: batchResolver,
	}
}

// GetSellOrder returns the order together with its ask price expressed in
// the payment denom's display units.
func (q *queryService) GetSellOrder(
	ctx context.Context, sellOrderId uint64,
) (*SellOrderInfo, error) {
	order, err := q.repoManager.SellOrderRepository().GetSellOrder(ctx, sellOrderId)
	if err != nil {
		return nil, err
	}
	market, err := q.repoManager.MarketRepository().GetMarket(ctx, order.MarketId)
	if err != nil {
		return nil, err
	}
	ask, err := order.AskPrice()
	if err != nil {
		return nil, err
	}

	info := &SellOrderInfo{SellOrder: *order, AskDenom: market.BankDenom}

	denom, err := q.repoManager.DenomRepository().GetAllowedDenom(ctx, market.BankDenom)
	if err != nil {
		if !domain.ErrDenomNotAllowed.Is(err) {
			return nil, err
		}
		// the denom was removed after the order was created; existing orders
		// survive removal, so fall back to bank units
		info.DisplayAskAmount = decimal.NewFromBigInt(ask.BigInt(), 0)
		return info, nil
	}

	info.DisplayAskAmount = denom.DisplayAmount(ask)
	return info, nil
}

func (q *queryService) SellOrders(
	ctx context.Context, startAfter uint64, limit int,
) ([]domain.SellOrder, error) {
	page := domain.NewPage(limit)
	return q.repoManager.SellOrderRepository().GetSellOrders(ctx, startAfter, page.Limit)
}

// SellOrdersByBatch lists orders drawing from the given batch. The filter
// applies before truncating to the page limit.
func (q *queryService) SellOrdersByBatch(
	ctx context.Context, batchDenom string, startAfter uint64, limit int,
) ([]domain.SellOrder, error) {
	batchKey, err := q.batchResolver.ResolveBatch(ctx, batchDenom)
	if err != nil {
		return nil, err
	}

	return q.filterSellOrders(ctx, startAfter, limit, func(order domain.SellOrder) bool {
		return order.BatchKey == batchKey
	})
}

// SellOrdersBySeller lists orders owned by the given seller. The filter
// applies before truncating to the page limit.
func (q *queryService) SellOrdersBySeller(
	ctx context.Context, seller string, startAfter uint64, limit int,
) ([]domain.SellOrder, error) {
	return q.filterSellOrders(ctx, startAfter, limit, func(order domain.SellOrder) bool {
		return order.Seller == seller
	})
}

func (q *queryService) AllowedDenoms(
	ctx context.Context, startAfter string, limit int,
) ([]domain.AllowedDenom, error) {
	page := domain.NewPage(limit)
	return q.repoManager.DenomRepository().GetAllowedDenoms(ctx, startAfter, page.Limit)
}

// filterSellOrders scans forward from the cursor, keeping matches until the
// page is full, the collection is exhausted or maxFilterScan records were
// examined.
func (q *queryService) filterSellOrders(
	ctx context.Context, startAfter uint64, limit int,
	match func(order domain.SellOrder) bool,
) ([]domain.SellOrder, error) {
	page := domain.NewPage(limit)

	matches := make([]domain.SellOrder, 0, page.Limit)
	cursor := startAfter
	scanned := 0
	for len(matches) < page.Limit && scanned < maxFilterScan {
		chunk, err := q.repoManager.SellOrderRepository().GetSellOrders(ctx, cursor, filterScanChunk)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}

		for _, order := range chunk {
			scanned++
			if match(order) {
				matches = append(matches, order)
				if len(matches) == page.Limit {
					break
				}
			}
			if scanned == maxFilterScan {
				break
			}
		}
		cursor = chunk[len(chunk)-1].Id
	}

	return matches, nil
}
