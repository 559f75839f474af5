package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
)

// Sequence singleton keys, one per id space.
const (
	sellOrderSeqKey = "sell_order_seq"
	marketSeqKey    = "market_seq"
)

type sequence struct {
	Value uint64
}

// repoManager holds every marketplace collection in a single badgerhold
// store so that one badger transaction covers them all.
type repoManager struct {
	store *badgerhold.Store

	sellOrderRepository domain.SellOrderRepository
	denomRepository     domain.DenomRepository
	marketRepository    domain.MarketRepository
	feeRepository       domain.FeeRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// An empty dbDir opens an in-memory store instead.
func NewRepoManager(dbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, err
	}

	return &repoManager{
		store:               store,
		sellOrderRepository: newSellOrderRepositoryImpl(store),
		denomRepository:     newDenomRepositoryImpl(store),
		marketRepository:    newMarketRepositoryImpl(store),
		feeRepository:       newFeeRepositoryImpl(store),
	}, nil
}

func (d *repoManager) SellOrderRepository() domain.SellOrderRepository {
	return d.sellOrderRepository
}

func (d *repoManager) DenomRepository() domain.DenomRepository {
	return d.denomRepository
}

func (d *repoManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *repoManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

// RunTransaction implements the RepoManager interface. The badger
// transaction travels in the context; repository calls made through it
// become visible together on commit, or not at all.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (d *repoManager) Close() {
	d.store.Close()
}

// getTx returns the badger transaction carried by the context, if any.
func getTx(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value("tx").(*badger.Txn); ok {
		return tx
	}
	return nil
}

// nextSeq atomically increments the named persisted counter. The first
// issued value is 1.
func nextSeq(ctx context.Context, store *badgerhold.Store, key string) (uint64, error) {
	var seq sequence

	if tx := getTx(ctx); tx != nil {
		if err := store.TxGet(tx, key, &seq); err != nil && err != badgerhold.ErrNotFound {
			return 0, err
		}
		seq.Value++
		return seq.Value, store.TxUpsert(tx, key, &seq)
	}

	if err := store.Get(key, &seq); err != nil && err != badgerhold.ErrNotFound {
		return 0, err
	}
	seq.Value++
	return seq.Value, store.Upsert(key, &seq)
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if dbDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dbDir)
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
