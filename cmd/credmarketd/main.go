package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/credmarket-network/credmarket-daemon/internal/config"
	"github.com/credmarket-network/credmarket-daemon/internal/core/application"
	"github.com/credmarket-network/credmarket-daemon/internal/core/domain"
	"github.com/credmarket-network/credmarket-daemon/internal/core/ports"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/auth"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/bank"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/registry"
	dbbadger "github.com/credmarket-network/credmarket-daemon/internal/infrastructure/storage/db/badger"
	"github.com/credmarket-network/credmarket-daemon/internal/infrastructure/storage/db/inmemory"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := openRepoManager()
	if err != nil {
		log.WithError(err).Fatal("opening datastore")
	}
	defer repoManager.Close()

	if err := seedFeeParams(repoManager); err != nil {
		log.WithError(err).Fatal("seeding fee params")
	}

	authorizer := auth.NewStaticAuthorizer(config.GetString(config.AdminAccountKey))
	bankSvc := bank.NewService()
	batchRegistry := registry.NewBatchRegistry()

	marketplaceSvc := application.NewMarketplaceService(
		repoManager, bankSvc, authorizer, batchRegistry,
	)
	querySvc := application.NewQueryService(repoManager, batchRegistry)

	if err := seedAllowedDenoms(marketplaceSvc); err != nil {
		log.WithError(err).Fatal("seeding allowed denoms")
	}

	denoms, err := querySvc.AllowedDenoms(context.Background(), "", domain.MaxPageLimit)
	if err != nil {
		log.WithError(err).Fatal("reading allowed denoms")
	}

	log.WithField("allowed_denoms", len(denoms)).Info("marketplace daemon is ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
}

func openRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DbTypeKey) == "inmemory" {
		return inmemory.NewRepoManager(), nil
	}

	dbDir := config.GetDbDir()
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return nil, err
	}
	return dbbadger.NewRepoManager(dbDir, nil)
}

// seedAllowedDenoms registers the payment denoms listed in the config, each
// formatted as bankDenom:displayDenom:exponent. Denoms registered on an
// earlier run are skipped.
func seedAllowedDenoms(svc application.MarketplaceService) error {
	admin := config.GetString(config.AdminAccountKey)

	for _, entry := range config.GetStringSlice(config.AllowedDenomsKey) {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return fmt.Errorf("malformed allowed denom entry %q", entry)
		}
		exponent, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return fmt.Errorf("malformed allowed denom entry %q: %w", entry, err)
		}

		err = svc.AddAllowedDenom(
			context.Background(), admin, parts[0], parts[1], uint32(exponent),
		)
		if err != nil && !domain.ErrDenomAlreadyAllowed.Is(err) {
			return err
		}
	}

	return nil
}

// seedFeeParams persists the configured fee rates the first time the daemon
// starts with an empty store.
func seedFeeParams(repoManager ports.RepoManager) error {
	ctx := context.Background()

	current, err := repoManager.FeeRepository().GetFeeParams(ctx)
	if err != nil {
		return err
	}
	if current != domain.DefaultFeeParams() {
		return nil
	}

	params := domain.FeeParams{
		BuyerPercentageFee:  config.GetString(config.BuyerFeeKey),
		SellerPercentageFee: config.GetString(config.SellerFeeKey),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	_, err = repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, repoManager.FeeRepository().UpdateFeeParams(ctx, params)
		},
	)
	return err
}
