package config

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DbTypeKey switches the database type between those supported, either
	// "badger" or "inmemory".
	DbTypeKey = "DB_TYPE"
	// AdminAccountKey is the only account authorized for administrative
	// operations (allowed denoms, fee params, fee pool disbursements).
	AdminAccountKey = "ADMIN_ACCOUNT"
	// BuyerFeeKey is the initial buyer percentage fee in basis points, used
	// to seed the fee params if none are persisted yet.
	BuyerFeeKey = "BUYER_PERCENTAGE_FEE"
	// SellerFeeKey is the initial seller percentage fee in basis points,
	// used to seed the fee params if none are persisted yet.
	SellerFeeKey = "SELLER_PERCENTAGE_FEE"
	// AllowedDenomsKey lists payment denoms registered at startup, each
	// formatted as bankDenom:displayDenom:exponent and separated by spaces.
	AllowedDenomsKey = "ALLOWED_DENOMS"

	DbLocation = "db"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("CREDMARKET")
	vip.AutomaticEnv()

	defaultDatadir := "credmarketd-data"
	if home, err := os.UserHomeDir(); err == nil {
		defaultDatadir = filepath.Join(home, ".credmarketd")
	}

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(DbTypeKey, "badger")
	vip.SetDefault(AdminAccountKey, "")
	vip.SetDefault(BuyerFeeKey, "0")
	vip.SetDefault(SellerFeeKey, "0")
	vip.SetDefault(AllowedDenomsKey, "")
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

// GetDbDir returns the directory holding the badger database.
func GetDbDir() string {
	return filepath.Join(GetString(DatadirKey), DbLocation)
}
