package main

import (
	"math/big"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

var configFile = pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")

func init() {
	pflag.Parse()

	// a missing .env is fine, real env vars win over both
	if err := godotenv.Load(); err == nil {
		log.Log().Info("loaded .env")
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.SetDebug(true)
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func weiSetting(key string) (*big.Int, error) {
	v, err := domain.ParseWei(viper.GetString(key))
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// genesisFromConfig reads ledger.genesis, params left out keep their defaults
func genesisFromConfig() (factory.Genesis, error) {
	g := factory.Genesis{
		Owner:       domain.Address(viper.GetString("ledger.genesis.owner")),
		Params:      factory.DefaultParams(),
		Allocations: map[domain.Address]*big.Int{},
	}

	pfx := "ledger.genesis.params."
	if viper.IsSet(pfx + "platformFee") {
		g.Params.PlatformFee = viper.GetUint64(pfx + "platformFee")
	}
	if viper.IsSet(pfx + "maxPlatformFee") {
		g.Params.MaxPlatformFee = viper.GetUint64(pfx + "maxPlatformFee")
	}
	if viper.IsSet(pfx + "profitMargin") {
		g.Params.ProfitMargin = viper.GetUint64(pfx + "profitMargin")
	}
	var err error
	if viper.IsSet(pfx + "basePrice") {
		if g.Params.BasePrice, err = weiSetting(pfx + "basePrice"); err != nil {
			return g, err
		}
	}
	if viper.IsSet(pfx + "slope") {
		if g.Params.Slope, err = weiSetting(pfx + "slope"); err != nil {
			return g, err
		}
	}

	for addr, amount := range viper.GetStringMapString("ledger.genesis.allocations") {
		v, err := domain.ParseWei(amount)
		if err != nil {
			return g, xerrors.Errorf("allocation of %s: %w", addr, err)
		}
		g.Allocations[domain.Address(addr)] = v
	}
	return g, nil
}
