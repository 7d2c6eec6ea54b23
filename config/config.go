package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/aldernet/warden/common"
)

// Config carries the settings every command reads. All fields have
// working defaults so a fresh install runs without a config file.
type Config struct {
	Network string `mapstructure:"network"`

	WhitelistPath string `mapstructure:"whitelist_path"`
	KeystorePath  string `mapstructure:"keystore_path"`

	TxType     string  `mapstructure:"tx_type"`
	GasTipGwei float64 `mapstructure:"gas_tip_gwei"`

	V3FeeTier            uint64 `mapstructure:"v3_fee_tier"`
	LiquiditySlippageBps uint64 `mapstructure:"liquidity_slippage_bps"`
	DeadlineSeconds      uint64 `mapstructure:"deadline_seconds"`
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// Dir is the app's home directory, created on demand.
func Dir() string {
	dir := filepath.Join(homeDir(), ".warden")
	os.MkdirAll(dir, 0700)
	return dir
}

// Load reads config from ~/.warden/config.yaml if present, with env vars
// prefixed WARDEN_ overriding file values and defaults filling the rest.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("network", "mainnet")
	v.SetDefault("whitelist_path", filepath.Join(Dir(), "whitelist.json"))
	v.SetDefault("keystore_path", "")
	v.SetDefault("tx_type", common.TxTypeDynamicFee)
	v.SetDefault("gas_tip_gwei", 0.0)
	v.SetDefault("v3_fee_tier", 3000)
	v.SetDefault("liquidity_slippage_bps", 500)
	v.SetDefault("deadline_seconds", 3600)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	v.SetEnvPrefix("WARDEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("couldn't read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("couldn't decode config: %w", err)
	}
	if cfg.TxType != common.TxTypeLegacy && cfg.TxType != common.TxTypeDynamicFee {
		return nil, fmt.Errorf("tx_type must be %q or %q, got %q", common.TxTypeLegacy, common.TxTypeDynamicFee, cfg.TxType)
	}
	if cfg.LiquiditySlippageBps > 10000 {
		return nil, fmt.Errorf("liquidity_slippage_bps must be at most 10000, got %d", cfg.LiquiditySlippageBps)
	}
	return cfg, nil
}
