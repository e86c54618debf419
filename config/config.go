// Package config loads process configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/papervault/internal/domain"
	"github.com/vadiminshakov/papervault/internal/vault"
)

const (
	defaultPlatform     = "binance"
	defaultPair         = "BTC_USDT"
	defaultPollInterval = time.Minute
	defaultListenAddr   = ":8080"
)

type Config struct {
	Platform          string
	Pair              domain.Pair
	Balances          vault.Config
	PollPriceInterval time.Duration
	ListenAddr        string
	StateDir          string
	WalDir            string
}

type configTmp struct {
	Platform          string        `yaml:"platform,omitempty"`
	Pair              string        `yaml:"pair"`
	InitialRisk       string        `yaml:"initial_risk_balance,omitempty"`
	InitialQuote      string        `yaml:"initial_quote_balance,omitempty"`
	ResetRisk         string        `yaml:"reset_risk_balance,omitempty"`
	ResetQuote        string        `yaml:"reset_quote_balance,omitempty"`
	PollPriceInterval string        `yaml:"poll_price_interval,omitempty"`
	ListenAddr        string        `yaml:"listen_addr,omitempty"`
	StateDir          string        `yaml:"state_dir,omitempty"`
	WalDir            string        `yaml:"wal_dir,omitempty"`
}

// Get parses flags and returns the effective configuration. When -config is
// given the YAML file wins; otherwise the CLI flags are used as-is.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", defaultPlatform, "price feed platform: binance, bybit or hyperliquid")
	pairFlag := flag.String("pair", defaultPair, "trade pair, example: BTC_USDT")
	pollInterval := flag.Duration("pollpriceinterval", defaultPollInterval, "poll market price interval")
	listenAddr := flag.String("listen", defaultListenAddr, "dashboard listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := parsePair(*pairFlag)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Platform:          strings.ToLower(*platform),
		Pair:              pair,
		Balances:          vault.DefaultConfig(),
		PollPriceInterval: *pollInterval,
		ListenAddr:        *listenAddr,
	}, nil
}

func getYaml(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fromTmp(tmp)
}

func fromTmp(tmp configTmp) (Config, error) {
	pair, err := parsePair(tmp.Pair)
	if err != nil {
		return Config{}, err
	}

	balances := vault.DefaultConfig()
	if balances.InitialRisk, err = parseBalance(tmp.InitialRisk, balances.InitialRisk); err != nil {
		return Config{}, fmt.Errorf("initial_risk_balance: %w", err)
	}
	if balances.InitialQuote, err = parseBalance(tmp.InitialQuote, balances.InitialQuote); err != nil {
		return Config{}, fmt.Errorf("initial_quote_balance: %w", err)
	}
	if balances.ResetRisk, err = parseBalance(tmp.ResetRisk, balances.ResetRisk); err != nil {
		return Config{}, fmt.Errorf("reset_risk_balance: %w", err)
	}
	if balances.ResetQuote, err = parseBalance(tmp.ResetQuote, balances.ResetQuote); err != nil {
		return Config{}, fmt.Errorf("reset_quote_balance: %w", err)
	}

	platform := strings.ToLower(tmp.Platform)
	if platform == "" {
		platform = defaultPlatform
	}

	pollInterval := defaultPollInterval
	if tmp.PollPriceInterval != "" {
		pollInterval, err = time.ParseDuration(tmp.PollPriceInterval)
		if err != nil {
			return Config{}, fmt.Errorf("poll_price_interval: %w", err)
		}
		if pollInterval <= 0 {
			return Config{}, fmt.Errorf("poll_price_interval must be positive, got %s", tmp.PollPriceInterval)
		}
	}

	listenAddr := tmp.ListenAddr
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	return Config{
		Platform:          platform,
		Pair:              pair,
		Balances:          balances,
		PollPriceInterval: pollInterval,
		ListenAddr:        listenAddr,
		StateDir:          tmp.StateDir,
		WalDir:            tmp.WalDir,
	}, nil
}

func parsePair(raw string) (domain.Pair, error) {
	if raw == "" {
		raw = defaultPair
	}
	parts := strings.Split(raw, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.Pair{}, fmt.Errorf("pair must look like BTC_USDT, got %q", raw)
	}
	return domain.Pair{From: strings.ToUpper(parts[0]), To: strings.ToUpper(parts[1])}, nil
}

func parseBalance(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q: %w", raw, err)
	}
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("balance must not be negative, got %s", raw)
	}
	return value, nil
}
