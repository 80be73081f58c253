package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/ledger"
	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration for the stock trader.
type Config struct {
	Port               int
	LogLevel           string
	InitialFunds       decimal.Decimal
	Currency           string
	AllowNegativeFunds bool
	OversellPolicy     ledger.OversellPolicy
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
}

// LedgerPolicy returns the ledger rules selected by the configuration.
func (c *Config) LedgerPolicy() ledger.Policy {
	return ledger.Policy{
		AllowNegativeFunds: c.AllowNegativeFunds,
		Oversell:           c.OversellPolicy,
	}
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	initialFunds, err := getDecimal("INITIAL_FUNDS", decimal.NewFromInt(10000))
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_FUNDS: %w", err)
	}
	if initialFunds.IsNegative() {
		return nil, fmt.Errorf("invalid INITIAL_FUNDS: %s, must be >= 0", initialFunds)
	}
	if !domain.HasAtMostDecimals(initialFunds, domain.MaxPriceDecimals) {
		return nil, fmt.Errorf("invalid INITIAL_FUNDS: %s, must have at most 2 decimal places", initialFunds)
	}

	currency := getStr("CURRENCY", "USD")
	if !domain.IsKnownCurrency(currency) {
		return nil, fmt.Errorf("invalid CURRENCY: %q, must be an ISO 4217 code", currency)
	}

	allowNegative, err := getBool("ALLOW_NEGATIVE_FUNDS", true)
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOW_NEGATIVE_FUNDS: %w", err)
	}

	oversell := ledger.OversellPolicy(getStr("OVERSELL_POLICY", string(ledger.OversellSellAll)))
	if !isValidOversellPolicy(oversell) {
		return nil, fmt.Errorf("invalid OVERSELL_POLICY: %q, must be one of: sell_all, reject", oversell)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:               port,
		LogLevel:           logLevel,
		InitialFunds:       initialFunds,
		Currency:           currency,
		AllowNegativeFunds: allowNegative,
		OversellPolicy:     oversell,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
		ShutdownTimeout:    shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(v)
}

func getDecimal(key string, defaultVal decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return decimal.NewFromString(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidOversellPolicy(p ledger.OversellPolicy) bool {
	switch p {
	case ledger.OversellSellAll, ledger.OversellReject:
		return true
	}
	return false
}
