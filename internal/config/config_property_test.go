package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// validLogLevels are the accepted log level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// durationEnvKeys lists all Config fields that are parsed as time.Duration.
var durationEnvKeys = []string{
	"READ_TIMEOUT",
	"WRITE_TIMEOUT",
	"IDLE_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
}

// allEnvKeys is every config-related env var key.
var allEnvKeys = append([]string{
	"PORT", "LOG_LEVEL", "INITIAL_FUNDS", "CURRENCY",
	"ALLOW_NEGATIVE_FUNDS", "OVERSELL_POLICY",
}, durationEnvKeys...)

// unsetAllConfigEnv clears all config env vars.
func unsetAllConfigEnv() {
	for _, key := range allEnvKeys {
		os.Unsetenv(key)
	}
}

// genDurationString generates a valid Go duration string (e.g. "3s", "500ms", "2m").
func genDurationString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(t, "unit")
		val := rapid.IntRange(1, 600).Draw(t, "val")
		return fmt.Sprintf("%d%s", val, unit)
	})
}

// genFundsString generates a non-negative amount with at most 2 decimals.
func genFundsString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		cents := rapid.Int64Range(0, 1_000_000_000).Draw(t, "cents")
		return decimal.New(cents, -2).String()
	})
}

// parseDurationOrDefault parses a duration string, returning the default if empty.
func parseDurationOrDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, _ := time.ParseDuration(s)
	return d
}

func TestProperty_ValidConfigParsing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		// Empty string means "use default" (env var not set).
		portStr := rapid.OneOf(
			rapid.Just(""),
			rapid.Map(rapid.IntRange(1, 65535), func(v int) string { return fmt.Sprintf("%d", v) }),
		).Draw(t, "port")

		logLevel := rapid.OneOf(
			rapid.Just(""),
			rapid.SampledFrom(validLogLevels),
		).Draw(t, "logLevel")

		funds := rapid.OneOf(rapid.Just(""), genFundsString()).Draw(t, "funds")

		oversell := rapid.SampledFrom([]string{"", "sell_all", "reject"}).Draw(t, "oversell")

		durStrs := make(map[string]string, len(durationEnvKeys))
		for _, key := range durationEnvKeys {
			durStrs[key] = rapid.OneOf(
				rapid.Just(""),
				genDurationString(),
			).Draw(t, key)
		}

		if portStr != "" {
			os.Setenv("PORT", portStr)
		}
		if logLevel != "" {
			os.Setenv("LOG_LEVEL", logLevel)
		}
		if funds != "" {
			os.Setenv("INITIAL_FUNDS", funds)
		}
		if oversell != "" {
			os.Setenv("OVERSELL_POLICY", oversell)
		}
		for _, key := range durationEnvKeys {
			if durStrs[key] != "" {
				os.Setenv(key, durStrs[key])
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned error for valid inputs: %v", err)
		}

		expectedPort := 8080
		if portStr != "" {
			fmt.Sscanf(portStr, "%d", &expectedPort)
		}
		if cfg.Port != expectedPort {
			t.Fatalf("Port = %d, want %d", cfg.Port, expectedPort)
		}

		expectedLogLevel := "info"
		if logLevel != "" {
			expectedLogLevel = logLevel
		}
		if cfg.LogLevel != expectedLogLevel {
			t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, expectedLogLevel)
		}

		expectedFunds := decimal.NewFromInt(10000)
		if funds != "" {
			expectedFunds = decimal.RequireFromString(funds)
		}
		if !cfg.InitialFunds.Equal(expectedFunds) {
			t.Fatalf("InitialFunds = %s, want %s", cfg.InitialFunds, expectedFunds)
		}

		expectedOversell := "sell_all"
		if oversell != "" {
			expectedOversell = oversell
		}
		if string(cfg.OversellPolicy) != expectedOversell {
			t.Fatalf("OversellPolicy = %q, want %q", cfg.OversellPolicy, expectedOversell)
		}

		type durField struct {
			envKey string
			got    time.Duration
			defVal time.Duration
		}
		durFields := []durField{
			{"READ_TIMEOUT", cfg.ReadTimeout, 5 * time.Second},
			{"WRITE_TIMEOUT", cfg.WriteTimeout, 10 * time.Second},
			{"IDLE_TIMEOUT", cfg.IdleTimeout, 60 * time.Second},
			{"SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, 10 * time.Second},
		}
		for _, df := range durFields {
			expected := parseDurationOrDefault(durStrs[df.envKey], df.defVal)
			if df.got != expected {
				t.Fatalf("%s = %v, want %v (env=%q)", df.envKey, df.got, expected, durStrs[df.envKey])
			}
		}
	})
}

func TestProperty_UnknownCurrencyReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		code := rapid.StringMatching(`[A-Z]{1,6}`).Filter(func(s string) bool {
			return !domain.IsKnownCurrency(s)
		}).Draw(t, "currency")

		os.Setenv("CURRENCY", code)

		_, err := Load()
		if err == nil {
			t.Fatalf("Load() should return error for unknown CURRENCY %q", code)
		}
	})
}

func TestProperty_InvalidOversellPolicyReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		policy := rapid.StringMatching(`[a-z_]{1,12}`).Filter(func(s string) bool {
			return s != "sell_all" && s != "reject"
		}).Draw(t, "policy")

		os.Setenv("OVERSELL_POLICY", policy)

		_, err := Load()
		if err == nil {
			t.Fatalf("Load() should return error for OVERSELL_POLICY %q", policy)
		}
	})
}

func TestProperty_SubCentFundsReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		mills := rapid.Int64Range(0, 1_000_000_000).Filter(func(v int64) bool {
			return v%10 != 0
		}).Draw(t, "mills")
		funds := decimal.New(mills, -3).String()
		os.Setenv("INITIAL_FUNDS", funds)

		_, err := Load()
		if err == nil {
			t.Fatalf("Load() should return error for INITIAL_FUNDS %s", funds)
		}
	})
}

func TestProperty_NegativeFundsReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		cents := rapid.Int64Range(-1_000_000_000, -1).Draw(t, "cents")
		os.Setenv("INITIAL_FUNDS", decimal.New(cents, -2).String())

		_, err := Load()
		if err == nil {
			t.Fatalf("Load() should return error for negative INITIAL_FUNDS %d cents", cents)
		}
	})
}

func TestProperty_InvalidDurationReturnsError(t *testing.T) {
	for _, key := range durationEnvKeys {
		t.Run(key, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				unsetAllConfigEnv()
				defer unsetAllConfigEnv()

				invalidDur := rapid.OneOf(
					rapid.StringMatching(`[a-zA-Z]{2,10}`),
					rapid.Just("notaduration"),
					rapid.Just("5x"),
					rapid.Just("abc123"),
				).Filter(func(s string) bool {
					if s == "" {
						return false
					}
					_, err := time.ParseDuration(s)
					return err != nil
				}).Draw(t, "invalidDuration")

				os.Setenv(key, invalidDur)

				_, err := Load()
				if err == nil {
					t.Fatalf("Load() should return error for invalid %s=%q", key, invalidDur)
				}
			})
		})
	}
}
