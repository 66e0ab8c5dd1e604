package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CALCIO_CONFIG is set
//  3. env (prefix CALCIO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CALCIO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: CALCIO_ADDR, CALCIO_WORKER_COUNT, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("CALCIO_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "calcio_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations no component could run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be positive", ErrInvalidConfig)
	}
	if c.BidWindowDays < 1 {
		return fmt.Errorf("%w: bid_window_days must be positive", ErrInvalidConfig)
	}
	sum := c.FeeBurnShare + c.FeeTreasuryShare + c.FeeSellerShare
	if c.FeeBurnShare < 0 || c.FeeTreasuryShare < 0 || c.FeeSellerShare < 0 ||
		sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("%w: fee shares must be non-negative and sum to 1", ErrInvalidConfig)
	}
	return nil
}
