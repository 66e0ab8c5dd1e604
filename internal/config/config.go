// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - New builds a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Seed is the master seed all stochastic draws derive from. Zero
	// seeds from the clock at startup.
	Seed int64 `koanf:"seed"`

	// WorkerCount sets the number of fixture-simulation workers.
	WorkerCount int `koanf:"worker_count"`

	// FixtureQueueSize bounds the in-memory fixture-job queue.
	FixtureQueueSize int `koanf:"fixture_queue_size"`

	// Rounds is the number of round-robin cycles per season.
	Rounds int `koanf:"rounds"`

	// DaysPerMatchday advances the logical calendar per played matchday.
	DaysPerMatchday int64 `koanf:"days_per_matchday"`

	// MinRoster is the registration roster-size floor.
	MinRoster int `koanf:"min_roster"`

	// BidWindowDays is the default auction window length.
	BidWindowDays int64 `koanf:"bid_window_days"`

	// FeeBurnShare, FeeTreasuryShare and FeeSellerShare split a resolved
	// transfer fee. They must sum to 1.
	FeeBurnShare     float64 `koanf:"fee_burn_share"`
	FeeTreasuryShare float64 `koanf:"fee_treasury_share"`
	FeeSellerShare   float64 `koanf:"fee_seller_share"`

	// WinBonus, DrawBonus and TitleBonus are payouts before the division
	// multiplier.
	WinBonus   int64 `koanf:"win_bonus"`
	DrawBonus  int64 `koanf:"draw_bonus"`
	TitleBonus int64 `koanf:"title_bonus"`

	// MaxScorersLimit caps GET /scorers?limit.
	MaxScorersLimit int `koanf:"max_scorers_limit"`

	// PostgresURL enables the durable snapshot store when non-empty;
	// otherwise state lives in memory.
	PostgresURL string `koanf:"postgres_url"`
}

// New creates a Config with runtime defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		WorkerCount:      runtime.NumCPU(),
		FixtureQueueSize: 1024,
		Rounds:           2,
		DaysPerMatchday:  7,
		MinRoster:        11,
		BidWindowDays:    7,
		FeeBurnShare:     0.05,
		FeeTreasuryShare: 0.15,
		FeeSellerShare:   0.80,
		WinBonus:         50_000,
		DrawBonus:        20_000,
		TitleBonus:       2_000_000,
		MaxScorersLimit:  100,
	}
}
