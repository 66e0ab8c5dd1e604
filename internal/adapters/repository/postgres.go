package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/okian/calcio/internal/domain/model"
)

// Default connection-pool sizing.
const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
)

// PostgresStore implements Store on a postgres database.
type PostgresStore struct {
	db *sql.DB
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	maxOpenConns int
	maxIdleConns int
}

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) PostgresOption {
	return func(c *postgresConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns sets the idle pool size.
func WithMaxIdleConns(n int) PostgresOption {
	return func(c *postgresConfig) {
		if n > 0 {
			c.maxIdleConns = n
		}
	}
}

// NewPostgresStore connects, configures the pool and runs migrations.
func NewPostgresStore(databaseURL string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg := &postgresConfig{
		maxOpenConns: defaultMaxOpenConns,
		maxIdleConns: defaultMaxIdleConns,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)
	db.SetMaxIdleConns(cfg.maxIdleConns)

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema when missing.
func (s *PostgresStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS season_snapshots (
			season_index INTEGER PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_events (
			id BIGSERIAL PRIMARY KEY,
			season_index INTEGER NOT NULL,
			matchday INTEGER NOT NULL,
			event_type VARCHAR(30) NOT NULL,
			squad VARCHAR(10),
			counter VARCHAR(10),
			player_id VARCHAR(64),
			amount BIGINT NOT NULL,
			detail TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_events_season ON ledger_events(season_index)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_events_type ON ledger_events(event_type)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveSnapshot upserts the snapshot under its season index.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *model.SeasonSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO season_snapshots (season_index, data, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (season_index)
		DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`,
		snap.State.Index, data)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot for one season index.
func (s *PostgresStore) LoadSnapshot(ctx context.Context, seasonIndex int) (*model.SeasonSnapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM season_snapshots WHERE season_index = $1`,
		seasonIndex).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	var snap model.SeasonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestSnapshot returns the snapshot with the highest season index.
func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*model.SeasonSnapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM season_snapshots ORDER BY season_index DESC LIMIT 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	var snap model.SeasonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// AppendLedger persists settlement-trail events in one transaction.
func (s *PostgresStore) AppendLedger(ctx context.Context, events []model.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_events
			(season_index, matchday, event_type, squad, counter, player_id, amount, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			ev.Season, ev.Matchday, string(ev.Type),
			ev.Squad, ev.Counter, ev.PlayerID, ev.Amount, ev.Detail); err != nil {
			return fmt.Errorf("failed to insert ledger event: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database pool.
func (s *PostgresStore) Close() error { return s.db.Close() }
