// Package sqlite provides a SQLite-backed profile name cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/savegraft/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/savegraft/internal/profiles/storage"
	"github.com/louisbranch/savegraft/internal/profiles/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists display names in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite name cache, creating its directory if needed, and
// applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetName returns the cached name for playerID.
func (s *Store) GetName(ctx context.Context, playerID string) (storage.CachedName, error) {
	if err := ctx.Err(); err != nil {
		return storage.CachedName{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CachedName{}, fmt.Errorf("storage is not configured")
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return storage.CachedName{}, fmt.Errorf("player id is required")
	}

	var (
		name      string
		fetchedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT name, fetched_at FROM player_names WHERE player_id = ?`,
		playerID,
	).Scan(&name, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CachedName{}, storage.ErrNotFound
		}
		return storage.CachedName{}, fmt.Errorf("get player name: %w", err)
	}
	return storage.CachedName{PlayerID: playerID, Name: name, FetchedAt: fromMillis(fetchedAt)}, nil
}

// PutName inserts or refreshes one cached name.
func (s *Store) PutName(ctx context.Context, cached storage.CachedName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	playerID := strings.TrimSpace(cached.PlayerID)
	name := strings.TrimSpace(cached.Name)
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if name == "" {
		return fmt.Errorf("name is required")
	}
	fetchedAt := cached.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO player_names (player_id, name, fetched_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
		   name = excluded.name,
		   fetched_at = excluded.fetched_at`,
		playerID,
		name,
		toMillis(fetchedAt),
	)
	if err != nil {
		return fmt.Errorf("put player name: %w", err)
	}
	return nil
}

var _ storage.NameStore = (*Store)(nil)
