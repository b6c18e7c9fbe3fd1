// Package cache implements the durable, local transaction cache (spec.md
// §4.3): a digest-indexed summaries table plus a per-(network, address)
// sync cursor, backed by a pure-Go SQLite driver so the wallet core never
// needs cgo. The pattern is grounded on the project's own SQLite store:
// a Config with pragma knobs, a schema/migration map, and a Store that
// owns a *sql.DB.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// Config configures the cache's SQLite connection.
type Config struct {
	Path            string
	BusyTimeout     time.Duration
	CacheSizeKB     int
	JournalMode     string
	SynchronousMode string
}

// DefaultConfig returns the cache's production pragma set: WAL journaling
// with NORMAL synchronous mode, the usual pairing for a single-writer local
// cache that can tolerate losing the last uncommitted transaction on a
// crash but not corruption.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		BusyTimeout:     5 * time.Second,
		CacheSizeKB:     4000,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
	}
}

// Store is the durable transaction cache. A Store must be opened, used for
// one logical phase of work, and closed again before the caller does any
// network I/O; spec.md §5/§9 forbid holding a cache handle across a
// suspension point.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite-backed cache at the
// configured path and brings its schema up to date.
func Open(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig("wallet-cache.db")
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.Config, "cache_open", err)
	}

	db.SetMaxOpenConns(1) // modernc.org/sqlite + WAL: single writer is simplest and sufficient here
	db.SetMaxIdleConns(1)

	if err := configurePragmas(db, config); err != nil {
		db.Close()
		return nil, walleterr.Wrap(walleterr.Config, "cache_configure", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, walleterr.Wrap(walleterr.Config, "cache_schema", err)
	}

	return &Store{db: db}, nil
}

func configurePragmas(db *sql.DB, config *Config) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", config.BusyTimeout.Milliseconds()),
		fmt.Sprintf("PRAGMA cache_size = -%d", config.CacheSizeKB),
		fmt.Sprintf("PRAGMA journal_mode = %s", config.JournalMode),
		fmt.Sprintf("PRAGMA synchronous = %s", config.SynchronousMode),
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the underlying database connection. It must be called on
// a Store returned by a successful Open; a nil Store panics.
func (s *Store) Close() error {
	return s.db.Close()
}

// KnownDigests returns every transaction digest already cached for
// (network, address), as a set (value is always true).
func (s *Store) KnownDigests(ctx context.Context, network, address string) (map[domain.Digest]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT digest FROM summaries WHERE network = ? AND address = ?`, network, address)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.Config, "cache_known_digests", err)
	}
	defer rows.Close()

	known := make(map[domain.Digest]bool)
	for rows.Next() {
		var digest string
		if err := rows.Scan(&digest); err != nil {
			return nil, walleterr.Wrap(walleterr.Config, "cache_known_digests", err)
		}
		known[domain.Digest(digest)] = true
	}
	return known, rows.Err()
}

// GetSyncEpoch returns the last epoch synced for (network, address), or 0
// if the pair has never been synced (spec.md §4.5).
func (s *Store) GetSyncEpoch(ctx context.Context, network, address string) (uint64, error) {
	var epoch uint64
	err := s.db.QueryRowContext(ctx, `SELECT epoch FROM sync_point WHERE network = ? AND address = ?`, network, address).Scan(&epoch)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, walleterr.Wrap(walleterr.Config, "cache_sync_epoch", err)
	}
	return epoch, nil
}

// List returns every cached summary for (network, address), in no
// particular order; callers that need sorted/merged output use the history
// package's merge routine instead.
func (s *Store) List(ctx context.Context, network, address string) ([]domain.TransactionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM summaries WHERE network = ? AND address = ?`, network, address)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.Config, "cache_list", err)
	}
	defer rows.Close()

	var out []domain.TransactionSummary
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, walleterr.Wrap(walleterr.Config, "cache_list", err)
		}
		var summary domain.TransactionSummary
		if err := json.Unmarshal(blob, &summary); err != nil {
			return nil, walleterr.Wrap(walleterr.Config, "cache_list", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// CommitSync persists a sync round's results in one atomic transaction: the
// sent-side and received-side summaries it fetched, plus the new sync
// cursor. Either all of it lands or none of it does, so a crash mid-sync
// never leaves the cursor ahead of the summaries it implies.
//
// A self-transfer's digest shows up in both sent and recv. history.go's
// live merge (mergeSentWins) keeps the sent side for such a collision, so
// the cache must agree: sent is written first and unconditionally, recv is
// skipped for any digest sent already claimed this round or on a prior
// round (i.e. already cached with Direction Out).
func (s *Store) CommitSync(ctx context.Context, network, address string, sent, recv []domain.TransactionSummary, currentEpoch uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO summaries (network, address, digest, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(network, address, digest) DO UPDATE SET data = excluded.data`

	sentDigests := make(map[string]bool, len(sent))
	for _, summary := range sent {
		sentDigests[string(summary.Digest)] = true
		blob, err := json.Marshal(summary)
		if err != nil {
			return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
		}
		if _, err := tx.ExecContext(ctx, upsert, network, address, string(summary.Digest), blob); err != nil {
			return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
		}
	}

	for _, summary := range recv {
		if sentDigests[string(summary.Digest)] {
			continue
		}
		alreadySentOut, err := s.digestCachedAsSentOut(ctx, tx, network, address, string(summary.Digest))
		if err != nil {
			return err
		}
		if alreadySentOut {
			continue
		}
		blob, err := json.Marshal(summary)
		if err != nil {
			return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
		}
		if _, err := tx.ExecContext(ctx, upsert, network, address, string(summary.Digest), blob); err != nil {
			return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
		}
	}

	const upsertSyncPoint = `INSERT INTO sync_point (network, address, epoch) VALUES (?, ?, ?)
		ON CONFLICT(network, address) DO UPDATE SET epoch = excluded.epoch`
	if _, err := tx.ExecContext(ctx, upsertSyncPoint, network, address, currentEpoch); err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
	}

	if err := tx.Commit(); err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
	}
	return nil
}

// digestCachedAsSentOut reports whether (network, address, digest) is
// already cached with Direction Out, from this transaction's own sent
// writes or an earlier sync round.
func (s *Store) digestCachedAsSentOut(ctx context.Context, tx *sql.Tx, network, address, digest string) (bool, error) {
	var blob []byte
	err := tx.QueryRowContext(ctx, `SELECT data FROM summaries WHERE network = ? AND address = ? AND digest = ?`, network, address, digest).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
	}
	var existing domain.TransactionSummary
	if err := json.Unmarshal(blob, &existing); err != nil {
		return false, walleterr.Wrap(walleterr.Config, "cache_commit_sync", err)
	}
	return existing.Direction != nil && *existing.Direction == domain.DirectionOut, nil
}

// Clear removes every cached summary and the sync cursor for (network,
// address), forcing the next sync to rebuild history from scratch.
func (s *Store) Clear(ctx context.Context, network, address string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_clear", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM summaries WHERE network = ? AND address = ?`, network, address); err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_clear", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_point WHERE network = ? AND address = ?`, network, address); err != nil {
		return walleterr.Wrap(walleterr.Config, "cache_clear", err)
	}
	return tx.Commit()
}
