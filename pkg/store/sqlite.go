package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence.
// Suitable for single-instance deployments where counters, cached responses,
// and the usage ledger must survive restarts without an external Redis.
//
// SQLite has no native key expiry, so TTLs are emulated with an expires_at
// column: expired rows are invisible to reads and pruned by Sweep.
// The store uses a write-ahead log (WAL) with periodic checkpointing.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	expireStmt *sql.Stmt
	deleteStmt *sql.Stmt
	sweepStmt  *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a new SQLite store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a new SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go s.checkpointLoop()

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT NOT NULL PRIMARY KEY,
		value BLOB NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expires_at ON kv_entries(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT value, expires_at FROM kv_entries WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.setStmt, err = s.db.Prepare(`
		INSERT INTO kv_entries (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare set statement: %w", err)
	}

	s.expireStmt, err = s.db.Prepare(`
		UPDATE kv_entries SET expires_at = ? WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare expire statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM kv_entries WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.sweepStmt, err = s.db.Prepare(`
		DELETE FROM kv_entries WHERE expires_at > 0 AND expires_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sweep statement: %w", err)
	}

	return nil
}

// Get retrieves the value for a key, honoring emulated expiry.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		value     []byte
		expiresAt int64
	)
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load entry: %w", err)
	}

	if expiresAt > 0 && expiresAt < time.Now().UnixMilli() {
		return nil, false, nil
	}

	return value, true, nil
}

// Set stores a value under a key with the given time-to-live.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	now := time.Now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.setStmt.ExecContext(ctx, key, value, expiresAt, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	return nil
}

// Incr atomically increments the counter stored at key.
// The single-writer connection pool serializes increments.
func (s *SQLiteStore) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		value     []byte
		expiresAt int64
	)
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value, &expiresAt)

	now := time.Now()
	var n int64
	switch {
	case err == sql.ErrNoRows:
		n = 1
		expiresAt = 0
	case err != nil:
		return 0, fmt.Errorf("failed to load entry: %w", err)
	case expiresAt > 0 && expiresAt < now.UnixMilli():
		n = 1
		expiresAt = 0
	default:
		n, err = strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is not an integer: %w", key, err)
		}
		n++
	}

	_, err = s.setStmt.ExecContext(ctx, key, []byte(strconv.FormatInt(n, 10)), expiresAt, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to save entry: %w", err)
	}

	return n, nil
}

// Expire sets the time-to-live of an existing key.
func (s *SQLiteStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.expireStmt.ExecContext(ctx, expiresAt, key)
	if err != nil {
		return fmt.Errorf("failed to update expiry: %w", err)
	}

	return nil
}

// Delete removes a key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.deleteStmt.ExecContext(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return nil
}

// Sweep removes rows whose emulated TTL has passed and returns the number
// of rows pruned. Called by the scheduled retention job.
func (s *SQLiteStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.sweepStmt.ExecContext(ctx, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired entries: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(pruned), nil
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.expireStmt, s.deleteStmt, s.sweepStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}
