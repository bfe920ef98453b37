// Package store provides SQLite persistence for the last selection and
// the offline cache index.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Preference keys. Each is an independently settable/removable string;
// absence means "no saved preference", never an error.
const (
	KeyReciter = "quran_reciter"
	KeyMoshaf  = "quran_moshaf"
	KeySurah   = "quran_surah"
	KeyTime    = "quran_time"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// CacheEntry is one row of the offline audio cache index.
type CacheEntry struct {
	URL       string
	Path      string
	Version   string
	Size      int64
	FetchedAt time.Time
}

// Open creates a new Store at the given database path.
// Creates tables if they don't exist. Uses WAL mode for file-based DBs.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cache_index (
		url TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		version TEXT NOT NULL,
		size INTEGER NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_version ON cache_index(version);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Get returns the stored value for key. The second return is false when
// no value is saved.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete pref %s: %w", key, err)
		}
	}
	return nil
}

// GetInt reads key as an integer; false when absent or unparseable.
func (s *Store) GetInt(key string) (int, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// SetInt stores an integer under key.
func (s *Store) SetInt(key string, n int) error {
	return s.Set(key, strconv.Itoa(n))
}

// GetFloat reads key as a float; false when absent or unparseable.
func (s *Store) GetFloat(key string) (float64, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	f, convErr := strconv.ParseFloat(raw, 64)
	if convErr != nil {
		return 0, false, nil
	}
	return f, true, nil
}

// SetFloat stores a float under key.
func (s *Store) SetFloat(key string, f float64) error {
	return s.Set(key, strconv.FormatFloat(f, 'f', -1, 64))
}

// CacheLookup returns the cache index row for url, if any.
func (s *Store) CacheLookup(url string) (CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e CacheEntry
	err := s.db.QueryRow(
		"SELECT url, path, version, size, fetched_at FROM cache_index WHERE url = ?", url,
	).Scan(&e.URL, &e.Path, &e.Version, &e.Size, &e.FetchedAt)
	if err == sql.ErrNoRows {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("cache lookup: %w", err)
	}
	return e, true, nil
}

// CachePut inserts or replaces the cache index row for e.URL.
func (s *Store) CachePut(e CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO cache_index (url, path, version, size, fetched_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			path = excluded.path, version = excluded.version,
			size = excluded.size, fetched_at = excluded.fetched_at`,
		e.URL, e.Path, e.Version, e.Size, e.FetchedAt)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// CachePurgeExcept drops index rows from cache generations other than
// version, returning how many were removed.
func (s *Store) CachePurgeExcept(version string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM cache_index WHERE version != ?", version)
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
