// Package cache persists filter results keyed by source content and
// options, so unchanged files skip the rewrite entirely on repeat runs.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"pydoxy/internal/config"
	"pydoxy/internal/errors"
	"pydoxy/internal/logging"
	"pydoxy/internal/version"
)

const schema = `
CREATE TABLE IF NOT EXISTS filter_cache (
	key TEXT PRIMARY KEY,
	output BLOB NOT NULL,
	source_path TEXT NOT NULL,
	tool_version TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Store is a SQLite-backed cache of annotated output, compressed with
// zstd. Entries are invalidated implicitly: the key covers the source
// bytes, the options, and the tool version.
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int
	TotalSize int64
	Path      string
}

// Open opens or creates the cache database under dir.
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot create cache directory", err)
	}
	dbPath := filepath.Join(dir, "pydoxy.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot open cache database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.Wrap(errors.CacheUnavailable, "cannot configure cache database", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot initialize cache schema", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot create compressor", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		conn.Close()
		return nil, errors.Wrap(errors.CacheUnavailable, "cannot create decompressor", err)
	}

	logger.Debug("cache opened", map[string]interface{}{"path": dbPath})
	return &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Key derives the cache key for a source file and the options used to
// annotate it. Any change to either, or a tool upgrade, yields a new key.
func Key(source []byte, opts *config.Options) string {
	h := sha256.New()
	h.Write(source)
	fmt.Fprintf(h, "|autobrief=%t|autocode=%t|ns=%s|tab=%d|fullpath=%s|v=%s",
		opts.Autobrief, opts.Autocode, opts.TopLevelNamespace,
		opts.TabLength, opts.FullPathNamespace, version.Version)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached output for key, or ok=false on a miss.
func (s *Store) Get(key string) (string, bool, error) {
	var blob []byte
	err := s.conn.QueryRow(
		"SELECT output FROM filter_cache WHERE key = ?", key,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(errors.CacheUnavailable, "cache lookup failed", err)
	}

	out, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		// A corrupt entry is treated as a miss and dropped.
		s.logger.Warn("dropping corrupt cache entry", map[string]interface{}{"key": key})
		s.conn.Exec("DELETE FROM filter_cache WHERE key = ?", key)
		return "", false, nil
	}
	return string(out), true, nil
}

// Put stores annotated output under key.
func (s *Store) Put(key, sourcePath, output string) error {
	blob := s.encoder.EncodeAll([]byte(output), nil)
	_, err := s.conn.Exec(`
		INSERT OR REPLACE INTO filter_cache (key, output, source_path, tool_version, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, blob, sourcePath, version.Version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrap(errors.CacheUnavailable, "cache store failed", err)
	}
	return nil
}

// Stats reports entry count and compressed size on disk.
func (s *Store) Stats() (*Stats, error) {
	var entries int
	var totalSize sql.NullInt64
	err := s.conn.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(output)), 0) FROM filter_cache",
	).Scan(&entries, &totalSize)
	if err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "cache stats failed", err)
	}
	return &Stats{
		Entries:   entries,
		TotalSize: totalSize.Int64,
		Path:      s.dbPath,
	}, nil
}

// Clear removes all cache entries.
func (s *Store) Clear() error {
	if _, err := s.conn.Exec("DELETE FROM filter_cache"); err != nil {
		return errors.Wrap(errors.CacheUnavailable, "cache clear failed", err)
	}
	return nil
}

// Close releases the database connection and codec resources.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}
