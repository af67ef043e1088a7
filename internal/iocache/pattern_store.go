// Package iocache is for caching extraction results across mining runs.
package iocache

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// patternTable is the name of the table for pattern-data caching.
const patternTable = "pattern_cache"

// PatternStoreImpl handles durable pattern-data storage using various
// database backends.
type PatternStoreImpl struct {
	db       *sql.DB
	backend  schema.CacheBackend
	location string
}

var _ contract.PatternStore = &PatternStoreImpl{} // Compile-time check

// NewPatternStore initializes and returns a new PatternStore based on the
// backend type. The schema comes from the embedded migrations, so opening a
// store always brings the table up to date.
func NewPatternStore(backend schema.CacheBackend, connStr string) (contract.PatternStore, error) {
	var db *sql.DB
	var err error
	location := connStr

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		location = dbPath
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL cache: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL cache: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled caching
		return &PatternStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s cache schema: %w", backend, err)
	}

	return &PatternStoreImpl{db: db, backend: backend, location: location}, nil
}

// Get retrieves a value by key from the store.
func (ps *PatternStoreImpl) Get(key string) ([]byte, int, int64, error) {
	// Return not found error for NoneBackend
	if ps.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		patternTable, ps.placeholder(1))
	if err := ps.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ps *PatternStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	// Skip for NoneBackend
	if ps.db == nil {
		return nil
	}
	_, err := ps.db.Exec(ps.upsertQuery(), key, value, version, timestamp)
	return err
}

// placeholder returns the parameter placeholder for the backend.
func (ps *PatternStoreImpl) placeholder(n int) string {
	if ps.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertQuery returns the UPSERT query for the backend.
func (ps *PatternStoreImpl) upsertQuery() string {
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, patternTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, patternTable)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, patternTable)
	}
}

// GetStatus returns status information about the cache store.
func (ps *PatternStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:  ps.backend,
		Location: ps.location,
	}
	if ps.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", patternTable)
	if err := ps.db.QueryRow(countQuery).Scan(&status.Entries); err != nil {
		return status, fmt.Errorf("failed to get entry count: %w", err)
	}
	if status.Entries == 0 {
		return status, nil
	}

	rangeQuery := fmt.Sprintf("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", patternTable)
	if err := ps.db.QueryRow(rangeQuery).Scan(&status.OldestUnix, &status.NewestUnix); err != nil {
		return status, fmt.Errorf("failed to get timestamp range: %w", err)
	}

	status.SizeBytes = ps.tableSize(status.Entries)
	return status, nil
}

// tableSize estimates the on-disk size of the cache table. Estimation
// failures degrade to a row-count heuristic, never an error.
func (ps *PatternStoreImpl) tableSize(entries int64) int64 {
	fallback := entries * 1000

	switch ps.backend {
	case schema.SQLiteBackend:
		var size int64
		row := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		var size int64
		row := ps.db.QueryRow("SELECT pg_total_relation_size($1)", patternTable)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.MySQLBackend:
		var size int64
		row := ps.db.QueryRow(
			"SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
			patternTable)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size
	}
	return fallback
}

// Close closes the underlying DB connection.
func (ps *PatternStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
