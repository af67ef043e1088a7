package cmd

import (
	"fmt"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/internal/iocache"
	"github.com/huangsam/archmine/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.CacheBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on pattern cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by mining commands. This avoids Git repo validation
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the per-commit pattern cache (improves performance)",
	Long: `Manage the pattern-data cache that speeds up repeated mining runs.

Archmine caches per-commit extraction results keyed by commit SHA, so a rerun
over the same history skips re-extraction for commits it has seen before.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Apply or roll back cache schema migrations

Examples:
  # Check cache status
  archmine cache status

  # Clear cache after history was rewritten
  archmine cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached pattern data",
	Long: `Delete all cached extraction data from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cache may be stale or corrupted
- Testing extraction without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  archmine cache clear

  # Clear MySQL cache (set connection string via env variable)
  ARCHMINE_CACHE_BACKEND=mysql ARCHMINE_CACHE_DB_CONNECT="..." archmine cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the pattern-data cache.

Displays:
- Backend type and location
- Total number of cached extractions
- Newest and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  archmine cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to initialize cache", err)
		}
		store := iocache.Manager.GetPatternStore()
		if store == nil {
			fmt.Println("Pattern caching is disabled.")
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheMigrateCmd applies cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back cache schema migrations",
	Long: `Run schema migrations for the pattern-data cache.

The target version selects the migration state:
  -1  migrate to the latest version (default)
   0  roll everything back
   N  migrate to exactly version N

Examples:
  # Migrate the cache schema to the latest version
  archmine cache migrate

  # Roll the schema back completely
  archmine cache migrate --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigratePatterns(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
		fmt.Println("Cache migration complete.")
	},
}
