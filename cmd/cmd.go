// Package cmd defines the command-line interface for archmine.
package cmd

import (
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("since", "", "Start of the mining window in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("until", "", "End of the mining window in ISO8601 or time ago")
	rootCmd.PersistentFlags().Int("max-commits", contract.DefaultMaxCommits, "Maximum number of commits to walk")
	rootCmd.PersistentFlags().Int("min-cluster-size", contract.DefaultMinClusterSize, "Minimum commits per cluster")
	rootCmd.PersistentFlags().Float64("min-confidence", contract.DefaultMinConfidence, "Minimum decision confidence (0-1)")
	rootCmd.PersistentFlags().Bool("include-merges", false, "Include merge commits in the walk")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().Bool("use-pattern-data", false, "Cache per-commit extraction data in the configured backend")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print per-commit warnings alongside results")
	rootCmd.PersistentFlags().Bool("detail", false, "List reasons and references under each decision in text output")
	rootCmd.PersistentFlags().Bool("explain", false, "List evidence metric values under each decision in text output")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of decisions to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or markdown")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("narrator", string(schema.TemplateNarrator), "Narrative backend: template or openai")
	rootCmd.PersistentFlags().String("synthesis-timeout", "", "Per-cluster narrative synthesis timeout (e.g., '30s')")
	rootCmd.PersistentFlags().String("temporal-horizon", "", "Time gap at which temporal similarity decays to 1/e (e.g., '6h')")
	rootCmd.PersistentFlags().Float64("similarity-floor", contract.DefaultSimilarityFloor, "Minimum combined score for a commit pair to stay linked")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
