package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/archmine/schema"
)

// Default values for configuration.
const (
	DefaultMaxCommits     = 1000
	DefaultMinClusterSize = 2
	DefaultMinConfidence  = 0.5
	DefaultResultLimit    = 25
	MaxResultLimit        = 1000
	DefaultPrecision      = 2

	// DefaultSimilarityFloor is the minimum combined score for an edge to
	// survive into the clustering graph. It is deliberately lower than
	// DefaultMinConfidence: the floor bounds graph size, the confidence
	// threshold filters finished decisions.
	DefaultSimilarityFloor = 0.3

	// DefaultReasonFloor is the minimum mean signal contribution for a
	// cluster reason to be emitted.
	DefaultReasonFloor = 0.1

	// DefaultTemporalHorizon is the time delta at which temporal similarity
	// has decayed to 1/e. Chosen so commits within one working session still
	// score highly.
	DefaultTemporalHorizon = 6 * time.Hour

	// DefaultSynthesisTimeout bounds a single narrative synthesis call.
	DefaultSynthesisTimeout = 30 * time.Second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// SimilarityWeights blends the three similarity signals. The weighting scheme
// is configuration, not a constant: the default is an equal blend and callers
// may override any component via the config file.
type SimilarityWeights struct {
	Temporal float64
	File     float64
	Pattern  float64
}

// Sum returns the total weight mass.
func (w SimilarityWeights) Sum() float64 {
	return w.Temporal + w.File + w.Pattern
}

// DefaultSimilarityWeights returns the equal default blend.
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{Temporal: 1, File: 1, Pattern: 1}
}

// Config holds the runtime configuration for a mining run.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string

	// Mining window and thresholds
	Since          time.Time // Zero means open-ended
	Until          time.Time // Zero means open-ended
	MaxCommits     int
	MinClusterSize int
	MinConfidence  float64
	IncludeMerges  bool
	Excludes       []string
	UsePatternData bool
	Verbose        bool
	ShowDetail     bool // List reasons and references under the table
	ShowEvidence   bool // List evidence metric values under the table

	// Similarity tunables
	Weights         SimilarityWeights
	TemporalHorizon time.Duration
	SimilarityFloor float64
	ReasonFloor     float64

	// Synthesis
	Narrator         schema.NarratorKind
	SynthesisTimeout time.Duration

	// Execution and output
	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// WeightsRawInput holds custom similarity weights from the YAML config file.
// Use float64 pointers so absent fields keep their defaults.
type WeightsRawInput struct {
	Temporal *float64 `mapstructure:"temporal"`
	File     *float64 `mapstructure:"file"`
	Pattern  *float64 `mapstructure:"pattern"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Since            string  `mapstructure:"since"`
	Until            string  `mapstructure:"until"`
	MaxCommits       int     `mapstructure:"max-commits"`
	MinClusterSize   int     `mapstructure:"min-cluster-size"`
	MinConfidence    float64 `mapstructure:"min-confidence"`
	IncludeMerges    bool    `mapstructure:"include-merges"`
	Exclude          string  `mapstructure:"exclude"`
	UsePatternData   bool    `mapstructure:"use-pattern-data"`
	Verbose          bool    `mapstructure:"verbose"`
	Detail           bool    `mapstructure:"detail"`
	Explain          bool    `mapstructure:"explain"`
	Workers          int     `mapstructure:"workers"`
	Limit            int     `mapstructure:"limit"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Narrator         string  `mapstructure:"narrator"`
	SynthesisTimeout string  `mapstructure:"synthesis-timeout"`
	TemporalHorizon  string  `mapstructure:"temporal-horizon"`
	SimilarityFloor  float64 `mapstructure:"similarity-floor"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	Emoji            string  `mapstructure:"emoji"`
	Color            string  `mapstructure:"color"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// CloneWithWindow creates a copy of the Config with a new since/until window.
func (c *Config) CloneWithWindow(since, until time.Time) *Config {
	clone := c.Clone()
	clone.Since = since
	clone.Until = until
	return clone
}

// WalkOptions derives the history traversal options from the config.
func (c *Config) WalkOptions() WalkOptions {
	return WalkOptions{
		RepoPath:      c.RepoPath,
		Since:         c.Since,
		Until:         c.Until,
		MaxCommits:    c.MaxCommits,
		IncludeMerges: c.IncludeMerges,
		ExcludePaths:  c.Excludes,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := resolveRepoPath(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processTunables(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// resolveRepoPath converts the positional repo path into an absolute path
// and verifies it is a directory.
func resolveRepoPath(cfg *Config, input *ConfigRawInput) error {
	repoPath := input.RepoPathStr
	if repoPath == "" {
		repoPath = "."
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("cannot resolve repo path %q: %w", repoPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("repo path %q is not accessible: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repo path %q is not a directory", abs)
	}
	cfg.RepoPath = abs
	return nil
}

// validateSimpleInputs checks scalar flags and copies them into the config.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Limit < 1 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MaxCommits < 1 {
		return fmt.Errorf("max-commits must be at least 1, got %d", input.MaxCommits)
	}
	cfg.MaxCommits = input.MaxCommits

	if input.MinClusterSize < 2 {
		return fmt.Errorf("min-cluster-size must be at least 2, got %d", input.MinClusterSize)
	}
	cfg.MinClusterSize = input.MinClusterSize

	if input.MinConfidence < 0 || input.MinConfidence > 1 {
		return fmt.Errorf("min-confidence must be between 0 and 1, got %g", input.MinConfidence)
	}
	cfg.MinConfidence = input.MinConfidence

	if input.Precision < 0 || input.Precision > 10 {
		return fmt.Errorf("precision must be between 0 and 10, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	output := schema.OutputMode(input.Output)
	if !output.IsValid() {
		return fmt.Errorf("invalid output mode: %s. Must be text, json, csv, parquet, or markdown", input.Output)
	}
	if output == schema.ParquetOut && input.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	narrator := schema.NarratorKind(input.Narrator)
	if !narrator.IsValid() {
		return fmt.Errorf("invalid narrator: %s. Must be template or openai", input.Narrator)
	}
	cfg.Narrator = narrator

	cfg.IncludeMerges = input.IncludeMerges
	cfg.UsePatternData = input.UsePatternData
	cfg.Verbose = input.Verbose
	cfg.ShowDetail = input.Detail
	cfg.ShowEvidence = input.Explain

	if input.Exclude != "" {
		for _, part := range strings.Split(input.Exclude, ",") {
			if p := strings.TrimSpace(part); p != "" {
				cfg.Excludes = append(cfg.Excludes, p)
			}
		}
	}

	useEmojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid emoji flag: %w", err)
	}
	cfg.UseEmojis = useEmojis

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color flag: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// processTimeWindow parses since/until inputs. Both are open-ended when omitted.
func processTimeWindow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if input.Since != "" {
		t, err := ParseTimeInput(input.Since, now)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
		cfg.Since = t
	}
	if input.Until != "" {
		t, err := ParseTimeInput(input.Until, now)
		if err != nil {
			return fmt.Errorf("invalid --until: %w", err)
		}
		cfg.Until = t
	}
	if !cfg.Since.IsZero() && !cfg.Until.IsZero() && !cfg.Since.Before(cfg.Until) {
		return fmt.Errorf("--since (%s) must be before --until (%s)",
			cfg.Since.Format(DateTimeFormat), cfg.Until.Format(DateTimeFormat))
	}
	return nil
}

// processTunables parses similarity and synthesis tunables.
func processTunables(cfg *Config, input *ConfigRawInput) error {
	weights := DefaultSimilarityWeights()
	if input.Weights.Temporal != nil {
		weights.Temporal = *input.Weights.Temporal
	}
	if input.Weights.File != nil {
		weights.File = *input.Weights.File
	}
	if input.Weights.Pattern != nil {
		weights.Pattern = *input.Weights.Pattern
	}
	if weights.Temporal < 0 || weights.File < 0 || weights.Pattern < 0 {
		return fmt.Errorf("similarity weights must be non-negative, got %+v", weights)
	}
	if weights.Sum() <= 0 {
		return fmt.Errorf("similarity weights must not all be zero")
	}
	cfg.Weights = weights

	if input.SimilarityFloor < 0 || input.SimilarityFloor > 1 {
		return fmt.Errorf("similarity-floor must be between 0 and 1, got %g", input.SimilarityFloor)
	}
	cfg.SimilarityFloor = input.SimilarityFloor
	cfg.ReasonFloor = DefaultReasonFloor

	if input.TemporalHorizon != "" {
		horizon, err := ParseLookbackDuration(input.TemporalHorizon)
		if err != nil {
			return fmt.Errorf("invalid temporal-horizon: %w", err)
		}
		cfg.TemporalHorizon = horizon
	} else {
		cfg.TemporalHorizon = DefaultTemporalHorizon
	}

	if input.SynthesisTimeout != "" {
		timeout, err := ParseLookbackDuration(input.SynthesisTimeout)
		if err != nil {
			return fmt.Errorf("invalid synthesis-timeout: %w", err)
		}
		cfg.SynthesisTimeout = timeout
	} else {
		cfg.SynthesisTimeout = DefaultSynthesisTimeout
	}

	return nil
}

// validateBackendConfigs checks pattern cache settings.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := schema.CacheBackend(input.CacheBackend)
	if !backend.IsValid() {
		return fmt.Errorf("invalid cache backend: %s. Must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	return nil
}

// ValidateDatabaseConnectionString checks that a connection string is present
// and plausible for server-backed cache databases.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql cache backend requires --cache-db-connect (user:pass@tcp(host:port)/dbname)")
		}
		if !strings.Contains(connStr, "@") {
			return fmt.Errorf("mysql connection string looks malformed: missing '@' (expected user:pass@tcp(host:port)/dbname)")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql cache backend requires --cache-db-connect (host=... user=... dbname=...)")
		}
		if !strings.Contains(connStr, "=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("postgresql connection string looks malformed (expected key=value pairs or postgres:// URL)")
		}
	case schema.SQLiteBackend, schema.NoneBackend:
		// SQLite path defaults to the home directory; none ignores it.
	}
	return nil
}

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ConfigParams returns a loggable snapshot of the mining parameters.
func (c *Config) ConfigParams() map[string]any {
	params := map[string]any{
		"repo_path":        c.RepoPath,
		"max_commits":      c.MaxCommits,
		"min_cluster_size": c.MinClusterSize,
		"min_confidence":   c.MinConfidence,
		"include_merges":   c.IncludeMerges,
		"use_pattern_data": c.UsePatternData,
		"narrator":         string(c.Narrator),
		"workers":          c.Workers,
	}
	if !c.Since.IsZero() {
		params["since"] = c.Since.Format(DateTimeFormat)
	}
	if !c.Until.IsZero() {
		params["until"] = c.Until.Format(DateTimeFormat)
	}
	return params
}
