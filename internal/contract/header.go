package contract

import (
	"fmt"
	"path/filepath"
)

// LogMiningHeader prints a concise, 2-line header for a mining run.
func LogMiningHeader(cfg *Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	prefix := ""
	if cfg.UseEmojis {
		prefix = "⛏️  "
	}
	fmt.Printf("%sRepo: %s (narrator: %s)\n", prefix, repoName, cfg.Narrator)

	since := "beginning"
	if !cfg.Since.IsZero() {
		since = cfg.Since.Format(DateTimeFormat)
	}
	until := "now"
	if !cfg.Until.IsZero() {
		until = cfg.Until.Format(DateTimeFormat)
	}
	rangePrefix := ""
	if cfg.UseEmojis {
		rangePrefix = "📅 "
	}
	fmt.Printf("%sRange: %s → %s (max %d commits)\n", rangePrefix, since, until, cfg.MaxCommits)
}
