// Package gitwalk implements history traversal over a local Git repository
// using go-git, so the mining core never needs a git executable on PATH.
package gitwalk

import (
	"context"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/schema"
)

// Walker reads commit history through go-git.
type Walker struct{}

var _ contract.HistoryWalker = &Walker{} // Compile-time check

// NewWalker creates a new go-git backed history walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk implements the contract.HistoryWalker interface. It returns up to
// MaxCommits of the most recent matching commits, ordered oldest first.
// All failures wrap contract.ErrHistory so the orchestrator treats them
// as fatal.
func (w *Walker) Walk(ctx context.Context, opts contract.WalkOptions) ([]schema.CommitRecord, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %q: %v. If this is not a Git repository, verify the path or run 'git init'", contract.ErrHistory, opts.RepoPath, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve HEAD in %q: %v", contract.ErrHistory, opts.RepoPath, err)
	}

	logOpts := &git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	}
	if !opts.Since.IsZero() {
		since := opts.Since
		logOpts.Since = &since
	}
	if !opts.Until.IsZero() {
		until := opts.Until
		logOpts.Until = &until
	}

	iter, err := repo.Log(logOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read log of %q: %v", contract.ErrHistory, opts.RepoPath, err)
	}
	defer iter.Close()

	var records []schema.CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if opts.MaxCommits > 0 && len(records) >= opts.MaxCommits {
			return storer.ErrStop
		}
		isMerge := c.NumParents() > 1
		if isMerge && !opts.IncludeMerges {
			return nil
		}
		records = append(records, schema.CommitRecord{
			SHA:       c.Hash.String(),
			Author:    c.Author.Name,
			Timestamp: c.Author.When.UTC(),
			Message:   c.Message,
			Files:     touchedFiles(c, opts.ExcludePaths),
			IsMerge:   isMerge,
		})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: traversal cancelled: %v", contract.ErrHistory, err)
		}
		return nil, fmt.Errorf("%w: walking log of %q: %v", contract.ErrHistory, opts.RepoPath, err)
	}

	// go-git yields newest first; the pipeline wants oldest first. Sorting by
	// (timestamp, SHA) instead of plain reversal keeps the order deterministic
	// even when commits share a timestamp.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].SHA < records[j].SHA
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records, nil
}

// touchedFiles returns the commit's changed file paths with excludes applied.
// A commit whose files are all excluded is kept with an empty list; whether
// an empty commit still clusters is the similarity engine's call, not ours.
func touchedFiles(c *object.Commit, excludes []string) []string {
	stats, err := c.Stats()
	if err != nil {
		// Root commits and odd objects can fail stat computation; an empty
		// file list degrades to message-only extraction downstream.
		return nil
	}
	files := make([]string, 0, len(stats))
	for _, s := range stats {
		if s.Name == "" {
			continue
		}
		if contract.ShouldIgnore(s.Name, excludes) {
			continue
		}
		files = append(files, s.Name)
	}
	return files
}
