package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/archmine/core"
	"github.com/huangsam/archmine/internal/contract"
	"github.com/huangsam/archmine/internal/gitwalk"
	"github.com/huangsam/archmine/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleMineDecisions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if n := request.GetString("narrator", ""); n != "" {
		kind := schema.NarratorKind(n)
		if !kind.IsValid() {
			return mcp.NewToolResultError(fmt.Sprintf("invalid narrator: %s", n)), nil
		}
		cfg.Narrator = kind
	}
	if m := request.GetInt("max_commits", 0); m > 0 {
		cfg.MaxCommits = m
	}
	if s := request.GetInt("min_cluster_size", 0); s > 0 {
		if s < 2 {
			return mcp.NewToolResultError("min_cluster_size must be at least 2"), nil
		}
		cfg.MinClusterSize = s
	}
	if c := request.GetFloat("min_confidence", -1); c >= 0 {
		if c > 1 {
			return mcp.NewToolResultError("min_confidence must be between 0 and 1"), nil
		}
		cfg.MinConfidence = c
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	now := time.Now()
	if s := request.GetString("since", ""); s != "" {
		t, err := contract.ParseTimeInput(s, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid since: %v", err)), nil
		}
		cfg.Since = t
	}
	if u := request.GetString("until", ""); u != "" {
		t, err := contract.ParseTimeInput(u, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid until: %v", err)), nil
		}
		cfg.Until = t
	}

	result, err := core.MineDecisions(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("mining failed: %v", err)), nil
	}
	if result.Failed() {
		first := result.Errors[0]
		return mcp.NewToolResultError(fmt.Sprintf("mining failed (%s): %s", first.Kind, first.Message)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCategorizeCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if m := request.GetInt("max_commits", 0); m > 0 {
		cfg.MaxCommits = m
	}

	now := time.Now()
	if s := request.GetString("since", ""); s != "" {
		t, err := contract.ParseTimeInput(s, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid since: %v", err)), nil
		}
		cfg.Since = t
	}
	if u := request.GetString("until", ""); u != "" {
		t, err := contract.ParseTimeInput(u, now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid until: %v", err)), nil
		}
		cfg.Until = t
	}

	result, err := core.CategorizeCommits(ctx, gitwalk.NewWalker(), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("categorization failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
