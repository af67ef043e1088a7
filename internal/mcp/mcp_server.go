// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/archmine/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Archmine MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Archmine Decision Mining Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: mine_decisions ---
	s.AddTool(mcp.NewTool("mine_decisions",
		mcp.WithDescription("Mine architecture decisions from git history by clustering related commits and synthesizing ADR-style records."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository if not specified).")),
		mcp.WithString("since", mcp.Description("Start of the mining window (e.g., '2024-01-01' or '6 months').")),
		mcp.WithString("until", mcp.Description("End of the mining window.")),
		mcp.WithString("narrator", mcp.Description("Narrative backend (template, openai). Defaults to 'template'."), mcp.Enum("template", "openai")),
		mcp.WithNumber("max_commits", mcp.Description("Maximum number of commits to walk.")),
		mcp.WithNumber("min_cluster_size", mcp.Description("Minimum commits per cluster (at least 2).")),
		mcp.WithNumber("min_confidence", mcp.Description("Minimum decision confidence between 0 and 1.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of decisions returned.")),
	), h.handleMineDecisions)

	// --- 2. Tool: categorize_commits ---
	s.AddTool(mcp.NewTool("categorize_commits",
		mcp.WithDescription("Walk a repository's commit history and classify each commit into a decision category (database, security, testing, ...) without running the full mining pipeline."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository if not specified).")),
		mcp.WithNumber("max_commits", mcp.Description("Maximum number of commits to walk.")),
		mcp.WithString("since", mcp.Description("Start of the categorization window (e.g., '2024-01-01' or '6 months').")),
		mcp.WithString("until", mcp.Description("End of the categorization window.")),
	), h.handleCategorizeCommits)

	return s
}

// StartMCPServer starts the Archmine MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
