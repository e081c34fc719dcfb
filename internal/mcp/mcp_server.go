// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/contract"
)

// NewMCPServer initializes and configures the codecritic MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(reviewer *core.Reviewer, reviews contract.ReviewStore, historyLimit int) *server.MCPServer {
	s := server.NewMCPServer(
		"Codecritic Review Server",
		"1.0.0",
		server.WithLogging(),
	)

	if historyLimit <= 0 {
		historyLimit = contract.DefaultHistoryLimit
	}
	h := &toolHandler{
		reviewer:     reviewer,
		reviews:      reviews,
		historyLimit: historyLimit,
	}

	// --- 1. Tool: review_code ---
	s.AddTool(mcp.NewTool("review_code",
		mcp.WithDescription("Review a code snippet: structural metrics, syntax errors, logic issues, language mismatch and a 0-100 quality score."),
		mcp.WithString("code", mcp.Description("The source code to review."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Declared language of the code. Defaults to 'python'.")),
		mcp.WithString("filename", mcp.Description("Name stored with the review. Defaults to 'code.<language>'.")),
	), h.handleReviewCode)

	// --- 2. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List stored reviews, most recent first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reviews returned.")),
	), h.handleGetHistory)

	// --- 3. Tool: get_review ---
	s.AddTool(mcp.NewTool("get_review",
		mcp.WithDescription("Fetch one stored review by id."),
		mcp.WithNumber("id", mcp.Description("The review id."), mcp.Required()),
	), h.handleGetReview)

	// --- 4. Tool: get_analytics ---
	s.AddTool(mcp.NewTool("get_analytics",
		mcp.WithDescription("Aggregate statistics over all stored reviews: averages, language distribution, recent trend and error totals."),
	), h.handleGetAnalytics)

	return s
}

// StartMCPServer starts the codecritic MCP server over stdio.
func StartMCPServer(_ context.Context, reviewer *core.Reviewer, reviews contract.ReviewStore, historyLimit int) error {
	s := NewMCPServer(reviewer, reviews, historyLimit)
	return server.ServeStdio(s)
}
