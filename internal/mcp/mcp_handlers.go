package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	reviewer     *core.Reviewer
	reviews      contract.ReviewStore
	historyLimit int
}

func (h *toolHandler) handleReviewCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := schema.AnalysisRequest{
		Code:     request.GetString("code", ""),
		Language: request.GetString("language", ""),
		Filename: request.GetString("filename", ""),
	}

	result, err := h.reviewer.Review(ctx, req)
	if errors.Is(err, core.ErrEmptyCode) {
		return mcp.NewToolResultError("code is required and must not be blank"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("review failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.historyLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxHistoryLimit)
	}

	reviews, err := h.reviews.ListReviews(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	return jsonResult(schema.EnrichReviews(reviews))
}

func (h *toolHandler) handleGetReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	review, err := h.reviews.GetReview(ctx, int64(id))
	if errors.Is(err, contract.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("review %d not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load review: %v", err)), nil
	}
	return jsonResult(review)
}

func (h *toolHandler) handleGetAnalytics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analytics, err := h.reviews.GetAnalytics(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute analytics: %v", err)), nil
	}
	return jsonResult(analytics)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
