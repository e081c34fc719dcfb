package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/codecritic/core"
	mcp_internal "github.com/huangsam/codecritic/internal/mcp"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/huangsam/codecritic/schema"
)

func newSQLiteServer(t *testing.T) *server.MCPServer {
	t.Helper()
	db, err := store.Open(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reviews := store.NewReviewStore(db, schema.SQLiteBackend)
	return mcp_internal.NewMCPServer(core.NewReviewer(nil, reviews, core.Options{}), reviews, 10)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res, res.Content[0].(mcp.TextContent).Text
}

func TestMCPServer_ReviewAndFetch(t *testing.T) {
	s := newSQLiteServer(t)

	res, text := callTool(t, s, "review_code", map[string]any{
		"code":     "cout << Ravi Singhal",
		"language": "python",
		"filename": "hello.py",
	})
	require.False(t, res.IsError, text)

	var result schema.ReviewResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, 55, result.Analysis.Score)
	require.NotNil(t, result.ReviewID)

	res, text = callTool(t, s, "get_review", map[string]any{"id": float64(*result.ReviewID)})
	require.False(t, res.IsError, text)
	var record schema.ReviewRecord
	require.NoError(t, json.Unmarshal([]byte(text), &record))
	assert.Equal(t, "hello.py", record.Filename)

	res, text = callTool(t, s, "get_history", map[string]any{"limit": 5.0})
	require.False(t, res.IsError, text)
	var history []schema.EnrichedReview
	require.NoError(t, json.Unmarshal([]byte(text), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Rank)
	assert.Equal(t, schema.FairGrade, history[0].Grade)

	res, text = callTool(t, s, "get_analytics", nil)
	require.False(t, res.IsError, text)
	var analytics schema.Analytics
	require.NoError(t, json.Unmarshal([]byte(text), &analytics))
	assert.Equal(t, int64(1), analytics.TotalReviews)
	assert.InDelta(t, 55.0, analytics.AverageScore, 0.001)
}

func TestMCPServer_ValidationErrors(t *testing.T) {
	s := newSQLiteServer(t)

	t.Run("review_code blank code", func(t *testing.T) {
		res, text := callTool(t, s, "review_code", map[string]any{"code": "  "})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text, "code is required")
	})

	t.Run("get_review missing id", func(t *testing.T) {
		res, text := callTool(t, s, "get_review", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "id must be a positive integer")
	})

	t.Run("get_review unknown id", func(t *testing.T) {
		res, text := callTool(t, s, "get_review", map[string]any{"id": 404.0})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "review 404 not found")
	})
}

func TestMCPServer_StoreFailures(t *testing.T) {
	reviews := &store.MockReviewStore{}
	reviews.On("ListReviews", mock.Anything, 7).Return(nil, errors.New("connection reset"))
	reviews.On("GetAnalytics", mock.Anything).Return(schema.Analytics{}, errors.New("connection reset"))
	s := mcp_internal.NewMCPServer(core.NewReviewer(nil, nil, core.Options{}), reviews, 7)

	res, text := callTool(t, s, "get_history", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, "failed to load history")

	res, text = callTool(t, s, "get_analytics", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, "failed to compute analytics")
	reviews.AssertExpectations(t)
}
