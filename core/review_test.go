package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/llm"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const modelReply = `## CODE EXPLANATION
Prints a greeting.

## AI vs HUMAN CODE ANALYSIS
- AI-Generated: 20%
- Human-Written: 80%
- Confidence: Medium
- Indicators: short snippet, informal naming
- Verdict: Likely human-written

## SUGGESTIONS & IMPROVEMENTS
- Add a main guard

## CODE QUALITY SCORE
Quality Score: 78 (Good)
`

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func newTestReviewer(gen contract.Generator, rs contract.ReviewStore, enrich bool) *Reviewer {
	r := NewReviewer(gen, rs, Options{EnrichWithAI: enrich, Generate: contract.GenerateOptions{MaxOutputTokens: 100}})
	r.now = fixedNow
	return r
}

func TestNewReviewerDefaults(t *testing.T) {
	r := NewReviewer(nil, nil, Options{})
	assert.Equal(t, contract.DefaultPromptMaxLines, r.opts.PromptMaxLines)
	assert.False(t, r.AIAvailable())

	assert.False(t, NewReviewer(&llm.MockGenerator{Disabled: true}, nil, Options{}).AIAvailable())
	assert.True(t, NewReviewer(&llm.MockGenerator{}, nil, Options{}).AIAvailable())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &contract.Config{
		AIEnrichReviews:   true,
		PromptMaxLines:    120,
		AIMaxOutputTokens: 2000,
		AITemperature:     0.2,
		AITimeout:         30 * time.Second,
	}
	opts := OptionsFromConfig(cfg)
	assert.True(t, opts.EnrichWithAI)
	assert.Equal(t, 120, opts.PromptMaxLines)
	assert.Equal(t, contract.GenerateOptions{MaxOutputTokens: 2000, Temperature: 0.2, Timeout: 30 * time.Second}, opts.Generate)
}

func TestReview_PersistsRecord(t *testing.T) {
	rs := &store.MockReviewStore{}
	rs.On("InsertReview", mock.Anything, mock.MatchedBy(func(rec schema.ReviewRecord) bool {
		return rec.Filename == "code.python" &&
			rec.Language == "python" &&
			rec.Score == rec.Analysis.Score &&
			rec.Issues == "0 syntax errors, 0 logic issues" &&
			rec.CreatedAt.Equal(fixedNow())
	})).Return(int64(7), nil)

	result, err := newTestReviewer(nil, rs, false).Review(context.Background(), schema.AnalysisRequest{Code: `print("hi")`})
	require.NoError(t, err)
	require.NotNil(t, result.ReviewID)
	assert.Equal(t, int64(7), *result.ReviewID)
	assert.Nil(t, result.AIAnalysis.AIStatus)
	rs.AssertExpectations(t)
}

func TestReview_BlankCodeNeverPersists(t *testing.T) {
	rs := &store.MockReviewStore{}
	gen := &llm.MockGenerator{}

	_, err := newTestReviewer(gen, rs, true).Review(context.Background(), schema.AnalysisRequest{Code: "  \n"})
	assert.ErrorIs(t, err, ErrEmptyCode)
	rs.AssertNotCalled(t, "InsertReview", mock.Anything, mock.Anything)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_StoreFailureStillReturnsResult(t *testing.T) {
	rs := &store.MockReviewStore{}
	rs.On("InsertReview", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))

	result, err := newTestReviewer(nil, rs, false).Review(context.Background(), schema.AnalysisRequest{Code: "x = 1", Language: "python"})
	require.NoError(t, err)
	assert.Nil(t, result.ReviewID)
	assert.Equal(t, "Quality Score: 85/100", result.AIAnalysis.QualityScore)
}

func TestReview_StoreDisabled(t *testing.T) {
	rs := store.NewReviewStore(nil, schema.NoneBackend)

	result, err := newTestReviewer(nil, rs, false).Review(context.Background(), schema.AnalysisRequest{Code: "x = 1"})
	require.NoError(t, err)
	assert.Nil(t, result.ReviewID)
}

func TestReview_WithoutStore(t *testing.T) {
	result, err := newTestReviewer(nil, nil, false).Review(context.Background(), schema.AnalysisRequest{Code: "x = 1"})
	require.NoError(t, err)
	assert.Nil(t, result.ReviewID)
}

func TestReview_EnrichUnavailable(t *testing.T) {
	gen := &llm.MockGenerator{Disabled: true}

	result, err := newTestReviewer(gen, nil, true).Review(context.Background(), schema.AnalysisRequest{Code: "x = 1"})
	require.NoError(t, err)
	require.NotNil(t, result.AIAnalysis.AIStatus)
	assert.Equal(t, schema.AIStatusUnavailable, result.AIAnalysis.AIStatus.Status)
	assert.Empty(t, result.AIAnalysis.AIReview)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_EnrichSuccess(t *testing.T) {
	gen := &llm.MockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, `print("hi")`)
	}), contract.GenerateOptions{MaxOutputTokens: 100}).Return(modelReply, nil)

	result, err := newTestReviewer(gen, nil, true).Review(context.Background(), schema.AnalysisRequest{Code: `print("hi")`, Language: "python"})
	require.NoError(t, err)

	ai := result.AIAnalysis
	assert.Equal(t, modelReply, ai.AIReview)
	require.NotNil(t, ai.AIQualityScore)
	assert.Equal(t, 78, *ai.AIQualityScore)
	require.NotNil(t, ai.AIDetection)
	assert.Equal(t, 20, ai.AIDetection.AIGeneratedPercentage)
	assert.Equal(t, "Likely human-written", ai.AIDetection.Verdict)
	assert.Equal(t, []string{"- Add a main guard"}, ai.AISuggestions)
	require.NotNil(t, ai.AIStatus)
	assert.Equal(t, schema.AIStatusOK, ai.AIStatus.Status)

	// The heuristic score stays authoritative.
	assert.Equal(t, 85, result.Analysis.Score)
	gen.AssertExpectations(t)
}

func TestReview_EnrichFailureFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     schema.AIStatus
		httpStatus int
	}{
		{"timeout", context.DeadlineExceeded, schema.AIStatusTimeout, http.StatusGatewayTimeout},
		{"quota", errors.New("429: quota exceeded"), schema.AIStatusQuota, http.StatusTooManyRequests},
		{"other", errors.New("connection refused"), schema.AIStatusError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &llm.MockGenerator{}
			gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err)
			rs := &store.MockReviewStore{}
			rs.On("InsertReview", mock.Anything, mock.MatchedBy(func(rec schema.ReviewRecord) bool {
				return rec.AIAnalysis.AIStatus != nil && rec.AIAnalysis.AIStatus.Status == tt.status
			})).Return(int64(3), nil)

			result, err := newTestReviewer(gen, rs, true).Review(context.Background(), schema.AnalysisRequest{Code: "x = 1"})
			require.NoError(t, err)
			require.NotNil(t, result.AIAnalysis.AIStatus)
			assert.Equal(t, tt.status, result.AIAnalysis.AIStatus.Status)
			assert.Equal(t, tt.httpStatus, result.AIAnalysis.AIStatus.HTTPStatus)
			assert.Nil(t, result.AIAnalysis.AIQualityScore)
			require.NotNil(t, result.ReviewID)
			rs.AssertExpectations(t)
		})
	}
}

func TestNewRecord(t *testing.T) {
	result, err := Analyze(context.Background(), schema.AnalysisRequest{Code: "cout << x", Language: "cpp"})
	require.NoError(t, err)

	local := time.Date(2026, 9, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	rec := NewRecord(schema.AnalysisRequest{Code: "cout << x", Language: " cpp ", Filename: "main.cpp"}, result, local)
	assert.Equal(t, "main.cpp", rec.Filename)
	assert.Equal(t, "cpp", rec.Language)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, local.Equal(rec.CreatedAt))
	assert.Equal(t, result.Analysis.Score, rec.Score)
	assert.Equal(t, "0 syntax errors, 0 logic issues", rec.Issues)
}

func TestAssist(t *testing.T) {
	ctx := context.Background()

	_, err := newTestReviewer(&llm.MockGenerator{}, nil, false).Assist(ctx, llm.TaskExplain, " ", "python")
	assert.ErrorIs(t, err, ErrEmptyCode)

	_, err = newTestReviewer(&llm.MockGenerator{Disabled: true}, nil, false).Assist(ctx, llm.TaskExplain, "x = 1", "python")
	assert.ErrorIs(t, err, llm.ErrUnavailable)

	_, err = newTestReviewer(&llm.MockGenerator{}, nil, false).Assist(ctx, llm.Task("poetry"), "x = 1", "python")
	assert.ErrorContains(t, err, "unknown AI task")

	ok := &llm.MockGenerator{}
	ok.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Risk Level: Low", nil)
	text, err := newTestReviewer(ok, nil, false).Assist(ctx, llm.TaskSecurity, "x = 1", "")
	require.NoError(t, err)
	assert.Equal(t, "Risk Level: Low", text)

	failing := &llm.MockGenerator{}
	failing.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("request timed out"))
	_, err = newTestReviewer(failing, nil, false).Assist(ctx, llm.TaskTests, "x = 1", "python")
	var ce *llm.ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, llm.KindTimeout, ce.Kind)
	assert.Equal(t, llm.TimeoutMessage, ce.Message)
}
