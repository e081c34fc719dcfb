package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/llm"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/internal/metrics"
	"github.com/huangsam/codecritic/schema"
)

// Options tunes a Reviewer.
type Options struct {
	EnrichWithAI   bool
	PromptMaxLines int
	Generate       contract.GenerateOptions
}

// OptionsFromConfig derives reviewer options from the validated config.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		EnrichWithAI:   cfg.AIEnrichReviews,
		PromptMaxLines: cfg.PromptMaxLines,
		Generate:       cfg.GenerateOptions(),
	}
}

// Reviewer runs the full review pipeline. The generator and store are
// injected; a nil or unavailable generator means local analysis only and
// a nil store means nothing is persisted.
type Reviewer struct {
	gen   contract.Generator
	store contract.ReviewStore
	opts  Options
	now   func() time.Time
}

// NewReviewer creates a Reviewer.
func NewReviewer(gen contract.Generator, store contract.ReviewStore, opts Options) *Reviewer {
	if opts.PromptMaxLines <= 0 {
		opts.PromptMaxLines = contract.DefaultPromptMaxLines
	}
	return &Reviewer{gen: gen, store: store, opts: opts, now: time.Now}
}

// AIAvailable reports whether a model is configured.
func (r *Reviewer) AIAvailable() bool {
	return r.gen != nil && r.gen.Available()
}

// Review analyzes the request, optionally enriches it with a model review
// and persists the record. Model and store failures never fail the review.
func (r *Reviewer) Review(ctx context.Context, req schema.AnalysisRequest) (schema.ReviewResult, error) {
	start := r.now()
	result, err := Analyze(ctx, req)
	if err != nil {
		return schema.ReviewResult{}, err
	}
	language := languageOrDefault(req.Language)

	if r.opts.EnrichWithAI {
		r.enrich(ctx, req.Code, language, &result.AIAnalysis)
	}
	metrics.RecordReview(language, result.Analysis.Score)
	logging.Ctx(ctx).Info().
		Str("filename", filenameOrDefault(req.Filename, language)).
		Str("language", language).
		Int("score", result.Analysis.Score).
		Int("syntax_errors", len(result.SyntaxErrors)).
		Int("logic_errors", len(result.LogicErrors)).
		Bool("ai_enriched", result.AIAnalysis.AIReview != "").
		Dur("duration", r.now().Sub(start)).
		Msg("review completed")

	if r.store == nil {
		return result, nil
	}
	record := NewRecord(req, result, r.now())
	id, err := r.store.InsertReview(ctx, record)
	switch {
	case errors.Is(err, contract.ErrStoreDisabled):
		logging.Ctx(ctx).Debug().Msg("persistence disabled, review not stored")
	case err != nil:
		metrics.RecordPersistFailure()
		logging.Ctx(ctx).Warn().Err(err).Str("filename", record.Filename).Msg("failed to persist review")
	default:
		result.ReviewID = &id
	}
	return result, nil
}

// NewRecord builds the persisted form of a review.
func NewRecord(req schema.AnalysisRequest, result schema.ReviewResult, createdAt time.Time) schema.ReviewRecord {
	language := languageOrDefault(req.Language)
	return schema.ReviewRecord{
		Filename:     filenameOrDefault(req.Filename, language),
		Language:     language,
		Code:         req.Code,
		Score:        result.Analysis.Score,
		CreatedAt:    createdAt.UTC(),
		Analysis:     result.Analysis,
		SyntaxErrors: result.SyntaxErrors,
		LogicErrors:  result.LogicErrors,
		Explanation:  result.Explanation,
		Suggestions:  result.Suggestions,
		Issues:       schema.IssuesSummary(len(result.SyntaxErrors), len(result.LogicErrors)),
		AIAnalysis:   result.AIAnalysis,
	}
}

// enrich asks the model for a structured review and merges the parsed
// parts into ai. Any failure is recorded as a status, never returned.
func (r *Reviewer) enrich(ctx context.Context, code, language string, ai *schema.AIAnalysis) {
	if !r.AIAvailable() {
		ai.AIStatus = &schema.AIStatusInfo{
			Status:  schema.AIStatusUnavailable,
			Message: "AI model not configured; local analysis only",
		}
		return
	}

	start := time.Now()
	prompt := llm.BuildReviewPrompt(code, language, r.opts.PromptMaxLines)
	text, err := r.gen.Generate(ctx, prompt, r.opts.Generate)
	if err != nil {
		ce := llm.Classify(err)
		metrics.RecordAICall(r.gen.Name(), string(ce.Status()), time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("provider", r.gen.Name()).Msg("AI review failed, using local analysis")
		ai.AIStatus = &schema.AIStatusInfo{
			Status:     ce.Status(),
			Message:    ce.Message,
			HTTPStatus: ce.HTTPStatus(),
		}
		return
	}
	metrics.RecordAICall(r.gen.Name(), string(schema.AIStatusOK), time.Since(start))

	parsed := llm.ParseReview(text)
	ai.AIReview = text
	ai.AIQualityScore = schema.IntPtr(parsed.Score)
	ai.AIDetection = &parsed.Detection
	ai.AISuggestions = parsed.Suggestions
	ai.AIStatus = &schema.AIStatusInfo{Status: schema.AIStatusOK, Message: "AI review completed"}
}
