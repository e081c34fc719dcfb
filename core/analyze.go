package core

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

// ErrEmptyCode is returned when the submitted code is blank.
var ErrEmptyCode = errors.New("no code provided")

// ErrAggregation is returned when assembling a result fails unexpectedly.
var ErrAggregation = errors.New("review aggregation failed")

// Analyze runs every local heuristic over the request. It never calls a
// model or a store, so identical requests give identical results.
// A panicking detector contributes no findings; a panic anywhere else
// surfaces as ErrAggregation.
func Analyze(ctx context.Context, req schema.AnalysisRequest) (result schema.ReviewResult, err error) {
	if isBlank(req.Code) {
		return schema.ReviewResult{}, ErrEmptyCode
	}
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("review aggregation panicked")
			result, err = schema.ReviewResult{}, fmt.Errorf("%w: %v", ErrAggregation, rec)
		}
	}()

	code := req.Code
	language := languageOrDefault(req.Language)

	syntaxErrors := safeFindings(ctx, "syntax", func() []schema.Finding {
		return CheckSyntax(ctx, code, language)
	})
	logicErrors := safeFindings(ctx, "mismatch", func() []schema.Finding {
		return DetectMismatch(code, language)
	})
	logicErrors = append(logicErrors, safeFindings(ctx, "logic", func() []schema.Finding {
		return applyRules(LogicRules, code, language)
	})...)
	corrected := safeCorrect(ctx, code, language)

	analysis := CountStructure(code)
	analysis.Score = Score(analysis, language, code)

	explanation := Explain(code, corrected, language)
	suggestions := Suggest(code, language)

	return schema.ReviewResult{
		Analysis:     analysis,
		SyntaxErrors: syntaxErrors,
		LogicErrors:  logicErrors,
		Explanation:  explanation,
		Suggestions:  suggestions,
		AIAnalysis: schema.AIAnalysis{
			Explanation:     explanation,
			LogicIssues:     logicIssueSummary(code, corrected, language),
			Suggestions:     suggestions,
			QualityScore:    fmt.Sprintf("Quality Score: %d/100", analysis.Score),
			IssueSummary:    fmt.Sprintf("Found %d syntax errors and %d logic issues", len(syntaxErrors), len(logicErrors)),
			LanguageInsight: fmt.Sprintf("%s best practices applied", language),
			CorrectedCode:   corrected,
		},
	}, nil
}

// safeFindings runs one detector and converts a panic into an empty result.
func safeFindings(ctx context.Context, detector string, fn func() []schema.Finding) (out []schema.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Warn().Str("detector", detector).Interface("panic", rec).Msg("detector failed")
			out = []schema.Finding{}
		}
	}()
	out = fn()
	if out == nil {
		out = []schema.Finding{}
	}
	return out
}

// safeCorrect falls back to the original code when the corrector panics.
func safeCorrect(ctx context.Context, code, language string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Warn().Str("detector", "corrector").Interface("panic", rec).Msg("detector failed")
			out = code
		}
	}()
	return Correct(code, language)
}

func logicIssueSummary(code, corrected, language string) string {
	switch {
	case corrected == code:
		return ""
	case isPython(language) && containsAny(code, "cout", "cin"):
		return "Language mismatch detected - code was converted from C++ to Python syntax"
	case isCpp(language):
		return "Code syntax issues detected and corrected (added quotes and semicolon)"
	default:
		return "Code was corrected to proper syntax"
	}
}
