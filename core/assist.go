package core

import (
	"context"
	"time"

	"github.com/huangsam/codecritic/internal/llm"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/internal/metrics"
	"github.com/huangsam/codecritic/schema"
)

// Assist runs a single model task (security review, test generation or
// explanation) over the code. Errors from the model are returned as
// *llm.ClassifiedError.
func (r *Reviewer) Assist(ctx context.Context, task llm.Task, code, language string) (string, error) {
	if isBlank(code) {
		return "", ErrEmptyCode
	}
	if !r.AIAvailable() {
		return "", llm.ErrUnavailable
	}
	language = languageOrDefault(language)

	start := time.Now()
	prompt, err := llm.BuildTaskPrompt(task, code, language, r.opts.PromptMaxLines)
	if err != nil {
		return "", err
	}
	text, err := r.gen.Generate(ctx, prompt, r.opts.Generate)
	if err != nil {
		ce := llm.Classify(err)
		metrics.RecordAICall(r.gen.Name(), string(ce.Status()), time.Since(start))
		logging.Ctx(ctx).Warn().Err(err).Str("task", string(task)).Msg("AI task failed")
		return "", ce
	}
	metrics.RecordAICall(r.gen.Name(), string(schema.AIStatusOK), time.Since(start))
	return text, nil
}
