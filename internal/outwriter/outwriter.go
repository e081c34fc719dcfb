// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReview prints a review result using the configured output format.
func (ow *OutWriter) WriteReview(req schema.AnalysisRequest, result schema.ReviewResult, cfg *contract.Config, duration time.Duration) error {
	return WriteReviewResult(req, result, cfg, duration)
}

// WriteRecord prints a stored review using the configured output format.
func (ow *OutWriter) WriteRecord(record schema.ReviewRecord, cfg *contract.Config) error {
	return WriteReviewRecord(record, cfg)
}

// WriteHistory prints stored reviews using the configured output format.
func (ow *OutWriter) WriteHistory(reviews []schema.ReviewRecord, cfg *contract.Config) error {
	return WriteHistoryResults(reviews, cfg)
}

// WriteAnalytics prints aggregate statistics using the configured output format.
func (ow *OutWriter) WriteAnalytics(analytics schema.Analytics, cfg *contract.Config) error {
	return WriteAnalyticsResults(analytics, cfg)
}
