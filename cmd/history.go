package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/outwriter"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/spf13/cobra"
)

// historyCmd lists recent stored reviews.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent stored reviews",
	Long: `Show the most recent stored reviews, newest first, with their rank,
score and grade. The number of rows is controlled by --history-limit.

Examples:
  # Last 50 reviews
  codecritic history

  # Last 10 reviews as CSV
  codecritic history --history-limit 10 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		reviews, err := store.Manager.GetReviewStore().ListReviews(rootCtx, cfg.HistoryLimit)
		if err != nil {
			contract.LogFatal("Failed to load history", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(reviews, cfg); err != nil {
			contract.LogFatal("Failed to write history", err)
		}
	},
}

// showCmd prints a single stored review.
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored review in full",
	Long: `Print a stored review with its findings, suggestions and any AI analysis.

Examples:
  codecritic show 42
  codecritic show 42 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			contract.LogFatal("Invalid review id", fmt.Errorf("%q is not a positive integer", args[0]))
		}
		record, err := store.Manager.GetReviewStore().GetReview(rootCtx, id)
		if errors.Is(err, contract.ErrNotFound) {
			contract.LogFatal("Review not found", fmt.Errorf("no review with id %d", id))
		}
		if err != nil {
			contract.LogFatal("Failed to load review", err)
		}
		if err := outwriter.NewOutWriter().WriteRecord(record, cfg); err != nil {
			contract.LogFatal("Failed to write review", err)
		}
	},
}

// analyticsCmd prints aggregate statistics over stored reviews.
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Summarize stored reviews",
	Long: `Print aggregate statistics over every stored review: totals, average
score, per-language counts, recent score trend and most common errors.

Examples:
  codecritic analytics
  codecritic analytics --output json --output-file analytics.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		analytics, err := store.Manager.GetReviewStore().GetAnalytics(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to compute analytics", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalytics(analytics, cfg); err != nil {
			contract.LogFatal("Failed to write analytics", err)
		}
	},
}
