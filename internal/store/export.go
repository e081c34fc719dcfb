package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/parquet"
)

// ExecuteReviewExport writes every stored review to outputFile.reviews.parquet
// and their findings to outputFile.findings.parquet.
func ExecuteReviewExport(ctx context.Context, w io.Writer, store contract.ReviewStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalReviews == 0 {
		return errors.New("no review data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total reviews: %d\n", status.TotalReviews)

	records, err := store.GetAllReviews(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	reviews := parquet.ConvertReviewRecords(records)
	reviewsFile := outputFile + ".reviews.parquet"
	if err := parquet.WriteReviewsParquet(reviews, reviewsFile); err != nil {
		return fmt.Errorf("failed to write reviews: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d reviews to: %s\n", len(reviews), reviewsFile)

	findings := parquet.ConvertFindings(records)
	findingsFile := outputFile + ".findings.parquet"
	if err := parquet.WriteFindingsParquet(findings, findingsFile); err != nil {
		return fmt.Errorf("failed to write findings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d findings to: %s\n", len(findings), findingsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Spark")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")

	return nil
}
