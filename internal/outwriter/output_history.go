package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// historyFixedWidth covers every history column except Filename.
const historyFixedWidth = 90

// WriteHistoryResults outputs stored reviews, dispatching based on the output format configured.
func WriteHistoryResults(reviews []schema.ReviewRecord, cfg *contract.Config) error {
	enriched := schema.EnrichReviews(reviews)
	return dispatch(cfg,
		func(w io.Writer) error { return writeJSON(w, enriched) },
		func(w io.Writer) error { return writeHistoryCSV(w, enriched) },
		func(w io.Writer) error { return writeHistoryTable(w, enriched, cfg) },
	)
}

func writeHistoryTable(w io.Writer, reviews []schema.EnrichedReview, cfg *contract.Config) error {
	if len(reviews) == 0 {
		_, err := fmt.Fprintln(w, "No reviews stored yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "ID", "Filename", "Language", "Score", "Grade", "Issues", "Created"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	width := getMaxTableTextWidth(cfg, historyFixedWidth)
	var data [][]string
	for _, r := range reviews {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			strconv.FormatInt(r.ID, 10),
			contract.TruncateText(r.Filename, width),
			r.Language,
			strconv.Itoa(r.Score),
			contract.GetColorGrade(r.Score),
			r.Issues,
			r.CreatedAt.Local().Format(time.DateTime),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	total := 0
	for _, r := range reviews {
		total += r.Score
	}
	_, err := fmt.Fprintf(w, "Showing %d most recent reviews (average score: %.2f). Store backend: %s\n",
		len(reviews), float64(total)/float64(len(reviews)), cfg.StoreBackend)
	return err
}

func writeHistoryCSV(w io.Writer, reviews []schema.EnrichedReview) error {
	header := []string{"rank", "id", "filename", "language", "score", "grade", "syntax_errors", "logic_errors", "created_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range reviews {
			rec := []string{
				strconv.Itoa(r.Rank),
				strconv.FormatInt(r.ID, 10),
				r.Filename,
				r.Language,
				strconv.Itoa(r.Score),
				r.Grade,
				strconv.Itoa(len(r.SyntaxErrors)),
				strconv.Itoa(len(r.LogicErrors)),
				r.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
