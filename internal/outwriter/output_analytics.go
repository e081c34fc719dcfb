package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteAnalyticsResults outputs aggregate statistics, dispatching based on the output format configured.
func WriteAnalyticsResults(analytics schema.Analytics, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeJSON(w, analytics) },
		func(w io.Writer) error { return writeAnalyticsCSV(w, analytics) },
		func(w io.Writer) error { return writeAnalyticsTable(w, analytics) },
	)
}

// sortedLanguages orders languages by review count, then by name.
func sortedLanguages(dist map[string]int64) []string {
	langs := slices.Collect(maps.Keys(dist))
	slices.SortFunc(langs, func(a, b string) int {
		if c := cmp.Compare(dist[b], dist[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return langs
}

func writeAnalyticsTable(w io.Writer, a schema.Analytics) error {
	if a.TotalReviews == 0 {
		_, err := fmt.Fprintln(w, "No reviews stored yet.")
		return err
	}

	if _, err := fmt.Fprintf(w, "📊 %d reviews, average score %.2f (%s)\n", a.TotalReviews, a.AverageScore,
		contract.GetColorGrade(int(a.AverageScore))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Errors: %d syntax, %d logic, %d total\n\n",
		a.ErrorSummary.SyntaxErrors, a.ErrorSummary.LogicErrors, a.ErrorSummary.TotalErrors); err != nil {
		return err
	}

	languages := tablewriter.NewWriter(w)
	languages.Header([]string{"Language", "Reviews", "Share"})
	var rows [][]string
	for _, lang := range sortedLanguages(a.LanguageDistribution) {
		count := a.LanguageDistribution[lang]
		rows = append(rows, []string{
			lang,
			strconv.FormatInt(count, 10),
			fmt.Sprintf("%.1f%%", 100*float64(count)/float64(a.TotalReviews)),
		})
	}
	if err := languages.Bulk(rows); err != nil {
		return err
	}
	if err := languages.Render(); err != nil {
		return err
	}

	if len(a.RecentTrends) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nRecent reviews:"); err != nil {
		return err
	}
	trends := tablewriter.NewWriter(w)
	trends.Header([]string{"Date", "Filename", "Score", "Grade"})
	rows = rows[:0]
	for _, p := range a.RecentTrends {
		rows = append(rows, []string{p.Date, p.Filename, strconv.Itoa(p.Score), contract.GetColorGrade(p.Score)})
	}
	if err := trends.Bulk(rows); err != nil {
		return err
	}
	return trends.Render()
}

// writeAnalyticsCSV writes the language distribution, one row per language.
func writeAnalyticsCSV(w io.Writer, a schema.Analytics) error {
	header := []string{"language", "reviews", "total_reviews", "average_score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		total := strconv.FormatInt(a.TotalReviews, 10)
		average := strconv.FormatFloat(a.AverageScore, 'f', 2, 64)
		for _, lang := range sortedLanguages(a.LanguageDistribution) {
			if err := cw.Write([]string{lang, strconv.FormatInt(a.LanguageDistribution[lang], 10), total, average}); err != nil {
				return err
			}
		}
		return nil
	})
}
