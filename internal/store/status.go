package store

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/codecritic/schema"
)

// PrintStoreStatus prints review store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Reviews: %d\n", status.TotalReviews)
	if status.TotalReviews > 0 {
		_, _ = fmt.Fprintf(w, "Last Review ID: %d\n", status.LastReviewID)
		_, _ = fmt.Fprintf(w, "Last Review: %s\n", status.LastReviewTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Review: %s\n", status.OldestReviewTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
