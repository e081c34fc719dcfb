// Package parquet exports stored reviews to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/codecritic/schema"
	"github.com/parquet-go/parquet-go"
)

// Finding kinds in the findings export.
const (
	SyntaxKind = "syntax"
	LogicKind  = "logic"
)

// Review is one stored review flattened for analytics tools.
// This struct maps to the codecritic_reviews database table.
type Review struct {
	// ReviewID is the unique identifier of the stored review
	ReviewID int64 `parquet:"review_id,snappy"`

	Filename string `parquet:"filename,snappy"`
	Language string `parquet:"language,snappy"`

	// Score is the heuristic quality score (0-100)
	Score int32 `parquet:"score,snappy"`

	// CreatedAt is when the review was stored (TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`

	Lines      int32 `parquet:"lines,snappy"`
	Functions  int32 `parquet:"functions,snappy"`
	Branches   int32 `parquet:"branches,snappy"`
	Loops      int32 `parquet:"loops,snappy"`
	Comments   int32 `parquet:"comments,snappy"`
	Complexity int32 `parquet:"complexity,snappy"`

	SyntaxErrorCount int32  `parquet:"syntax_error_count,snappy"`
	LogicErrorCount  int32  `parquet:"logic_error_count,snappy"`
	Issues           string `parquet:"issues,snappy"`

	Suggestions []string `parquet:"suggestions,list"`

	// AIQualityScore is the model's own score when enrichment succeeded (nullable)
	AIQualityScore *int32 `parquet:"ai_quality_score,optional,snappy"`

	// AIVerdict is the model's AI-vs-human verdict (nullable)
	AIVerdict *string `parquet:"ai_verdict,optional,snappy"`

	Code string `parquet:"code,snappy"`
}

// Finding is a single syntax or logic finding of a stored review.
type Finding struct {
	ReviewID int64  `parquet:"review_id,snappy"`
	Kind     string `parquet:"kind,snappy"`
	Type     string `parquet:"type,snappy"`
	Message  string `parquet:"message,snappy"`

	// Line is absent for findings without a position
	Line *int32 `parquet:"line,optional,snappy"`

	Severity string `parquet:"severity,snappy"`
}

// WriteReviewsParquet writes a slice of Review structs to a Parquet file.
func WriteReviewsParquet(data []Review, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFindingsParquet writes a slice of Finding structs to a Parquet file.
func WriteFindingsParquet(data []Finding, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet infers the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}

// ConvertReviewRecords converts schema.ReviewRecord to Review for Parquet export.
func ConvertReviewRecords(records []schema.ReviewRecord) []Review {
	result := make([]Review, len(records))
	for i, record := range records {
		a := record.Analysis
		review := Review{
			ReviewID:         record.ID,
			Filename:         record.Filename,
			Language:         record.Language,
			Score:            int32(record.Score),
			CreatedAt:        record.CreatedAt,
			Lines:            int32(a.Lines),
			Functions:        int32(a.Functions),
			Branches:         int32(a.Branches),
			Loops:            int32(a.Loops),
			Comments:         int32(a.Comments),
			Complexity:       int32(a.Complexity),
			SyntaxErrorCount: int32(len(record.SyntaxErrors)),
			LogicErrorCount:  int32(len(record.LogicErrors)),
			Issues:           record.Issues,
			Suggestions:      record.Suggestions,
			Code:             record.Code,
		}
		if score := record.AIAnalysis.AIQualityScore; score != nil {
			v := int32(*score)
			review.AIQualityScore = &v
		}
		if det := record.AIAnalysis.AIDetection; det != nil && det.Verdict != "" {
			v := det.Verdict
			review.AIVerdict = &v
		}
		result[i] = review
	}
	return result
}

// ConvertFindings flattens the findings of every record, syntax before logic.
func ConvertFindings(records []schema.ReviewRecord) []Finding {
	var result []Finding
	for _, record := range records {
		result = appendFindings(result, record.ID, SyntaxKind, record.SyntaxErrors)
		result = appendFindings(result, record.ID, LogicKind, record.LogicErrors)
	}
	return result
}

func appendFindings(dst []Finding, reviewID int64, kind string, findings []schema.Finding) []Finding {
	for _, f := range findings {
		out := Finding{
			ReviewID: reviewID,
			Kind:     kind,
			Type:     f.Type,
			Message:  f.Message,
			Severity: string(f.Severity),
		}
		if f.Line != nil {
			line := int32(*f.Line)
			out.Line = &line
		}
		dst = append(dst, out)
	}
	return dst
}
