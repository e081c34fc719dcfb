package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Finding kinds shown in the Kind column.
const (
	syntaxKind = "syntax"
	logicKind  = "logic"
)

// findingsFixedWidth covers the #, Kind, Type, Line and Severity columns.
const findingsFixedWidth = 55

// reviewView is the data shared by fresh reviews and stored records.
type reviewView struct {
	ID        *int64
	Filename  string
	Language  string
	Code      string
	CreatedAt time.Time
	schema.ReviewResult
}

// JSONReview is the JSON shape of a review printed by the CLI.
type JSONReview struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Grade    string `json:"grade"`
	schema.ReviewResult
}

// WriteReviewResult outputs a fresh review, dispatching based on the output format configured.
func WriteReviewResult(req schema.AnalysisRequest, result schema.ReviewResult, cfg *contract.Config, duration time.Duration) error {
	language := schema.NormalizeLanguage(req.Language)
	if language == "" {
		language = schema.PythonLanguage
	}
	filename := req.Filename
	if filename == "" {
		filename = schema.DefaultFilename(language)
	}
	v := reviewView{
		ID:           result.ReviewID,
		Filename:     filename,
		Language:     language,
		Code:         req.Code,
		ReviewResult: result,
	}
	return writeReviewView(v, cfg, duration)
}

// WriteReviewRecord outputs a stored review, dispatching based on the output format configured.
func WriteReviewRecord(record schema.ReviewRecord, cfg *contract.Config) error {
	id := record.ID
	analysis := record.Analysis
	analysis.Score = record.Score
	v := reviewView{
		ID:        &id,
		Filename:  record.Filename,
		Language:  record.Language,
		Code:      record.Code,
		CreatedAt: record.CreatedAt,
		ReviewResult: schema.ReviewResult{
			Analysis:     analysis,
			SyntaxErrors: record.SyntaxErrors,
			LogicErrors:  record.LogicErrors,
			Explanation:  record.Explanation,
			Suggestions:  record.Suggestions,
			ReviewID:     &id,
			AIAnalysis:   record.AIAnalysis,
		},
	}
	return writeReviewView(v, cfg, 0)
}

func writeReviewView(v reviewView, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg,
		func(w io.Writer) error {
			return writeJSON(w, JSONReview{
				Filename:     v.Filename,
				Language:     v.Language,
				Grade:        schema.GetGradeLabel(v.Analysis.Score),
				ReviewResult: v.ReviewResult,
			})
		},
		func(w io.Writer) error { return writeReviewCSV(w, v) },
		func(w io.Writer) error { return writeReviewTable(w, v, cfg, duration) },
	)
}

// writeReviewTable prints the header line, the metrics table, the findings
// table and the explanation sections.
func writeReviewTable(w io.Writer, v reviewView, cfg *contract.Config, duration time.Duration) error {
	a := v.Analysis
	if _, err := fmt.Fprintf(w, "📄 %s (%s): score %d/100 %s\n", v.Filename, v.Language, a.Score, contract.GetColorGrade(a.Score)); err != nil {
		return err
	}

	metrics := tablewriter.NewWriter(w)
	metrics.Header([]string{"Lines", "Functions", "Branches", "Loops", "Comments", "Complexity", "Score"})
	metrics.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := metrics.Bulk([][]string{{
		strconv.Itoa(a.Lines),
		strconv.Itoa(a.Functions),
		strconv.Itoa(a.Branches),
		strconv.Itoa(a.Loops),
		strconv.Itoa(a.Comments),
		strconv.Itoa(a.Complexity),
		strconv.Itoa(a.Score),
	}}); err != nil {
		return err
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	if err := writeFindingsTable(w, v, getMaxTableTextWidth(cfg, findingsFixedWidth)); err != nil {
		return err
	}

	var b strings.Builder
	if v.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(v.Explanation))
	}
	if len(v.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range v.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if corrected := v.AIAnalysis.CorrectedCode; corrected != "" && corrected != v.Code {
		fmt.Fprintf(&b, "\nCorrected code:\n%s\n", corrected)
	}
	writeAISection(&b, v.AIAnalysis)

	b.WriteString("\n")
	switch {
	case v.ID != nil && !v.CreatedAt.IsZero():
		fmt.Fprintf(&b, "Review #%d stored at %s\n", *v.ID, v.CreatedAt.Local().Format(time.DateTime))
	case v.ID != nil:
		fmt.Fprintf(&b, "Stored as review #%d\n", *v.ID)
	default:
		b.WriteString("Review not stored\n")
	}
	if duration > 0 {
		fmt.Fprintf(&b, "Review completed in %v\n", duration.Round(time.Millisecond))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeFindingsTable(w io.Writer, v reviewView, messageWidth int) error {
	total := len(v.SyntaxErrors) + len(v.LogicErrors)
	if total == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Kind", "Type", "Line", "Severity", "Message"})

	var data [][]string
	add := func(kind string, findings []schema.Finding) {
		for _, f := range findings {
			data = append(data, []string{
				strconv.Itoa(len(data) + 1),
				kind,
				f.Type,
				lineText(f.Line),
				contract.GetColorSeverity(f.Severity),
				contract.TruncateText(f.Message, messageWidth),
			})
		}
	}
	add(syntaxKind, v.SyntaxErrors)
	add(logicKind, v.LogicErrors)

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d syntax errors and %d logic issues\n", len(v.SyntaxErrors), len(v.LogicErrors))
	return err
}

func writeAISection(b *strings.Builder, ai schema.AIAnalysis) {
	if ai.AIStatus == nil {
		return
	}
	if ai.AIStatus.Status != schema.AIStatusOK {
		fmt.Fprintf(b, "\nAI review %s: %s\n", ai.AIStatus.Status, ai.AIStatus.Message)
		return
	}
	b.WriteString("\nAI review:\n")
	if ai.AIQualityScore != nil {
		fmt.Fprintf(b, "  Quality score: %d/100\n", *ai.AIQualityScore)
	}
	if d := ai.AIDetection; d != nil {
		fmt.Fprintf(b, "  Authorship: %d%% AI, %d%% human (%s confidence) - %s\n",
			d.AIGeneratedPercentage, d.HumanWrittenPercentage, d.Confidence, d.Verdict)
	}
	for _, s := range ai.AISuggestions {
		fmt.Fprintf(b, "  %s\n", s)
	}
}

// writeReviewCSV writes one row per finding.
func writeReviewCSV(w io.Writer, v reviewView) error {
	header := []string{"filename", "language", "score", "kind", "type", "line", "severity", "message"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		score := strconv.Itoa(v.Analysis.Score)
		write := func(kind string, findings []schema.Finding) error {
			for _, f := range findings {
				line := ""
				if f.Line != nil {
					line = strconv.Itoa(*f.Line)
				}
				if err := cw.Write([]string{v.Filename, v.Language, score, kind, f.Type, line, string(f.Severity), f.Message}); err != nil {
					return err
				}
			}
			return nil
		}
		if err := write(syntaxKind, v.SyntaxErrors); err != nil {
			return err
		}
		return write(logicKind, v.LogicErrors)
	})
}
