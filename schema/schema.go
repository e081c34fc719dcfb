// Package schema has models and constants shared by all parts of codecritic.
package schema

import "time"

// AnalysisRequest is the input to a single review.
type AnalysisRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" validate:"omitempty,max=32"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
}

// Finding is a single detected issue. Line is nil when the detector has no position.
type Finding struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Line     *int     `json:"line,omitempty"`
	Severity Severity `json:"severity"`
}

// QualityAnalysis holds the structural counts of a snippet and its quality score (0-100).
type QualityAnalysis struct {
	Lines      int `json:"lines"`
	Functions  int `json:"functions"`
	Branches   int `json:"branches"`
	Loops      int `json:"loops"`
	Comments   int `json:"comments"`
	Complexity int `json:"complexity"`
	Score      int `json:"score"`
}

// AIDetection is the model's estimate of whether the code was machine generated.
type AIDetection struct {
	AIGeneratedPercentage  int      `json:"ai_generated_percentage"`
	HumanWrittenPercentage int      `json:"human_written_percentage"`
	Confidence             string   `json:"confidence"`
	Indicators             []string `json:"indicators"`
	Verdict                string   `json:"verdict"`
}

// AIStatusInfo records why the model enrichment did not produce a review.
type AIStatusInfo struct {
	Status     AIStatus `json:"status"`
	Message    string   `json:"message"`
	HTTPStatus int      `json:"http_status,omitempty"`
}

// AIAnalysis groups the templated review sections plus the optional model enrichment.
type AIAnalysis struct {
	Explanation     string   `json:"explanation"`
	LogicIssues     string   `json:"logic_issues"`
	Suggestions     []string `json:"suggestions"`
	QualityScore    string   `json:"quality_score"`
	IssueSummary    string   `json:"issue_summary"`
	LanguageInsight string   `json:"language_insight"`
	CorrectedCode   string   `json:"corrected_code"`

	AIReview       string        `json:"ai_review,omitempty"`
	AIQualityScore *int          `json:"ai_quality_score,omitempty"`
	AIDetection    *AIDetection  `json:"ai_detection,omitempty"`
	AISuggestions  []string      `json:"ai_suggestions,omitempty"`
	AIStatus       *AIStatusInfo `json:"ai_status,omitempty"`
}

// ReviewResult is the response body of a review.
type ReviewResult struct {
	Analysis     QualityAnalysis `json:"analysis"`
	SyntaxErrors []Finding       `json:"syntax_errors"`
	LogicErrors  []Finding       `json:"logic_errors"`
	Explanation  string          `json:"explanation"`
	Suggestions  []string        `json:"suggestions"`
	ReviewID     *int64          `json:"review_id"`
	AIAnalysis   AIAnalysis      `json:"ai_analysis"`
}

// ReviewRecord is a persisted review. Score always equals Analysis.Score.
type ReviewRecord struct {
	ID           int64           `json:"id"`
	Filename     string          `json:"filename"`
	Language     string          `json:"language"`
	Code         string          `json:"code"`
	Score        int             `json:"score"`
	CreatedAt    time.Time       `json:"created_at"`
	Analysis     QualityAnalysis `json:"analysis"`
	SyntaxErrors []Finding       `json:"syntax_errors"`
	LogicErrors  []Finding       `json:"logic_errors"`
	Explanation  string          `json:"explanation"`
	Suggestions  []string        `json:"suggestions"`
	Issues       string          `json:"issues"`
	AIAnalysis   AIAnalysis      `json:"ai_analysis"`
}

// User is a registered account.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
