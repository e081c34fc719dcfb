package schema

import "time"

// StoreStatus represents the status of the review store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalReviews     int64            `json:"total_reviews"`
	LastReviewID     int64            `json:"last_review_id"`
	LastReviewTime   time.Time        `json:"last_review_time"`
	OldestReviewTime time.Time        `json:"oldest_review_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// TrendPoint is one entry of the recent score trend.
type TrendPoint struct {
	Date     string `json:"date"`
	Score    int    `json:"score"`
	Filename string `json:"filename"`
}

// ErrorSummary totals the findings across all stored reviews.
type ErrorSummary struct {
	SyntaxErrors int64 `json:"syntax_errors"`
	LogicErrors  int64 `json:"logic_errors"`
	TotalErrors  int64 `json:"total_errors"`
}

// Analytics aggregates stored reviews.
type Analytics struct {
	TotalReviews         int64            `json:"total_reviews"`
	AverageScore         float64          `json:"average_score"`
	LanguageDistribution map[string]int64 `json:"language_distribution"`
	RecentTrends         []TrendPoint     `json:"recent_trends"`
	ErrorSummary         ErrorSummary     `json:"error_summary"`
}

// EmptyAnalytics returns the analytics shape for a store with no reviews.
func EmptyAnalytics() Analytics {
	return Analytics{
		LanguageDistribution: map[string]int64{},
		RecentTrends:         []TrendPoint{},
	}
}
