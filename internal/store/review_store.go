package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

// recentTrendsLimit is how many reviews feed the analytics trend line.
const recentTrendsLimit = 10

// reviewColumns lists the selected columns in scan order.
const reviewColumns = `id, filename, language, code, score, created_at, analysis,
	syntax_errors, logic_errors, explanation, suggestions, issues, ai_analysis`

// ReviewStoreImpl implements the ReviewStore interface.
type ReviewStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ReviewStore = &ReviewStoreImpl{} // Compile-time check

// NewReviewStore creates a ReviewStore over an opened connection.
// A nil db produces the no-op store used by the none backend.
func NewReviewStore(db *sql.DB, backend schema.DatabaseBackend) contract.ReviewStore {
	if db == nil {
		backend = schema.NoneBackend
	}
	return &ReviewStoreImpl{db: db, backend: backend}
}

func (rs *ReviewStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// InsertReview stores the record and returns its new id.
func (rs *ReviewStoreImpl) InsertReview(ctx context.Context, record schema.ReviewRecord) (int64, error) {
	if rs.disabled() {
		return 0, contract.ErrStoreDisabled
	}

	encoded, err := encodeReview(record)
	if err != nil {
		return 0, err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (filename, language, code, score, created_at, analysis,
		                syntax_errors, logic_errors, explanation, suggestions, issues, ai_analysis,
		                syntax_error_count, logic_error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(reviewsTable, rs.backend))
	args := []any{
		record.Filename, record.Language, record.Code, record.Score, formatTime(createdAt, rs.backend),
		encoded.analysis, encoded.syntaxErrors, encoded.logicErrors, record.Explanation,
		encoded.suggestions, record.Issues, encoded.aiAnalysis,
		len(record.SyntaxErrors), len(record.LogicErrors),
	}

	var id int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		err = rs.db.QueryRowContext(ctx, rebind(query, rs.backend)+" RETURNING id", args...).Scan(&id)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = rs.db.ExecContext(ctx, query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert review: %w", err)
	}

	return id, nil
}

// ListReviews returns up to limit reviews, newest first.
func (rs *ReviewStoreImpl) ListReviews(ctx context.Context, limit int) ([]schema.ReviewRecord, error) {
	if rs.disabled() {
		return []schema.ReviewRecord{}, nil
	}
	if limit <= 0 {
		limit = contract.DefaultHistoryLimit
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC, id DESC LIMIT ?`,
		reviewColumns, quoteTableName(reviewsTable, rs.backend))
	return rs.queryReviews(ctx, rebind(query, rs.backend), limit)
}

// GetReview returns a single review by id.
func (rs *ReviewStoreImpl) GetReview(ctx context.Context, id int64) (schema.ReviewRecord, error) {
	if rs.disabled() {
		return schema.ReviewRecord{}, ErrNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, reviewColumns, quoteTableName(reviewsTable, rs.backend))
	record, err := scanReview(rs.db.QueryRowContext(ctx, rebind(query, rs.backend), id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.ReviewRecord{}, ErrNotFound
	}
	if err != nil {
		return schema.ReviewRecord{}, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return record, nil
}

// GetAllReviews returns every review, oldest first.
func (rs *ReviewStoreImpl) GetAllReviews(ctx context.Context) ([]schema.ReviewRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, reviewColumns, quoteTableName(reviewsTable, rs.backend))
	return rs.queryReviews(ctx, query)
}

func (rs *ReviewStoreImpl) queryReviews(ctx context.Context, query string, args ...any) ([]schema.ReviewRecord, error) {
	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []schema.ReviewRecord{}
	for rows.Next() {
		record, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return results, nil
}

// GetAnalytics aggregates every stored review.
func (rs *ReviewStoreImpl) GetAnalytics(ctx context.Context) (schema.Analytics, error) {
	analytics := schema.EmptyAnalytics()
	if rs.disabled() {
		return analytics, nil
	}

	quotedTableName := quoteTableName(reviewsTable, rs.backend)

	totalsQuery := fmt.Sprintf(`SELECT COUNT(*), COALESCE(AVG(score), 0),
		COALESCE(SUM(syntax_error_count), 0), COALESCE(SUM(logic_error_count), 0) FROM %s`, quotedTableName)
	var average float64
	row := rs.db.QueryRowContext(ctx, totalsQuery)
	if err := row.Scan(&analytics.TotalReviews, &average,
		&analytics.ErrorSummary.SyntaxErrors, &analytics.ErrorSummary.LogicErrors); err != nil {
		return analytics, fmt.Errorf("failed to get review totals: %w", err)
	}
	if analytics.TotalReviews == 0 {
		return schema.EmptyAnalytics(), nil
	}
	analytics.AverageScore = math.Round(average*100) / 100
	analytics.ErrorSummary.TotalErrors = analytics.ErrorSummary.SyntaxErrors + analytics.ErrorSummary.LogicErrors

	// Language distribution
	langQuery := fmt.Sprintf(`SELECT language, COUNT(*) FROM %s GROUP BY language`, quotedTableName)
	rows, err := rs.db.QueryContext(ctx, langQuery)
	if err != nil {
		return analytics, fmt.Errorf("failed to query language distribution: %w", err)
	}
	for rows.Next() {
		var language string
		var count int64
		if err := rows.Scan(&language, &count); err != nil {
			_ = rows.Close()
			return analytics, fmt.Errorf("failed to scan language distribution: %w", err)
		}
		analytics.LanguageDistribution[language] = count
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return analytics, fmt.Errorf("error iterating language distribution: %w", err)
	}

	// Recent trends
	trendQuery := fmt.Sprintf(`SELECT created_at, score, filename FROM %s ORDER BY created_at DESC, id DESC LIMIT ?`, quotedTableName)
	rows, err = rs.db.QueryContext(ctx, rebind(trendQuery, rs.backend), recentTrendsLimit)
	if err != nil {
		return analytics, fmt.Errorf("failed to query recent trends: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var createdAt nullTime
		var point schema.TrendPoint
		if err := rows.Scan(&createdAt, &point.Score, &point.Filename); err != nil {
			return analytics, fmt.Errorf("failed to scan recent trend: %w", err)
		}
		point.Date = createdAt.Time.Format(time.DateOnly)
		analytics.RecentTrends = append(analytics.RecentTrends, point)
	}
	if err := rows.Err(); err != nil {
		return analytics, fmt.Errorf("error iterating recent trends: %w", err)
	}

	return analytics, nil
}

// Close closes the underlying connection.
func (rs *ReviewStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the review store.
func (rs *ReviewStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(reviewsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalReviews); err != nil {
		return status, fmt.Errorf("failed to get total reviews: %w", err)
	}

	if status.TotalReviews > 0 {
		var lastTime, oldestTime nullTime
		row = rs.db.QueryRow(fmt.Sprintf("SELECT id, created_at FROM %s ORDER BY id DESC LIMIT 1", quotedTableName))
		if err := row.Scan(&status.LastReviewID, &lastTime); err != nil {
			return status, fmt.Errorf("failed to get last review info: %w", err)
		}
		status.LastReviewTime = lastTime.Time

		row = rs.db.QueryRow(fmt.Sprintf("SELECT created_at FROM %s ORDER BY id ASC LIMIT 1", quotedTableName))
		if err := row.Scan(&oldestTime); err != nil {
			return status, fmt.Errorf("failed to get oldest review time: %w", err)
		}
		status.OldestReviewTime = oldestTime.Time
	}

	for _, table := range []string{reviewsTable, usersTable} {
		var count int64
		row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// encodedReview holds the JSON text columns of a review.
type encodedReview struct {
	analysis     string
	syntaxErrors string
	logicErrors  string
	suggestions  string
	aiAnalysis   string
}

func encodeReview(record schema.ReviewRecord) (encodedReview, error) {
	var out encodedReview
	fields := []struct {
		name  string
		value any
		dest  *string
	}{
		{"analysis", record.Analysis, &out.analysis},
		{"syntax_errors", nonNilFindings(record.SyntaxErrors), &out.syntaxErrors},
		{"logic_errors", nonNilFindings(record.LogicErrors), &out.logicErrors},
		{"suggestions", nonNilStrings(record.Suggestions), &out.suggestions},
		{"ai_analysis", record.AIAnalysis, &out.aiAnalysis},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.value)
		if err != nil {
			return out, fmt.Errorf("failed to marshal %s: %w", f.name, err)
		}
		*f.dest = string(data)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (schema.ReviewRecord, error) {
	var record schema.ReviewRecord
	var createdAt nullTime
	var encoded encodedReview
	if err := row.Scan(&record.ID, &record.Filename, &record.Language, &record.Code, &record.Score,
		&createdAt, &encoded.analysis, &encoded.syntaxErrors, &encoded.logicErrors, &record.Explanation,
		&encoded.suggestions, &record.Issues, &encoded.aiAnalysis); err != nil {
		return record, err
	}
	record.CreatedAt = createdAt.Time

	fields := []struct {
		name string
		data string
		dest any
	}{
		{"analysis", encoded.analysis, &record.Analysis},
		{"syntax_errors", encoded.syntaxErrors, &record.SyntaxErrors},
		{"logic_errors", encoded.logicErrors, &record.LogicErrors},
		{"suggestions", encoded.suggestions, &record.Suggestions},
		{"ai_analysis", encoded.aiAnalysis, &record.AIAnalysis},
	}
	for _, f := range fields {
		if f.data == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.data), f.dest); err != nil {
			return record, fmt.Errorf("failed to decode %s of review %d: %w", f.name, record.ID, err)
		}
	}
	record.SyntaxErrors = nonNilFindings(record.SyntaxErrors)
	record.LogicErrors = nonNilFindings(record.LogicErrors)
	record.Suggestions = nonNilStrings(record.Suggestions)
	return record, nil
}

func nonNilFindings(findings []schema.Finding) []schema.Finding {
	if findings == nil {
		return []schema.Finding{}
	}
	return findings
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
