// Package contract defines the interfaces and shared configuration that the
// review pipeline, storage layer and model clients agree on.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/codecritic/schema"
)

// ErrNotFound is returned by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by stores when a unique constraint would be violated.
var ErrConflict = errors.New("already exists")

// ErrStoreDisabled is returned by the no-op store used with the none backend.
var ErrStoreDisabled = errors.New("persistence is disabled")

// GenerateOptions tunes a single language-model call.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
}

// Generator produces free text from a prompt using a language model.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate sends the prompt and returns the model's text output.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Available reports whether a model is configured and reachable in principle.
	Available() bool

	// Name returns a short provider identifier for logs and health output.
	Name() string
}

// ReviewStore persists review records and derives history and analytics from them.
type ReviewStore interface {
	// InsertReview stores a record and returns its assigned identifier.
	InsertReview(ctx context.Context, record schema.ReviewRecord) (int64, error)

	// ListReviews returns up to limit records, newest first.
	ListReviews(ctx context.Context, limit int) ([]schema.ReviewRecord, error)

	// GetReview returns one record or ErrNotFound.
	GetReview(ctx context.Context, id int64) (schema.ReviewRecord, error)

	// GetAllReviews returns every record, oldest first.
	GetAllReviews(ctx context.Context) ([]schema.ReviewRecord, error)

	// GetAnalytics aggregates statistics across all records.
	GetAnalytics(ctx context.Context) (schema.Analytics, error)

	// GetStatus returns backend status information.
	GetStatus() (schema.StoreStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user schema.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (schema.User, error)
	GetUserByID(ctx context.Context, id int64) (schema.User, error)
	ListUsers(ctx context.Context) ([]schema.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// StoreManager provides access to the configured stores.
type StoreManager interface {
	GetReviewStore() ReviewStore
	GetUserStore() UserStore
}
