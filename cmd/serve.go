package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/codecritic/core"
	"github.com/huangsam/codecritic/internal/api"
	"github.com/huangsam/codecritic/internal/auth"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/llm"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/spf13/cobra"
)

// newReviewer wires the configured model and store into a Reviewer.
// A nil store means reviews are never persisted.
func newReviewer(reviews contract.ReviewStore) *core.Reviewer {
	return core.NewReviewer(llm.NewGenerator(cfg), reviews, core.OptionsFromConfig(cfg))
}

// newAccounts builds the user service. Without a configured secret tokens
// are signed with a random per-process secret, so they stop working after a restart.
func newAccounts() (*auth.Service, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			return nil, err
		}
		logging.Warn().Msg("jwt-secret is empty; issued tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenManager(secret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	return auth.NewService(store.Manager.GetUserStore(), tokens), nil
}

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the code review HTTP API",
	Long: `Start the HTTP API that scores code, stores review history and
exposes the optional AI endpoints.

Endpoints live under /api:
- POST /api/review            review a snippet
- GET  /api/history           recent stored reviews
- GET  /api/review/{id}       one stored review
- GET  /api/analytics         aggregate statistics
- POST /api/ai/*              AI-assisted security, tests, explain and quality
- /api/users/*                register, login and profile

Prometheus metrics are served at /metrics.

Examples:
  # Serve with SQLite history on the default port
  codecritic serve

  # Require tokens and enable Anthropic enrichment
  codecritic serve --auth-required --jwt-secret s3cret \
    --ai-provider anthropic --ai-api-key $KEY --ai-enrich-reviews`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		accounts, err := newAccounts()
		if err != nil {
			return fmt.Errorf("failed to configure tokens: %w", err)
		}
		created, err := accounts.EnsureAdmin(ctx, cfg.AdminPassword)
		if err != nil {
			contract.LogWarn("Failed to seed admin account", err)
		} else if created {
			logging.Info().Str("username", auth.AdminUsername).Msg("admin account created")
		}

		reviews := store.Manager.GetReviewStore()
		server := api.NewServer(newReviewer(reviews), reviews, accounts, api.OptionsFromConfig(cfg))
		return server.ListenAndServe(ctx, cfg.Addr)
	},
}
