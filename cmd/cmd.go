// Package cmd defines the command-line interface for codecritic.
package cmd

import (
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("history-limit", contract.DefaultHistoryLimit, "Number of stored reviews to list")
	rootCmd.PersistentFlags().String("ai-provider", string(schema.NoProvider), "Model provider: none or anthropic or openai")
	rootCmd.PersistentFlags().String("ai-api-key", "", "API key for the model provider")
	rootCmd.PersistentFlags().String("ai-base-url", "", "Base URL override for the model provider")
	rootCmd.PersistentFlags().String("ai-model", "", "Model identifier (defaults per provider)")
	rootCmd.PersistentFlags().Int("ai-max-output-tokens", contract.DefaultMaxOutputTokens, "Maximum tokens per model reply")
	rootCmd.PersistentFlags().Float64("ai-temperature", contract.DefaultTemperature, "Sampling temperature for model calls")
	rootCmd.PersistentFlags().String("ai-timeout", contract.DefaultAITimeout.String(), "Deadline for a single model call")
	rootCmd.PersistentFlags().Bool("ai-enrich-reviews", true, "Ask the model for a second opinion on every review")
	rootCmd.PersistentFlags().Int("ai-max-concurrent", contract.DefaultMaxConcurrent, "Maximum concurrent model calls")
	rootCmd.PersistentFlags().Int("prompt-max-lines", contract.DefaultPromptMaxLines, "Maximum code lines sent to the model")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP server to listen on")
	serveCmd.Flags().String("cors-origins", "*", "Comma-separated list of allowed CORS origins")
	serveCmd.Flags().Int("rate-limit", contract.DefaultRateLimit, "Requests per minute allowed per client IP")
	serveCmd.Flags().String("jwt-secret", "", "Secret used to sign access tokens")
	serveCmd.Flags().String("jwt-ttl", contract.DefaultJWTTTL.String(), "Lifetime of issued access tokens")
	serveCmd.Flags().Bool("auth-required", false, "Require a bearer token for review and AI endpoints")
	serveCmd.Flags().String("admin-password", "", "Seed an admin account with this password on startup")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of reviewCmd to Viper
	reviewCmd.Flags().String("language", "", "Language of the code (detected from the file extension when empty)")
	reviewCmd.Flags().Bool("save", false, "Persist the review to the configured store")
	if err := viper.BindPFlags(reviewCmd.Flags()); err != nil {
		contract.LogFatal("Error binding review flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
