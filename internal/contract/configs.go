package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/codecritic/schema"
)

// Default values for configuration.
const (
	DefaultAddr            = ":5000"
	DefaultHistoryLimit    = 50
	MaxHistoryLimit        = 500
	DefaultMaxOutputTokens = 6000
	DefaultTemperature     = 0.7
	DefaultAITimeout       = 90 * time.Second
	DefaultMaxConcurrent   = 3
	DefaultPromptMaxLines  = 300
	DefaultJWTTTL          = 24 * time.Hour
	DefaultRateLimit       = 120
	DefaultTableWidth      = 120
)

// Default model identifiers per provider.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
)

// Config holds the final, validated configuration used by every command.
type Config struct {
	// Server
	Addr        string
	CORSOrigins []string
	RateLimit   int

	// Persistence
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string
	HistoryLimit   int

	// Language model
	AIProvider        schema.Provider
	AIAPIKey          string
	AIBaseURL         string
	AIModel           string
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeout         time.Duration
	AIEnrichReviews   bool
	AIMaxConcurrent   int
	PromptMaxLines    int

	// Users
	JWTSecret     string
	JWTTTL        time.Duration
	AuthRequired  bool
	AdminPassword string

	// Output
	Output     schema.OutputMode
	OutputFile string
	Width      int
	UseColors  bool

	// Logging
	LogLevel  string
	LogFormat string

	// Review command
	Language string
	Save     bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Addr        string `mapstructure:"addr"`
	CORSOrigins string `mapstructure:"cors-origins"`
	RateLimit   int    `mapstructure:"rate-limit"`

	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	HistoryLimit   int    `mapstructure:"history-limit"`

	AIProvider        string  `mapstructure:"ai-provider"`
	AIAPIKey          string  `mapstructure:"ai-api-key"`
	AIBaseURL         string  `mapstructure:"ai-base-url"`
	AIModel           string  `mapstructure:"ai-model"`
	AIMaxOutputTokens int     `mapstructure:"ai-max-output-tokens"`
	AITemperature     float64 `mapstructure:"ai-temperature"`
	AITimeout         string  `mapstructure:"ai-timeout"`
	AIEnrichReviews   bool    `mapstructure:"ai-enrich-reviews"`
	AIMaxConcurrent   int     `mapstructure:"ai-max-concurrent"`
	PromptMaxLines    int     `mapstructure:"prompt-max-lines"`

	JWTSecret     string `mapstructure:"jwt-secret"`
	JWTTTL        string `mapstructure:"jwt-ttl"`
	AuthRequired  bool   `mapstructure:"auth-required"`
	AdminPassword string `mapstructure:"admin-password"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// --- Fields from reviewCmd.Flags() ---
	Language string `mapstructure:"language"`
	Save     bool   `mapstructure:"save"`
}

// ProcessAndValidate processes the raw inputs and validates them into cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	if err := validateAIConfig(cfg, input); err != nil {
		return err
	}
	if err := validateAuthConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes server, output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Language = schema.NormalizeLanguage(input.Language)
	cfg.Save = input.Save
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	cfg.LogFormat = strings.ToLower(input.LogFormat)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be greater than 0 (received %d)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	cfg.CORSOrigins = nil
	for origin := range strings.SplitSeq(input.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return nil
}

// validateStoreConfig validates the persistence backend settings.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	if input.HistoryLimit <= 0 || input.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("history-limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.HistoryLimit)
	}
	cfg.HistoryLimit = input.HistoryLimit
	return nil
}

// validateAIConfig validates the language model settings. A provider without
// a key is downgraded to none so the service keeps running on heuristics.
func validateAIConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.AIProvider = schema.Provider(strings.ToLower(input.AIProvider))
	if cfg.AIProvider == "" {
		cfg.AIProvider = schema.NoProvider
	}
	if _, ok := schema.ValidProviders[cfg.AIProvider]; !ok {
		return fmt.Errorf("invalid ai provider '%s'. must be none, anthropic, openai", input.AIProvider)
	}
	cfg.AIAPIKey = input.AIAPIKey
	cfg.AIBaseURL = strings.TrimSuffix(input.AIBaseURL, "/")
	cfg.AIModel = input.AIModel
	cfg.AIEnrichReviews = input.AIEnrichReviews

	switch cfg.AIProvider {
	case schema.AnthropicProvider:
		if cfg.AIModel == "" {
			cfg.AIModel = DefaultAnthropicModel
		}
	case schema.OpenAIProvider:
		if cfg.AIModel == "" {
			cfg.AIModel = DefaultOpenAIModel
		}
		if cfg.AIBaseURL == "" {
			cfg.AIBaseURL = DefaultOpenAIBaseURL
		}
	}
	if cfg.AIProvider != schema.NoProvider && cfg.AIAPIKey == "" {
		LogWarn("AI provider disabled", fmt.Errorf("ai-api-key is empty for provider %s", cfg.AIProvider))
		cfg.AIProvider = schema.NoProvider
	}

	if input.AIMaxOutputTokens <= 0 {
		return fmt.Errorf("ai-max-output-tokens must be greater than 0 (received %d)", input.AIMaxOutputTokens)
	}
	cfg.AIMaxOutputTokens = input.AIMaxOutputTokens

	if input.AITemperature < 0 || input.AITemperature > 2 {
		return fmt.Errorf("ai-temperature must be between 0 and 2 (received %g)", input.AITemperature)
	}
	cfg.AITemperature = input.AITemperature

	timeout, err := time.ParseDuration(input.AITimeout)
	if err != nil || timeout <= 0 {
		return fmt.Errorf("invalid ai-timeout '%s'. must be a positive duration like 90s", input.AITimeout)
	}
	cfg.AITimeout = timeout

	if input.AIMaxConcurrent <= 0 {
		return fmt.Errorf("ai-max-concurrent must be greater than 0 (received %d)", input.AIMaxConcurrent)
	}
	cfg.AIMaxConcurrent = input.AIMaxConcurrent

	if input.PromptMaxLines <= 0 {
		return fmt.Errorf("prompt-max-lines must be greater than 0 (received %d)", input.PromptMaxLines)
	}
	cfg.PromptMaxLines = input.PromptMaxLines
	return nil
}

// validateAuthConfig validates the token settings.
func validateAuthConfig(cfg *Config, input *ConfigRawInput) error {
	ttl, err := time.ParseDuration(input.JWTTTL)
	if err != nil || ttl <= 0 {
		return fmt.Errorf("invalid jwt-ttl '%s'. must be a positive duration like 24h", input.JWTTTL)
	}
	cfg.JWTTTL = ttl
	cfg.JWTSecret = input.JWTSecret
	cfg.AuthRequired = input.AuthRequired
	cfg.AdminPassword = input.AdminPassword

	if cfg.AuthRequired && cfg.JWTSecret == "" {
		return fmt.Errorf("jwt-secret is required when auth-required is enabled")
	}
	return nil
}

// GenerateOptions builds per-call model options from the configuration.
func (c *Config) GenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxOutputTokens: c.AIMaxOutputTokens,
		Temperature:     c.AITemperature,
		Timeout:         c.AITimeout,
	}
}
