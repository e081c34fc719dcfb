package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the CLI output.
	OutputMode string

	// DatabaseBackend represents the database backend for review persistence.
	DatabaseBackend string

	// Severity represents how serious a finding is.
	Severity string

	// Provider represents the external model provider.
	Provider string

	// Role represents the authorization role of a user.
	Role string

	// AIStatus represents the outcome of the external model call for a review.
	AIStatus string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All finding severities.
const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// All model providers supported.
const (
	NoProvider        Provider = "none" // default
	AnthropicProvider Provider = "anthropic"
	OpenAIProvider    Provider = "openai"
)

// All user roles supported.
const (
	AdminRole     Role = "admin"
	DeveloperRole Role = "developer" // default
	ViewerRole    Role = "viewer"
)

// All model call outcomes.
const (
	AIStatusOK          AIStatus = "ok"
	AIStatusTimeout     AIStatus = "timeout"
	AIStatusQuota       AIStatus = "quota"
	AIStatusError       AIStatus = "error"
	AIStatusUnavailable AIStatus = "unavailable"
)

// Languages with dedicated handling in the heuristics.
const (
	PythonLanguage     = "python" // default
	CppLanguage        = "cpp"
	JavaScriptLanguage = "javascript"
)

// Finding types emitted by the detectors.
const (
	SyntaxErrorType      = "Syntax Error"
	ParseErrorType       = "Parse Error"
	LanguageMismatchType = "Language Mismatch"
	InfiniteLoopType     = "Infinite Loop"
	MissingElseType      = "Missing Else"
	DivisionByZeroType   = "Division by Zero"
	UnusedVariableType   = "Unused Variable"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidProviders lists all valid model providers.
var ValidProviders = map[Provider]struct{}{
	NoProvider:        {},
	AnthropicProvider: {},
	OpenAIProvider:    {},
}

// ValidRoles lists all valid user roles.
var ValidRoles = map[Role]struct{}{
	AdminRole:     {},
	DeveloperRole: {},
	ViewerRole:    {},
}

// LanguageExtensions maps file extensions to the language names used by reviews.
var LanguageExtensions = map[string]string{
	".py":   PythonLanguage,
	".cpp":  CppLanguage,
	".cc":   CppLanguage,
	".cxx":  CppLanguage,
	".hpp":  CppLanguage,
	".h":    CppLanguage,
	".js":   JavaScriptLanguage,
	".mjs":  JavaScriptLanguage,
	".ts":   "typescript",
	".java": "java",
	".go":   "go",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
}
