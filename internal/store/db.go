package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Table names for review persistence.
const (
	reviewsTable = "codecritic_reviews"
	usersTable   = "codecritic_users"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

// postgresUniqueViolation is the SQLSTATE for unique key violations.
const postgresUniqueViolation = "23505"

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// Open connects to the backend, verifies the connection and creates missing tables.
// The none backend yields a nil *sql.DB and no error.
func Open(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetReviewDBFilePath()
		}
		db, err = sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		dsn, dsnErr := mysqlDSN(connStr)
		if dsnErr != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection string format: user:password@tcp(host:port)/dbname", dsnErr)
		}
		db, err = sql.Open(driverName(backend), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=codecritic", err)
		}

	case schema.NoneBackend:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create review tables: %w", err)
	}

	return db, nil
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// createTables creates the review and user tables and their indexes.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name    string
		queries []string
	}{
		{reviewsTable, getCreateReviewsQueries(backend)},
		{usersTable, []string{getCreateUsersQuery(backend)}},
	}

	for _, table := range tables {
		for _, query := range table.queries {
			if _, err := db.Exec(query); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.name, err)
			}
		}
	}

	return nil
}

// getCreateReviewsQueries returns the CREATE statements for the reviews table.
func getCreateReviewsQueries(backend schema.DatabaseBackend) []string {
	quotedTableName := quoteTableName(reviewsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				filename VARCHAR(255) NOT NULL,
				language VARCHAR(32) NOT NULL,
				code LONGTEXT NOT NULL,
				score INT NOT NULL,
				created_at DATETIME(6) NOT NULL,
				analysis TEXT NOT NULL,
				syntax_errors MEDIUMTEXT NOT NULL,
				logic_errors MEDIUMTEXT NOT NULL,
				explanation MEDIUMTEXT NOT NULL,
				suggestions MEDIUMTEXT NOT NULL,
				issues VARCHAR(255) NOT NULL,
				ai_analysis LONGTEXT NOT NULL,
				syntax_error_count INT NOT NULL DEFAULT 0,
				logic_error_count INT NOT NULL DEFAULT 0,
				INDEX idx_codecritic_reviews_created_at (created_at)
			);
		`, quotedTableName)}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				filename TEXT NOT NULL,
				language TEXT NOT NULL,
				code TEXT NOT NULL,
				score INT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				analysis TEXT NOT NULL,
				syntax_errors TEXT NOT NULL,
				logic_errors TEXT NOT NULL,
				explanation TEXT NOT NULL,
				suggestions TEXT NOT NULL,
				issues TEXT NOT NULL,
				ai_analysis TEXT NOT NULL,
				syntax_error_count INT NOT NULL DEFAULT 0,
				logic_error_count INT NOT NULL DEFAULT 0
			);
		`, quotedTableName),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_codecritic_reviews_created_at ON %s (created_at)`, quotedTableName),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				filename TEXT NOT NULL,
				language TEXT NOT NULL,
				code TEXT NOT NULL,
				score INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				analysis TEXT NOT NULL,
				syntax_errors TEXT NOT NULL,
				logic_errors TEXT NOT NULL,
				explanation TEXT NOT NULL,
				suggestions TEXT NOT NULL,
				issues TEXT NOT NULL,
				ai_analysis TEXT NOT NULL,
				syntax_error_count INTEGER NOT NULL DEFAULT 0,
				logic_error_count INTEGER NOT NULL DEFAULT 0
			);
		`, quotedTableName),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_codecritic_reviews_created_at ON %s (created_at)`, quotedTableName),
		}
	}
}

// getCreateUsersQuery returns the CREATE TABLE query for the users table.
func getCreateUsersQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(usersTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(80) NOT NULL UNIQUE,
				email VARCHAR(120) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL,
				created_at DATETIME(6) NOT NULL,
				last_login DATETIME(6) NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				last_login TIMESTAMPTZ
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				last_login TEXT
			);
		`, quotedTableName)
	}
}

// quoteTableName quotes a table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeLayout)
	default:
		return t.UTC()
	}
}

// sqliteTimeLayout keeps a fixed width so text timestamps sort chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// mysqlTimeLayout is how MySQL renders DATETIME(6) when parseTime is off.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// nullTime scans timestamps stored natively or as RFC3339 text.
type nullTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (nt *nullTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	case time.Time:
		nt.Time, nt.Valid = v.UTC(), true
		return nil
	case string:
		return nt.parse(v)
	case []byte:
		return nt.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
}

func (nt *nullTime) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, mysqlTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			nt.Time, nt.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp %q", s)
}

// isUniqueViolation reports whether err is a unique constraint failure on any backend.
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
