package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/schema"
)

const userColumns = `id, username, email, password_hash, role, created_at, last_login`

// UserStoreImpl implements the UserStore interface.
type UserStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.UserStore = &UserStoreImpl{} // Compile-time check

// NewUserStore creates a UserStore over an opened connection.
// A nil db produces a store that rejects every call with ErrStoreDisabled.
func NewUserStore(db *sql.DB, backend schema.DatabaseBackend) contract.UserStore {
	if db == nil {
		backend = schema.NoneBackend
	}
	return &UserStoreImpl{db: db, backend: backend}
}

func (us *UserStoreImpl) disabled() bool {
	return us.backend == schema.NoneBackend || us.db == nil
}

// CreateUser inserts a user and returns its id, or ErrConflict when the name or email is taken.
func (us *UserStoreImpl) CreateUser(ctx context.Context, user schema.User) (int64, error) {
	if us.disabled() {
		return 0, contract.ErrStoreDisabled
	}

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := fmt.Sprintf(`INSERT INTO %s (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		quoteTableName(usersTable, us.backend))
	args := []any{user.Username, user.Email, user.PasswordHash, string(user.Role), formatTime(createdAt, us.backend)}

	var id int64
	var err error
	switch us.backend {
	case schema.PostgreSQLBackend:
		err = us.db.QueryRowContext(ctx, rebind(query, us.backend)+" RETURNING id", args...).Scan(&id)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = us.db.ExecContext(ctx, query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	}
	if isUniqueViolation(err) {
		return 0, contract.ErrConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

// GetUserByUsername looks a user up by name.
func (us *UserStoreImpl) GetUserByUsername(ctx context.Context, username string) (schema.User, error) {
	return us.getUser(ctx, "username", username)
}

// GetUserByID looks a user up by id.
func (us *UserStoreImpl) GetUserByID(ctx context.Context, id int64) (schema.User, error) {
	return us.getUser(ctx, "id", id)
}

func (us *UserStoreImpl) getUser(ctx context.Context, column string, value any) (schema.User, error) {
	if us.disabled() {
		return schema.User{}, contract.ErrStoreDisabled
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, userColumns, quoteTableName(usersTable, us.backend), column)
	user, err := scanUser(us.db.QueryRowContext(ctx, rebind(query, us.backend), value))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.User{}, ErrNotFound
	}
	if err != nil {
		return schema.User{}, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

// ListUsers returns every user ordered by id.
func (us *UserStoreImpl) ListUsers(ctx context.Context) ([]schema.User, error) {
	if us.disabled() {
		return nil, contract.ErrStoreDisabled
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, userColumns, quoteTableName(usersTable, us.backend))
	rows, err := us.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []schema.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// UpdateLastLogin records a successful login.
func (us *UserStoreImpl) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if us.disabled() {
		return contract.ErrStoreDisabled
	}

	query := fmt.Sprintf(`UPDATE %s SET last_login = ? WHERE id = ?`, quoteTableName(usersTable, us.backend))
	if _, err := us.db.ExecContext(ctx, rebind(query, us.backend), formatTime(at, us.backend), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (schema.User, error) {
	var user schema.User
	var role string
	var createdAt, lastLogin nullTime
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &createdAt, &lastLogin); err != nil {
		return user, err
	}
	user.Role = schema.Role(role)
	user.CreatedAt = createdAt.Time
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}
