//go:build database

package integration

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/store"
	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "codecritic",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/codecritic?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

// TestCodecriticWithMySQL runs the CLI end to end against a MySQL backend.
func TestCodecriticWithMySQL(t *testing.T) {
	runCLIScenario(t, schema.MySQLBackend, startMySQL(t))
}

// TestCodecriticWithPostgres runs the CLI end to end against a PostgreSQL backend.
func TestCodecriticWithPostgres(t *testing.T) {
	runCLIScenario(t, schema.PostgreSQLBackend, startPostgres(t))
}

// runCLIScenario saves two reviews and reads them back through every read command.
func runCLIScenario(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	env := []string{
		"CODECRITIC_STORE_BACKEND=" + string(backend),
		"CODECRITIC_STORE_DB_CONNECT=" + connStr,
		"CODECRITIC_COLOR=no",
	}

	_, err := runCodecritic(t, env, "store", "clear")
	require.NoError(t, err)

	clean := writeSource(t, "hello.py", `print("hi")`)
	mismatch := writeSource(t, "stream.py", "cout << Ravi Singhal")

	out, err := runCodecritic(t, env, "review", clean, "--save", "--output", "json")
	require.NoError(t, err)
	var first struct {
		ReviewID *int64 `json:"review_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	require.NotNil(t, first.ReviewID)

	_, err = runCodecritic(t, env, "review", mismatch, "--save")
	require.NoError(t, err)

	out, err = runCodecritic(t, env, "history", "--output", "json")
	require.NoError(t, err)
	var history []schema.EnrichedReview
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Rank)
	assert.Equal(t, "stream.py", history[0].Filename)
	assert.Equal(t, "Fair", history[0].Grade)
	assert.Equal(t, "hello.py", history[1].Filename)

	out, err = runCodecritic(t, env, "show", strconv.FormatInt(*first.ReviewID, 10), "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "hello.py"`)

	out, err = runCodecritic(t, env, "analytics", "--output", "json")
	require.NoError(t, err)
	var analytics schema.Analytics
	require.NoError(t, json.Unmarshal([]byte(out), &analytics))
	assert.Equal(t, int64(2), analytics.TotalReviews)
	assert.InDelta(t, 70.0, analytics.AverageScore, 0.01)
	assert.Equal(t, int64(2), analytics.LanguageDistribution["python"])
	assert.GreaterOrEqual(t, analytics.ErrorSummary.LogicErrors, int64(1))

	out, err = runCodecritic(t, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Reviews: 2")

	_, err = runCodecritic(t, env, "show", "999999")
	assert.Error(t, err)
}

// TestUserStoreConstraints checks that the unique username and email columns hold on every SQL backend.
func TestUserStoreConstraints(t *testing.T) {
	backends := []struct {
		name    string
		backend schema.DatabaseBackend
		start   func(*testing.T) string
	}{
		{"mysql", schema.MySQLBackend, startMySQL},
		{"postgresql", schema.PostgreSQLBackend, startPostgres},
	}

	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db, err := store.Open(tt.backend, tt.start(t))
			require.NoError(t, err)
			users := store.NewUserStore(db, tt.backend)
			t.Cleanup(func() { _ = db.Close() })

			user := schema.User{
				Username:     "alice",
				Email:        "alice@example.com",
				PasswordHash: "hash",
				Role:         schema.DeveloperRole,
				CreatedAt:    time.Now().UTC(),
			}
			id, err := users.CreateUser(ctx, user)
			require.NoError(t, err)
			assert.Positive(t, id)

			_, err = users.CreateUser(ctx, user)
			assert.ErrorIs(t, err, contract.ErrConflict)

			other := user
			other.Username = "bob"
			_, err = users.CreateUser(ctx, other)
			assert.ErrorIs(t, err, contract.ErrConflict)

			loginAt := time.Now().UTC().Truncate(time.Second)
			require.NoError(t, users.UpdateLastLogin(ctx, id, loginAt))
			got, err := users.GetUserByUsername(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, got.LastLogin)
			assert.WithinDuration(t, loginAt, *got.LastLogin, time.Second)
		})
	}
}
