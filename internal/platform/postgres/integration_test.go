//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/quill-api/internal/domain"
	"github.com/phrazzld/quill-api/internal/platform/postgres"
	"github.com/phrazzld/quill-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "quill_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/quill_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, postgres.Migrate(context.Background(), db, "up", nil))
	return db
}

func TestStoresAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	db := openMigrated(t)
	breaker := postgres.NewBreakerDB(db, postgres.DefaultBreakerConfig(), nil)
	users := postgres.NewPostgresUserStore(breaker, nil)
	articles := postgres.NewPostgresArticleStore(breaker, nil)

	author, err := domain.NewUser("Author@Example.com", "$2a$04$hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, author))

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := domain.NewUser("author@example.com", "$2a$04$other")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "AUTHOR@example.com")
		require.NoError(t, err)
		assert.Equal(t, author.ID, got.ID)
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	a, err := domain.NewArticle("Bravo", "d", "t", nil, nil, &author.ID, now)
	require.NoError(t, err)
	require.NoError(t, articles.Create(ctx, a))
	b, err := domain.NewArticle("alpha", "d", "t", nil, nil, nil, now.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, articles.Create(ctx, b))

	t.Run("title order is byte-wise", func(t *testing.T) {
		list, err := articles.List(ctx, domain.SortByTitle)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Bravo", list[0].Title)
		assert.Equal(t, "alpha", list[1].Title)
	})

	t.Run("concurrent likes are not lost", func(t *testing.T) {
		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := articles.IncrementLikes(ctx, a.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := articles.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.Likes)
		require.NotNil(t, got.AuthorID)
		assert.Equal(t, author.ID, *got.AuthorID)
	})

	t.Run("update keeps likes", func(t *testing.T) {
		current, err := articles.GetByID(ctx, a.ID)
		require.NoError(t, err)
		edited, err := current.ApplyPatch(domain.ArticlePatch{Title: strPtr("Charlie")}, time.Now())
		require.NoError(t, err)

		got, err := articles.Update(ctx, edited)
		require.NoError(t, err)
		assert.Equal(t, "Charlie", got.Title)
		assert.Equal(t, current.Likes, got.Likes)
	})

	t.Run("unknown article", func(t *testing.T) {
		_, err := articles.IncrementLikes(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}
