//go:build integration

package database_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("personal_site_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(database.Options{
		Dialect:  database.DialectPostgres,
		DSN:      dsn,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return database.New(db)
}

func TestPostgresDuplicatesAndSiblings(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)

	swift := &models.BlogCategory{Name: "swift"}
	require.NoError(t, db.BlogCategoryRepo().Create(ctx, swift))
	err := db.BlogCategoryRepo().Create(ctx, &models.BlogCategory{Name: "swift"})
	assert.Equal(t, http.StatusUnprocessableEntity, errs.StatusOf(err))

	user := &models.User{Username: "jk1", PasswordHash: "x", FirstName: "J", LastName: "K"}
	require.NoError(t, db.UserRepo().Create(ctx, user))

	blog := &models.Blog{Alias: "hello", Title: "Hello", Content: "blog/hello.md"}
	blog.SetOwner(user.ID)
	require.NoError(t, db.BlogRepo().Create(ctx, blog))

	delta, err := database.BlogCategories.Sync(db.DB(), blog.ID, []uuid.UUID{swift.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{swift.ID}, delta.Attach)

	found, err := db.BlogRepo().Identified(ctx, "hello", database.OwnedBy(user.ID), database.Preload("Categories"))
	require.NoError(t, err)
	require.Len(t, found.Categories, 1)
}
