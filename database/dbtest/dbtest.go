// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/rpupo63/personal-site-backend/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Open returns an in-memory sqlite database private to t with every table migrated.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.Open(database.Options{
		Dialect:  database.DialectSQLite,
		DSN:      dsn,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the memory database alive and serialises transactions
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// New is Open wrapped in the repository set.
func New(t *testing.T) database.Database {
	t.Helper()
	return database.New(Open(t))
}
