package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Options selects the store to connect to.
type Options struct {
	Dialect    string
	DSN        string
	ReplicaDSN string // optional read replica, postgres only
	LogLevel   logger.LogLevel
}

// Open connects to the configured store and verifies the connection.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(opts Options) (*gorm.DB, error) {
	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	switch opts.Dialect {
	case DialectPostgres, "supa":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case DialectSQLite:
		db, err = gorm.Open(sqlite.Open(opts.DSN), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", opts.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if opts.ReplicaDSN != "" && opts.Dialect != DialectSQLite {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  opts.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("error registering read replica: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}
