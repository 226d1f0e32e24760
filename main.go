package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	api "github.com/rpupo63/personal-site-backend/api"
	"github.com/rpupo63/personal-site-backend/config"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c, err := config.New()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	configureLogging(c)

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if err := loadSSM(c, prefix); err != nil {
			log.Fatal().Err(err).Str("prefix", prefix).Msg("error loading SSM parameters")
		}
	}

	dbType := config.GetString(c, "DB_TYPE", database.DialectSQLite)
	log.Info().Str("dbType", dbType).Msg("connecting to database")

	db, err := database.Open(database.Options{
		Dialect:    dbType,
		DSN:        config.GetString(c, "DATABASE_URL", "personal-site.db"),
		ReplicaDSN: config.GetString(c, "DB_REPLICA_URL", ""),
		LogLevel:   gormLogLevel(config.GetString(c, "LOG_LEVEL", "info")),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db, "./query")
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		report, err := models.ColumnMismatchReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("error building column report")
		}
		models.PrintColumnMismatchReport(os.Stdout, report)
		return
	}

	currentDB := database.New(db)

	// One slot each for the server and the interrupt listener, so neither blocks after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB, c)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeExpiredTokens(purgeCtx, currentDB, time.Hour)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func configureLogging(c *config.Config) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}

func loadSSM(c *config.Config, prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	loaded, err := config.LoadSSM(ctx, c, ssm.NewFromConfig(awsCfg), prefix)
	if err != nil {
		return err
	}
	log.Info().Int("parameters", loaded).Str("prefix", prefix).Msg("loaded SSM parameters")
	return nil
}

// purgeExpiredTokens deletes expired token rows every interval until ctx ends.
func purgeExpiredTokens(ctx context.Context, db database.Database, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := db.TokenRepo().PurgeExpired(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("error purging expired tokens")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("purged expired tokens")
			}
		}
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
