package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/config"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c *config.Config) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	storage, err := newStorage(c)
	if err != nil {
		return Server{}, err
	}

	router := newRouter(database, withConfig(c), withStartupTime(startupTime), withStorage(storage))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

// newStorage picks where uploads are written: the local public directory, or
// S3 when STORAGE_DRIVER=s3.
func newStorage(c *config.Config) (services.Storage, error) {
	switch driver := config.GetString(c, "STORAGE_DRIVER", "local"); driver {
	case "local", "":
		return services.NewLocalStorage(config.GetString(c, "PUBLIC_DIR", "./Public")), nil
	case "s3":
		bucket := config.GetString(c, "S3_BUCKET_NAME", "")
		if bucket == "" {
			return nil, fmt.Errorf("STORAGE_DRIVER=s3 requires S3_BUCKET_NAME")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return services.NewS3StorageFromEnv(ctx, bucket, config.GetString(c, "AWS_REGION", ""))
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", driver)
	}
}

type router struct {
	config      *config.Config
	startupTime time.Time
	storage     services.Storage
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withStorage(storage services.Storage) func(*router) {
	return func(r *router) {
		r.storage = storage
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}
	if router.storage == nil {
		router.storage = services.NewLocalStorage(config.GetString(router.config, "PUBLIC_DIR", "./Public"))
	}

	secret := config.GetString(router.config, "TOKEN_SECRET", "")
	if secret == "" {
		log.Warn().Msg("TOKEN_SECRET is not set; tokens will not survive a restart")
		secret = uuid.NewString()
	}

	deps := handlerDeps{
		auth:     services.NewAuthService(database.TokenRepo(), secret),
		media:    services.NewMediaService(router.storage),
		articles: services.NewArticleStore(config.GetString(router.config, "RESOURCES_DIR", "./Resources")),
		bucket:   services.NewBucket(config.GetString(router.config, "IMG_BUCKET_URL", "")),
	}
	handlers := initializeHandlers(database, deps)
	authMiddleware := newAuthMiddleware(deps.auth)
	metrics := newHTTPMetrics()

	requestLogger := log.Logger
	if config.GetString(router.config, "LOG_FORMAT", "json") == "console" {
		requestLogger = consoleLogger()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(config.GetStrings(router.config, "ACCEPTED_ORIGINS")))
	chiRouter.Use(metrics.middleware)
	chiRouter.Use(requestLogging(requestLogger))

	startupTime := router.startupTime
	chiRouter.Get("/healthz", healthz(
		NewResponder(log.With().Str("handlerName", "healthz").Logger()),
		func(r *http.Request) error { return database.Ping(r.Context()) },
		func() int64 { return int64(time.Since(startupTime).Seconds()) },
	))
	chiRouter.Method(http.MethodGet, "/metrics", metrics.handler())

	setupRoutes(chiRouter, handlers, authMiddleware, router.storage)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
