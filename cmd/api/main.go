// Package main is the entrypoint for the boardkit auth API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/boardkit/boardkit/internal/auth"
	"github.com/boardkit/boardkit/internal/cache"
	"github.com/boardkit/boardkit/internal/config"
	"github.com/boardkit/boardkit/internal/handler"
	"github.com/boardkit/boardkit/internal/metrics"
	"github.com/boardkit/boardkit/internal/repository"
	"github.com/boardkit/boardkit/internal/router"
	"github.com/boardkit/boardkit/internal/server"
	"github.com/boardkit/boardkit/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// storeDeps is the credential store and its shutdown hook.
type storeDeps struct {
	store cache.Store
	close server.ShutdownFunc
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	deps, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var (
		store       service.UserStore = deps.store
		cacheClient *cache.Cache
		cachePing   handler.HealthChecker
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.Open(ctx, cfg.RedisURL, cache.Options{
			PoolSize:  cfg.RedisPoolSize,
			OpTimeout: cfg.RedisOpTimeout,
		})
		if err != nil {
			_ = deps.close(ctx)
			return fmt.Errorf("connect to Redis (%s): %s", redactURL(cfg.RedisURL), sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis", "ttl", cfg.UserCacheTTL)

		store = cache.NewUserStore(deps.store, cacheClient, cfg.UserCacheTTL, logger)
		cachePing = cacheClient
	}

	var (
		recorder metrics.Recorder = metrics.NewNoop()
		exporter http.Handler
	)
	if cfg.MetricsEnabled {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheus(reg)
		exporter = metrics.Handler(reg)
	}

	hasher := auth.NewHasher(auth.Argon2Params{
		Time:    cfg.Argon2Time,
		Memory:  cfg.Argon2MemoryKB,
		Threads: cfg.Argon2Threads,
	})
	codec := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenIATLeeway)

	authService, err := service.NewAuthService(store, hasher, codec, recorder, logger)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	mux := router.New(router.Config{
		Logger:             logger,
		TokenHeader:        cfg.TokenHeader,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}, router.Handlers{
		Fallback: handler.New(),
		Auth:     handler.NewAuthHandler(authService, cfg.TokenHeader, logger),
		Health:   handler.NewHealthHandler(deps.store, cachePing),
		Metrics:  handler.NewMetricsHandler(exporter),
	})

	srv := server.New(
		mux,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("store", deps.close)
	if cacheClient != nil {
		srv.OnShutdown("cache", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", cfg.StoreDriver,
		"cache", cfg.CacheEnabled(),
		"metrics", cfg.MetricsEnabled,
	)

	return srv.Run(ctx)
}

// openStore connects the configured credential store.
// Postgres schemas are migrated before the server accepts traffic.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storeDeps, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory credential store; users are lost on restart")
		mem := repository.NewMemoryStore()
		return &storeDeps{
			store: mem,
			close: func(context.Context) error { return nil },
		}, nil

	default:
		repo, err := repository.Open(ctx, cfg.DatabaseURL, repository.PoolConfig{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, errors.New("failed to connect to database")
		}
		logger.Info("connected to database")

		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("migrate database: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("database migrations applied")

		return &storeDeps{
			store: repo,
			close: func(context.Context) error {
				repo.Close()
				return nil
			},
		}, nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
