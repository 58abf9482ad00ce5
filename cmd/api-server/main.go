package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/logging"
	"reviewhub/internal/microservices/http-api/handler"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/internal/middleware/auth"
	"reviewhub/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeDB(db, logger)

	codeStore, redisClient, err := newCodeStore(ctx, cfg)
	if err != nil {
		logger.Error("redis_connect_failed", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	router := buildRouter(cfg, logger, db, codeStore, redisClient)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http_server_listening", slog.String("addr", srv.Addr), slog.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", slog.Any("error", err))
		return
	}
	logger.Info("server_stopped_gracefully")
}

func buildRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, codeStore auth.CodeStore, redisClient *redis.Client) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL)
	codes := auth.NewCodeIssuer(codeStore, cfg.ConfirmationCodeTTL)
	mailer := notify.New(cfg, logger)

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, codes, tokens, mailer)),
		User:     handler.NewUserHandler(service.NewUserService(userRepo)),
		Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Genre:    handler.NewGenreHandler(service.NewGenreService(genreRepo)),
		Title:    handler.NewTitleHandler(service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)),
		Review:   handler.NewReviewHandler(service.NewReviewService(reviewRepo, titleRepo)),
		Comment:  handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo)),
	}

	return handler.NewRouter(handler.RouterDeps{
		Logger:      logger,
		Tokens:      tokens,
		Users:       userRepo,
		AuthLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Health: func(c *gin.Context) error {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if redisClient != nil {
				if err := redisClient.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	}, handlers)
}

// newCodeStore keeps confirmation codes in Redis when REDIS_URL is set and in
// process memory otherwise.
func newCodeStore(ctx context.Context, cfg *config.Config) (auth.CodeStore, *redis.Client, error) {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, confirmation codes are kept in memory")
		return auth.NewMemoryCodeStore(), nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return auth.NewRedisCodeStore(client), client, nil
}

func closeDB(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("database_close_failed", slog.Any("error", err))
	}
}
