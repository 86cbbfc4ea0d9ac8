package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ahumphries/campusnet/internal/config"
	"github.com/ahumphries/campusnet/internal/database"
	"github.com/ahumphries/campusnet/internal/handlers"
	"github.com/ahumphries/campusnet/internal/logging"
	"github.com/ahumphries/campusnet/internal/middleware"
	"github.com/ahumphries/campusnet/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"env": cfg.Server.Environment,
		})
	}

	logger.Info("Starting CampusNet server...")

	logger.Info("Connecting to PostgreSQL")
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.URL, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	userService := services.NewUserService(dbAdapter)
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	providerAuthService := services.NewProviderAuthService(dbAdapter)
	friendService := services.NewFriendService(dbAdapter)
	groupService := services.NewGroupService(dbAdapter)
	postService := services.NewPostService(dbAdapter)
	searchService := services.NewSearchService(dbAdapter)

	oauthProviders := map[services.Provider]services.OAuthProvider{}
	if cfg.OAuth.Google.Enabled {
		googleProvider, err := services.NewOIDCProvider(context.Background(), services.OIDCProviderConfig{
			Provider:     services.ProviderGoogle,
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
			IssuerURL:    cfg.OAuth.Google.IssuerURL,
			Scopes:       cfg.OAuth.Google.Scopes,
		})
		if err != nil {
			return fmt.Errorf("initializing google oidc provider: %w", err)
		}
		oauthProviders[services.ProviderGoogle] = googleProvider
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	authHandler := handlers.NewAuthHandler(userService, authService)
	providerAuthHandler := handlers.NewProviderAuthHandler(providerAuthService, authService, redisAdapter, oauthProviders, cfg.Server.Secure)
	friendHandler := handlers.NewFriendHandler(friendService)
	groupHandler := handlers.NewGroupHandler(groupService)
	postHandler := handlers.NewPostHandler(postService)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	requestLogger := middleware.NewRequestLogger(logger)

	loginRateLimit := resolveLoginRateLimit(cfg, logger, os.LookupEnv)
	loginRateLimiter := middleware.NewRateLimiter(redisDB.Client, loginRateLimit, 15*time.Minute, "ratelimit:login:", middleware.GetClientIP, false)

	requireAuth := authMiddleware.RequireAuth

	// Router
	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /api/auth/register", loginRateLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", loginRateLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/auth/{provider}/start", http.HandlerFunc(providerAuthHandler.ProviderStart))
	mux.Handle("GET /api/auth/{provider}/callback", http.HandlerFunc(providerAuthHandler.ProviderCallback))
	mux.Handle("POST /api/auth/{provider}/complete", http.HandlerFunc(providerAuthHandler.ProviderComplete))

	// Friend endpoints
	mux.Handle("POST /api/friends/requests", requireAuth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("POST /api/friends/accept", requireAuth(http.HandlerFunc(friendHandler.Accept)))

	// Group endpoints
	mux.Handle("POST /api/groups/{id}/join", requireAuth(http.HandlerFunc(groupHandler.Join)))

	// Post endpoints
	mux.Handle("POST /api/posts", requireAuth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/posts/drafts", requireAuth(http.HandlerFunc(postHandler.Drafts)))
	mux.Handle("POST /api/posts/{id}/publish", requireAuth(http.HandlerFunc(postHandler.Publish)))
	mux.Handle("DELETE /api/posts/{id}", requireAuth(http.HandlerFunc(postHandler.DeleteDraft)))
	mux.Handle("POST /api/posts/{id}/photos", requireAuth(http.HandlerFunc(postHandler.AddPhoto)))
	mux.Handle("POST /api/posts/{id}/like", requireAuth(http.HandlerFunc(postHandler.Like)))
	mux.Handle("POST /api/posts/{id}/comments", requireAuth(http.HandlerFunc(postHandler.Comment)))

	// Search (public)
	mux.Handle("GET /api/search", http.HandlerFunc(searchHandler.Search))

	// Middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

func resolveLoginRateLimit(cfg *config.Config, logger *logging.Logger, lookupEnv func(string) (string, bool)) int64 {
	loginRateLimit := int64(20)
	if cfg.Server.Environment == "development" {
		loginRateLimit = 200
		logger.Info("Using development login rate limit", map[string]interface{}{"limit": loginRateLimit})
	}
	if v, ok := lookupEnv("LOGIN_RATE_LIMIT"); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			loginRateLimit = parsed
			logger.Info("Using login rate limit from env", map[string]interface{}{"limit": loginRateLimit})
		} else {
			logger.Warn("Invalid LOGIN_RATE_LIMIT; using default", map[string]interface{}{
				"value": v,
				"limit": loginRateLimit,
			})
		}
	}
	return loginRateLimit
}
