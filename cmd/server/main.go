// Copyright 2026 The CampusGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/unrolled/secure"

	"github.com/campusgate/campusgate/internal/audit"
	"github.com/campusgate/campusgate/internal/config"
	"github.com/campusgate/campusgate/internal/identity"
	"github.com/campusgate/campusgate/internal/observability/logger"
	"github.com/campusgate/campusgate/internal/observability/metrics"
	"github.com/campusgate/campusgate/internal/observability/tracing"
	"github.com/campusgate/campusgate/internal/platform"
	"github.com/campusgate/campusgate/internal/policy"
	"github.com/campusgate/campusgate/internal/session"
	"github.com/campusgate/campusgate/internal/store/postgres"
	transportHTTP "github.com/campusgate/campusgate/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting campusgate admin gateway")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	_, err = metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize repositories and services
	sessionRepo := postgres.NewSessionRepository(db)
	sessionService := session.NewService(sessionRepo, cfg.Session.Lifetime, cfg.Session.IdleTimeout)

	auditLogger := audit.NewSlogLogger()
	passwordHasher := identity.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	resolver := identity.NewResolver(sessionService)
	verifier := identity.NewTokenVerifier([]byte(cfg.Platform.TokenSecret), cfg.Platform.TokenIssuer)
	bootstrap := identity.NewBootstrap(cfg.Bootstrap.Email, cfg.Bootstrap.PasswordHash, passwordHasher)
	if bootstrap.Enabled() {
		slog.Warn("break-glass bootstrap login is enabled", slog.String("email", cfg.Bootstrap.Email))
	}

	platformClient := platform.New(cfg.Platform.BaseURL, cfg.Platform.Timeout)
	routes := policy.NewRoutePolicy(policy.DefaultRoutes())

	// Rate limiters: in-process token bucket for general traffic, shared
	// Redis window for login attempts so the budget holds across replicas.
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	var loginLimiter *transportHTTP.LoginLimiter
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, login rate limiting disabled", logger.Error(err))
	} else {
		loginLimiter = transportHTTP.NewLoginLimiter(redisClient, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	}

	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:           cfg.Security.SSLRedirect,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: cfg.Security.ContentSecurity,
	})

	// Configure SameSite mode
	sameSite := http.SameSiteLaxMode
	switch cfg.Session.CookieSameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		sessionService,
		resolver,
		verifier,
		bootstrap,
		platformClient,
		routes,
		auditLogger,
		transportHTTP.SessionConfig{
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     cfg.Session.CookiePath,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHTTPOnly: cfg.Session.CookieHTTPOnly,
			CookieSameSite: sameSite,
			CookieMaxAge:   int(cfg.Session.Lifetime.Seconds()),
		},
	)

	// Create router
	router := transportHTTP.NewRouter(handler, transportHTTP.RouterConfig{
		RateLimiter:  rateLimiter,
		LoginLimiter: loginLimiter,
		Secure:       secureMiddleware,
		StaticFS:     os.DirFS(cfg.Server.StaticDir),
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start session cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := sessionService.CleanupExpired(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to cleanup expired sessions", logger.Error(err))
				continue
			}
			if removed > 0 {
				slog.InfoContext(ctx, "removed expired sessions", logger.RowsAffected(removed))
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
