// Package main is the entry point for the smartmarks-api server.
// Note: user accounts, OAuth, and sessions are handled by the external
// identity provider. Self-hosted mode is API-only with API key
// authentication.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/smartmarks/smartmarks-api/internal/auth"
	"github.com/smartmarks/smartmarks-api/internal/config"
	"github.com/smartmarks/smartmarks-api/internal/database"
	"github.com/smartmarks/smartmarks-api/internal/http/handlers"
	"github.com/smartmarks/smartmarks-api/internal/http/mw"
	"github.com/smartmarks/smartmarks-api/internal/logging"
	"github.com/smartmarks/smartmarks-api/internal/repository"
	"github.com/smartmarks/smartmarks-api/internal/service"
	"github.com/smartmarks/smartmarks-api/internal/version"
)

func main() {
	// Initialize logger with TTY detection, source paths, and format control
	logger := logging.SetDefault()

	v := version.Get()
	logger.Info("starting smartmarks-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := service.NewServices(ctx, cfg, repos, logger)
	if err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}

	// Identity-provider verifier for JWT validation (hosted mode)
	var verifier *auth.Verifier
	if cfg.IdentityIssuerURL != "" {
		verifier = auth.NewVerifier(cfg.IdentityIssuerURL)
		logger.Info("identity provider authentication enabled", "issuer", cfg.IdentityIssuerURL)
	} else if !cfg.IsSelfHosted() {
		logger.Warn("IDENTITY_ISSUER_URL not set - JWT authentication will fail")
	}

	// Create router
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Request timeout middleware with different timeouts per endpoint type
	router.Use(mw.Timeout(mw.TimeoutConfig{
		Default:  30 * time.Second,
		Extended: 60 * time.Second,
		// Page fetches with UA rotation and bulk imports run long
		ExtendedPatterns: []string{"/fetch-metadata", "/analyze", "/import"},
		// The image proxy streams payloads and carries its own client timeout
		SkipPatterns: []string{"/image-proxy"},
	}))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Request size limit (16MB; imports upload whole bookmark files)
	router.Use(middleware.RequestSize(16 * 1024 * 1024))

	// Global rate limit by IP
	router.Use(httprate.LimitByIP(100, time.Minute))

	// Global concurrency throttle
	router.Use(middleware.Throttle(100))

	// Huma API config for the main API with OpenAPI docs
	humaConfig := huma.DefaultConfig("SmartMarks API", v.Version)
	humaConfig.Info.Description = "Bookmark manager API: metadata extraction, AI classification, import/export."
	humaConfig.Servers = []*huma.Server{
		{URL: cfg.BaseURL, Description: "API Server"},
	}
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:        "http",
			Scheme:      "bearer",
			Description: "Session JWT or API key. Include it in the Authorization header as `Bearer sb_your_key`.",
		},
	}
	api := humachi.New(router, humaConfig)

	// Config for hidden routes (K8s probes - no docs needed)
	hiddenConfig := huma.DefaultConfig("SmartMarks API", v.Version)
	hiddenConfig.DocsPath = ""
	hiddenConfig.OpenAPIPath = ""
	hiddenConfig.SchemasPath = ""
	hiddenAPI := humachi.New(router, hiddenConfig)

	// Config for protected routes (documented by the main API)
	protectedConfig := huma.DefaultConfig("SmartMarks API", v.Version)
	protectedConfig.Info.Description = humaConfig.Info.Description
	protectedConfig.Servers = humaConfig.Servers
	protectedConfig.DocsPath = ""
	protectedConfig.OpenAPIPath = ""
	protectedConfig.SchemasPath = ""

	// Health check (public, shown in docs)
	huma.Get(api, "/api/v1/health", handlers.HealthCheck)

	// Kubernetes probes (hidden from docs - internal use only)
	huma.Get(hiddenAPI, "/healthz", handlers.Livez)
	huma.Get(hiddenAPI, "/readyz", handlers.NewReadyzHandler(db).Readyz)

	// Image proxy (public, matches the web client's direct <img> usage)
	proxyHandler := handlers.NewImageProxyHandler(services.ImageProxy, logger)
	router.Get("/api/v1/image-proxy", proxyHandler.Proxy)

	// Identity webhook (signature verified by handler, not user auth)
	if cfg.IdentityWebhookSecret != "" {
		webhook := handlers.NewIdentityWebhookHandler(cfg.IdentityWebhookSecret, services.Bookmark, logger)
		router.Post("/api/v1/webhooks/identity", webhook.HandleWebhook)
		logger.Info("identity webhook endpoint enabled")
	}

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(mw.Auth(mw.AuthConfig{
			Verifier:          verifier,
			Keys:              repos.APIKey,
			SelfHostedKeyHash: cfg.APIKeyHash,
		}))

		protectedAPI := humachi.New(r, protectedConfig)

		// Bookmark CRUD
		bookmarkHandler := handlers.NewBookmarkHandler(services.Bookmark)
		huma.Get(protectedAPI, "/api/v1/bookmarks", bookmarkHandler.ListBookmarks)
		huma.Post(protectedAPI, "/api/v1/bookmarks", bookmarkHandler.CreateBookmark)
		huma.Patch(protectedAPI, "/api/v1/bookmarks", bookmarkHandler.UpdateBookmark)
		huma.Delete(protectedAPI, "/api/v1/bookmarks", bookmarkHandler.DeleteBookmark)

		// Classification and metadata extraction
		huma.Post(protectedAPI, "/api/v1/analyze", handlers.NewAnalyzeHandler(services.Classifier).Analyze)
		huma.Post(protectedAPI, "/api/v1/fetch-metadata", handlers.NewMetadataHandler(services.Metadata).FetchMetadata)

		// Raw HTTP handlers for downloads and multipart uploads
		transferHandler := handlers.NewTransferHandler(services.Import, logger)
		r.Get("/api/v1/bookmarks/export", transferHandler.Export)
		r.Post("/api/v1/bookmarks/export", transferHandler.Export)
		r.Post("/api/v1/bookmarks/import", transferHandler.Import)

		// API key routes (hosted mode - users manage their own keys;
		// self-hosted deployments configure a single key by hash)
		if !cfg.IsSelfHosted() {
			keyHandler := handlers.NewAPIKeyHandler(repos.APIKey)
			huma.Get(protectedAPI, "/api/v1/keys", keyHandler.ListKeys)
			huma.Post(protectedAPI, "/api/v1/keys", keyHandler.CreateKey)
			huma.Delete(protectedAPI, "/api/v1/keys/{id}", keyHandler.RevokeKey)
		}
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan

		logger.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	// Start server
	mode := "hosted"
	if cfg.IsSelfHosted() {
		mode = "self-hosted"
	}
	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL, "mode", mode)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
