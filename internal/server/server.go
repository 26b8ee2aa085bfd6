// Package server wires the application together: it owns the database
// connection, builds the service and handler graph, defines every route,
// and runs the HTTP server with graceful shutdown.
//
// Keeping the wiring out of main.go leaves main with configuration only,
// and means tests can assemble a server without the process entry point.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/shithunt/internal/auth"
	"github.com/sakif/shithunt/internal/handler"
	"github.com/sakif/shithunt/internal/middleware"
	sqliteRepo "github.com/sakif/shithunt/internal/repository/sqlite"
	"github.com/sakif/shithunt/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port               int
	DBPath             string
	UploadDir          string
	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, assembles the dependency
// graph (repositories → services → handlers) and registers every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the handler graph and maps
// every route.
//
//	GET    /api/products                      listing, grouped by launch day
//	GET    /api/products/search               search by name/tagline
//	GET    /api/products/trending             vote leaderboard per window
//	GET    /api/products/{slug}               single product page
//	POST   /api/products                      submit            (auth)
//	PUT    /api/products/{slug}               edit              (auth)
//	DELETE /api/products/{slug}               delete            (auth)
//	POST   /api/products/{id}/shit            toggle vote       (auth)
//	GET    /api/products/{id}/comments        comment thread
//	POST   /api/products/{id}/comments        add comment       (auth)
//	DELETE /api/comments/{id}                 delete comment    (auth)
//	GET    /api/filters                       facet options
//	GET    /api/users/{username}              public profile
//	GET    /api/me                            current user      (auth)
//	POST   /api/upload                        image upload      (auth)
//	GET    /api/admin/products                moderation queue  (auth, admin)
//	PATCH  /api/admin/products/{id}/status    approve/reject    (auth, admin)
//	GET    /auth/github/login                 OAuth start
//	GET    /auth/github/callback              OAuth callback
//	POST   /auth/logout                       clear session
//	GET    /uploads/*                         uploaded images
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	authService := service.NewAuthService(s.db, tokens, s.logger)
	productService := service.NewProductService(s.db, s.db, s.db, s.logger)
	voteService := service.NewVoteService(s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(github, authService, s.logger)
	productHandler := handler.NewProductHandler(productService, s.logger)
	voteHandler := handler.NewVoteHandler(voteService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	userHandler := handler.NewUserHandler(authService, productService, s.logger)
	uploadHandler := handler.NewUploadHandler(s.config.UploadDir, s.logger)

	// Uploaded images are served straight off disk.
	fileServer := http.FileServer(http.Dir(s.config.UploadDir))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads. OptionalAuth fills in hasVoted for signed-in
		// viewers without blocking anonymous ones.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/products", productHandler.HandleListProducts)
			r.Get("/products/search", productHandler.HandleSearch)
			r.Get("/products/trending", productHandler.HandleTrending)
			r.Get("/products/{slug}", productHandler.HandleGetProduct)
			r.Get("/products/{id}/comments", commentHandler.HandleList)
			r.Get("/filters", productHandler.HandleFilters)
			r.Get("/users/{username}", userHandler.HandleGetProfile)
		})

		// Authenticated writes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Post("/products", productHandler.HandleCreateProduct)
			r.Put("/products/{slug}", productHandler.HandleUpdateProduct)
			r.Delete("/products/{slug}", productHandler.HandleDeleteProduct)
			r.Post("/products/{id}/shit", voteHandler.HandleToggle)
			r.Post("/products/{id}/comments", commentHandler.HandleCreate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)
			r.Post("/upload", uploadHandler.HandleUpload)

			// Admin routes share RequireAuth; the role check lives in the
			// service so it is enforced regardless of routing.
			r.Get("/admin/products", productHandler.HandleAdminListProducts)
			r.Patch("/admin/products/{id}/status", productHandler.HandleSetStatus)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
