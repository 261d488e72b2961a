// Package server wires the dependency graph and defines the routes. It is
// the composition root: main.go only parses config and calls New/Start.
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

	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/config"
	"github.com/hyeonwook/anonboard/internal/handler"
	"github.com/hyeonwook/anonboard/internal/middleware"
	"github.com/hyeonwook/anonboard/internal/model"
	sqliteRepo "github.com/hyeonwook/anonboard/internal/repository/sqlite"
	"github.com/hyeonwook/anonboard/internal/service"
	"github.com/hyeonwook/anonboard/internal/storage"
)

// Server owns the router, the database, and the graceful shutdown sequence.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, services, handlers,
// routes. Object storage is optional; without it the upload routes answer
// 503 and everything else works.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes(ctx context.Context) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var uploader *storage.Uploader
	if s.cfg.StorageEnabled() {
		uploader, err = storage.New(ctx, storage.Config{
			Endpoint:      s.cfg.S3Endpoint,
			Region:        s.cfg.S3Region,
			AccessKey:     s.cfg.S3AccessKey,
			SecretKey:     s.cfg.S3SecretKey,
			PublicBaseURL: s.cfg.PublicBaseURL,
		}, s.logger)
		if err != nil {
			return fmt.Errorf("creating uploader: %w", err)
		}
	} else {
		s.logger.Warn("object storage not configured, upload routes will return 503")
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.db.Comments(), s.logger)
	categoryService := service.NewCategoryService(s.db.Categories(), s.logger)
	adminService := service.NewAdminService(s.db.Users(), s.logger)
	guestbookService := service.NewGuestbookService(s.db.Guestbook(), passwords, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)
	guestbookHandler := handler.NewGuestbookHandler(guestbookService, s.logger)
	uploadHandler := handler.NewUploadHandler(uploader, s.cfg.PostBucket, s.cfg.GalleryBucket, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	requireAdmin := auth.RequireRole(tokens, model.RoleAdministrator)

	s.router.Route("/api", func(r chi.Router) {
		// Public: reading the board, the categories, and the guestbook
		// needs no account.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Get("/posts", postHandler.HandleList)
		r.Get("/posts/{id}", postHandler.HandleGet)
		r.Get("/posts/{id}/comments", postHandler.HandleListComments)
		r.Get("/categories", categoryHandler.HandleList)

		r.Get("/guestbook", guestbookHandler.HandleList)
		r.Post("/guestbook", guestbookHandler.HandleCreate)
		r.Put("/guestbook/{id}", guestbookHandler.HandleUpdate)
		r.Post("/guestbook/{id}/delete", guestbookHandler.HandleDelete)

		r.Get("/gallery", uploadHandler.HandleListGallery)

		// Member: writing requires a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)
			r.Put("/me", authHandler.HandleUpdateMe)

			r.Post("/posts", postHandler.HandleCreate)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
			r.Post("/posts/{id}/like", postHandler.HandleLike)
			r.Post("/posts/{id}/comments", postHandler.HandleAddComment)
			r.Delete("/comments/{id}", postHandler.HandleDeleteComment)

			r.Post("/uploads/post-image", uploadHandler.HandleUploadPostImage)
			r.Post("/uploads/gallery-image", uploadHandler.HandleUploadGalleryImage)
		})

		// Administrator: code tables and user management.
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/admin/categories/check", categoryHandler.HandleCheckCode)
			r.Post("/admin/categories", categoryHandler.HandleCreate)
			r.Delete("/admin/categories/{id}", categoryHandler.HandleDelete)

			r.Get("/admin/users", adminHandler.HandleListUsers)
			r.Put("/admin/users/{id}/role", adminHandler.HandleChangeRole)
			r.Delete("/admin/users/{id}", adminHandler.HandleDeleteUser)
		})
	})

	return nil
}

// Router returns the configured router, for tests that mount it directly.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
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
