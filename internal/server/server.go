// Package server assembles the HTTP surface: router, middleware and every
// route group, plus graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/auth"
	"github.com/mulearn-geci/community-api/internal/cache"
	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/handlers"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/notify"
	"github.com/mulearn-geci/community-api/internal/services"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	repos      storage.Repositories
	store      assets.Store
	cache      *cache.Cache
	mailer     notify.Mailer
}

// New creates a new server instance
func New(cfg *config.Config, repos storage.Repositories, store assets.Store, c *cache.Cache, mailer notify.Mailer) *Server {
	return &Server{
		config: cfg,
		repos:  repos,
		store:  store,
		cache:  c,
		mailer: mailer,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()
	router.Use(middleware.RequestLog())
	router.Use(gin.Recovery())
	router.Use(cors.New(s.corsConfig()))

	// Local uploads are served straight from disk; the MinIO backend
	// returns absolute URLs instead.
	if s.config.Upload.Backend == "local" {
		router.Static("/uploads", s.config.Upload.Dir)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Community API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router)
	return router
}

func (s *Server) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	origins := splitCSV(s.config.CORS.AllowOrigins)
	if len(origins) == 1 && origins[0] == "*" {
		// Wildcard origins cannot be combined with credentials
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	if methods := splitCSV(s.config.CORS.AllowMethods); len(methods) > 0 {
		corsConfig.AllowMethods = methods
	}
	if headers := splitCSV(s.config.CORS.AllowHeaders); len(headers) > 0 {
		corsConfig.AllowHeaders = headers
	}
	return corsConfig
}

func (s *Server) setupAPIRoutes(router *gin.Engine) {
	jwtService := auth.NewService(s.config.JWT.Secret, s.config.JWT.ExpireHours)

	registrationService := services.NewRegistrationService(s.repos.Events())
	contactService := services.NewContactService(s.repos.Contacts(), s.mailer, s.config)

	postHandler := handlers.NewPostHandler(s.repos.Posts(), s.store)
	eventHandler := handlers.NewEventHandler(s.repos.Events(), registrationService, s.store)
	contactHandler := handlers.NewContactHandler(s.repos.Contacts(), contactService)
	dashboardHandler := handlers.NewDashboardHandler(s.repos.Stats(), s.cache)
	authHandler := handlers.NewAuthHandler(s.repos.Users(), jwtService)

	api := router.Group("/api")

	// Public routes; OptionalAuth lets admins see drafts in place
	public := api.Group("")
	public.Use(middleware.OptionalAuth(jwtService))
	{
		public.GET("/posts", postHandler.List)
		public.GET("/posts/:id", postHandler.Get)
		public.POST("/posts/:id/like", postHandler.Like)

		public.GET("/events", eventHandler.List)
		public.GET("/events/:id", eventHandler.Get)
		public.GET("/events/slug/:slug", eventHandler.GetBySlug)
		public.POST("/events/:id/register", eventHandler.Register)

		public.POST("/contact", contactHandler.Submit)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", middleware.RequireAuth(jwtService), authHandler.Me)
		authRoutes.POST("/register",
			middleware.RequireAuth(jwtService), middleware.RequireAdmin(), authHandler.Register)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(jwtService), middleware.RequireAdmin())
	{
		admin.POST("/posts", postHandler.Create)
		admin.PUT("/posts/:id", postHandler.Update)
		admin.DELETE("/posts/:id", postHandler.Delete)

		admin.POST("/events", eventHandler.Create)
		admin.PUT("/events/:id", eventHandler.Update)
		admin.DELETE("/events/:id", eventHandler.Delete)

		admin.GET("/contacts", contactHandler.List)
		admin.GET("/contacts/:id", contactHandler.Get)
		admin.POST("/contacts/:id/respond", contactHandler.Respond)
		admin.PATCH("/contacts/:id", contactHandler.UpdateStatus)
		admin.DELETE("/contacts/:id", contactHandler.Delete)

		admin.GET("/dashboard/stats", dashboardHandler.Stats)
		admin.GET("/dashboard/analytics", dashboardHandler.Analytics)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
