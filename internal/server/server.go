package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/crumbdeck-agent/config"
	"github.com/ngenohkevin/crumbdeck-agent/internal/files"
	"github.com/ngenohkevin/crumbdeck-agent/internal/launcher"
	"github.com/ngenohkevin/crumbdeck-agent/internal/panel"
)

// Services are the components the HTTP layer exposes
type Services struct {
	Panel    *panel.Panel
	Launcher *launcher.Launcher
	Browser  *files.Browser
}

// Server represents the HTTP server
type Server struct {
	cfg           *config.Config
	router        *gin.Engine
	handlers      *Handlers
	setupHandlers *SetupHandlers
	auth          *AuthService
	limiter       *RateLimiter
	httpServer    *http.Server
	onShutdown    []func()
}

// New creates a new server instance
func New(cfg *config.Config, svc Services) *Server {
	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	auth := NewAuthService(cfg.APIKey, cfg.JWTSecret)
	limiter := NewRateLimiter(cfg.RateLimitRPS)

	s := &Server{
		cfg:           cfg,
		router:        router,
		handlers:      NewHandlers(cfg, auth, svc),
		setupHandlers: NewSetupHandlers(cfg, svc.Panel, svc.Browser),
		auth:          auth,
		limiter:       limiter,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RecoveryMiddleware())
	s.router.Use(LoggerMiddleware())
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	// Health check (no auth)
	s.router.GET("/health", s.handlers.HealthCheck)

	// Setup routes (no auth required in setup mode)
	if s.cfg.SetupMode {
		setup := s.router.Group("/setup")
		{
			setup.GET("", s.setupHandlers.SetupStatus)
			setup.POST("/generate", s.setupHandlers.GenerateKey)
			setup.POST("/save", s.setupHandlers.SaveKey)
		}
	}

	api := s.router.Group("/api")
	api.Use(AuthMiddleware(s.auth))
	{
		api.GET("/info", s.handlers.GetInfo)
		api.POST("/token", s.handlers.IssueToken)

		// Editor host
		api.POST("/editor/active", s.handlers.EditorActive)
		api.POST("/editor/theme", s.handlers.EditorTheme)
		api.GET("/host/events", s.handlers.StreamHostEvents)

		// Rendering surface
		api.GET("/events", s.handlers.StreamEvents)
		api.GET("/breadcrumbs", s.handlers.GetBreadcrumbs)
		api.GET("/breadcrumbs/build", s.handlers.BuildBreadcrumbs)
		api.POST("/commands", s.handlers.PostCommand)

		api.GET("/launches", s.handlers.ListLaunches)
		api.GET("/files/info", s.handlers.GetFileInfo)

		// Settings (authenticated)
		api.GET("/settings", s.setupHandlers.GetSettings)
		api.PUT("/settings", s.setupHandlers.UpdateSettings)
		api.POST("/settings/generate-key", s.setupHandlers.GenerateKey)
		api.POST("/settings/api-key", s.setupHandlers.SaveKey)
	}
}

// OnShutdown registers fn to run after the HTTP server stops
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		notifySystemd(daemon.SdNotifyStopping)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Starting Crumbdeck Agent on %s", s.cfg.Addr())
	notifySystemd(daemon.SdNotifyReady)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Clean up
	if err := s.handlers.Close(); err != nil {
		log.Printf("Error closing handlers: %v", err)
	}
	for _, fn := range s.onShutdown {
		fn()
	}

	log.Println("Server stopped")
	return nil
}

// notifySystemd is a no-op outside a systemd unit
func notifySystemd(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		log.Printf("[systemd] notify %q failed: %v", state, err)
	}
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
