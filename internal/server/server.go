package server

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"whiteboard-backend/internal/auth"
	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/handler"
)

// Server wires the fiber app, the board session manager and the handlers.
type Server struct {
	app                *fiber.App
	cfg                *config.Config
	db                 *gorm.DB
	log                zerolog.Logger
	manager            *board.Manager
	boardHandler       *handler.BoardHandler
	historyHandler     *handler.HistoryHandler
	containmentHandler *handler.ContainmentHandler
	healthHandler      *handler.HealthHandler
	jwtManager         *auth.JWTManager
}

// New assembles a server around an already-constructed board manager.
func New(cfg *config.Config, db *gorm.DB, manager *board.Manager, log zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:       "Whiteboard Board Engine",
		ServerHeader:  "Fiber",
		StrictRouting: false,
		CaseSensitive: true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		BodyLimit:     10 * 1024 * 1024,
	})

	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	return &Server{
		app:                app,
		cfg:                cfg,
		db:                 db,
		log:                log,
		manager:            manager,
		boardHandler:       handler.NewBoardHandler(manager, log),
		historyHandler:     handler.NewHistoryHandler(manager, log),
		containmentHandler: handler.NewContainmentHandler(manager, log),
		healthHandler:      handler.NewHealthHandler(db),
		jwtManager:         jwtManager,
	}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware installs panic recovery, request logging and CORS.
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     s.cfg.CORS.AllowHeaders,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
}

// SetupRoutes registers health probes and the board API.
func (s *Server) SetupRoutes() {
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	// command writes are rate limited per client
	commandLimiter := limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	boards := s.app.Group("/api/boards/:id", auth.Middleware(s.jwtManager))
	boards.Get("/objects", s.boardHandler.GetObjects)
	boards.Post("/commands", commandLimiter, s.boardHandler.ApplyCommand)
	boards.Post("/checkpoint", s.boardHandler.Checkpoint)

	boards.Get("/history", s.historyHandler.GetState)
	boards.Post("/undo", s.historyHandler.Undo)
	boards.Post("/redo", s.historyHandler.Redo)
	boards.Post("/history/clear", s.historyHandler.Clear)

	boards.Get("/containers/at", s.containmentHandler.AtPoint)
	boards.Get("/containers/auto", s.containmentHandler.AutoContain)
	boards.Get("/containers/:frameId/children", s.containmentHandler.GetChildren)
	boards.Post("/containers/:frameId/children/:childId", s.containmentHandler.AddChild)
	boards.Delete("/containers/children/:childId", s.containmentHandler.RemoveChild)
	boards.Post("/containers/children/:childId/drop", s.containmentHandler.Drop)
}

// Start runs the server with graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		s.log.Info().Msg("shutting down server")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			s.log.Fatal().Err(err).Msg("server shutdown error")
		}
	}()

	s.log.Info().Str("port", s.cfg.Server.Port).Msg("board engine starting")
	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
