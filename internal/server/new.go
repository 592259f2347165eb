package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/session"
)

// Options configure the HTTP adapter.
type Options struct {
	StaticDir   string
	BodyLimitMB int
	CorsOrigins string
}

type Server struct {
	app      *fiber.App
	sessions *session.Manager
	validate *validator.Validate
	logger   logger.Logger
}

// New builds the fiber app and registers every route.
func New(sessions *session.Manager, opts Options, log logger.Logger) *Server {
	s := &Server{
		sessions: sessions,
		validate: validator.New(),
		logger:   log,
	}

	bodyLimit := opts.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	if opts.CorsOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CorsOrigins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept",
			AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
			ExposeHeaders:    "Content-Disposition",
		}))
	}
	app.Use(otelfiber.Middleware())
	app.Use(s.logRequests)

	s.app = app
	s.registerRoutes()

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info(context.Background(), "HTTP server listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
