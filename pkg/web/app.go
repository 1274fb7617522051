package web

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/engine"
)

// Server bundles the fiber app with its engine and job store.
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	jobs   *JobStore
}

func NewServer(cfg *config.Config) *Server {
	eng := engine.New(cfg)

	return &Server{cfg: cfg, engine: eng, jobs: NewJobStore(eng)}
}

// App builds the routed fiber application.
func (s *Server) App() *fiber.App {
	handlers := NewAPIHandlers(s.cfg, s.engine, s.jobs)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Voyage GEO API")
	})
	app.Get("/health", handlers.Health)

	runs := app.Group("/runs")
	runs.Get("/", handlers.GetRuns)
	runs.Get("/:id", handlers.GetRun)

	app.Get("/trends", handlers.GetTrends)
	app.Get("/providers", handlers.GetProviders)

	jobs := app.Group("/jobs")
	jobs.Get("/", handlers.GetJobs)
	jobs.Post("/", handlers.CreateJob)
	jobs.Get("/:id", handlers.GetJob)
	jobs.Delete("/:id", handlers.CancelJob)

	return app
}

// Start listens on the given port until the app is shut down.
func (s *Server) Start(port int) error {
	return s.App().Listen(":" + strconv.Itoa(port))
}
