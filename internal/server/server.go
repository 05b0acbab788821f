package server

import (
	"context"

	"backend-mapty/internal/auth"
	"backend-mapty/internal/config"
	"backend-mapty/internal/session"
	"backend-mapty/internal/storage"
	"backend-mapty/internal/stream"
	"backend-mapty/internal/workouts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	Storage  storage.KV
	Redis    *redis.Client
	Stream   *stream.Hub
	Sessions *session.Registry
	Logger   *zap.Logger
}

func NewServer(cfg config.Config, kv storage.KV, redisClient *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient, log.Named("stream"))
	s := &Server{
		App:     app,
		Cfg:     cfg,
		Storage: kv,
		Redis:   redisClient,
		Stream:  hub,
		Sessions: session.NewRegistry(kv, cfg.StorageKey, func(sessionID string) session.Renderer {
			return hub.Renderer(sessionID)
		}, log.Named("session")),
		Logger: log,
	}

	registerRoutes(s)
	return s
}

// Close stops the redis subscription of the event hub.
func (s *Server) Close() error {
	return s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "storage": s.Cfg.StorageBackend})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	sessionMiddleware := auth.SessionMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/sessions"), auth.NewService(s.Cfg.JWTSecret))
	workouts.RegisterRoutes(s.App.Group("/workouts"), workouts.NewService(s.Sessions), sessionMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, sessionMiddleware, func(ctx context.Context, client *stream.Client) {
		if err := s.Sessions.Replay(ctx, client.SessionID, s.Stream.ClientRenderer(client)); err != nil {
			s.Logger.Warn("replay workouts", zap.String("session_id", client.SessionID), zap.Error(err))
		}
	})
}
