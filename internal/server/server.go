package server

import (
	"github.com/darshan87986/cultural-explorer/internal/auth"
	"github.com/darshan87986/cultural-explorer/internal/booking"
	"github.com/darshan87986/cultural-explorer/internal/config"
	"github.com/darshan87986/cultural-explorer/internal/notify"
	"github.com/darshan87986/cultural-explorer/internal/place"
	"github.com/darshan87986/cultural-explorer/internal/session"
	"github.com/darshan87986/cultural-explorer/internal/store"
	"github.com/darshan87986/cultural-explorer/internal/story"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Hub   *notify.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Hub:   notify.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protect := auth.JWTMiddleware(s.Cfg.JWTSecret)
	kv := store.New(s.Redis)

	sessions := session.NewService(kv, authenticatorFor(s.Cfg, s.DB), auth.NewIssuer(s.Cfg.JWTSecret))
	bookings := booking.NewService(kv, s.Hub, s.Cfg.GuideFee)
	places := place.NewService(s.DB)

	var remote *place.RemoteClient
	if s.Cfg.PlacesAPIURL != "" {
		remote = place.NewRemoteClient(s.Cfg.PlacesAPIURL, s.Cfg.PlacesAPIKey)
	}

	session.RegisterAuthRoutes(s.App.Group("/auth"), sessions, protect)
	session.RegisterProfileRoutes(s.App.Group("/profile"), sessions, protect)
	booking.RegisterRoutes(s.App.Group("/bookings"), bookings, protect)
	booking.RegisterWebhookRoutes(s.App.Group("/webhooks"), bookings)
	place.RegisterRoutes(s.App.Group("/places"), places, remote)
	story.RegisterRoutes(s.App.Group("/stories"), story.NewService(s.DB))
	notify.RegisterRoutes(s.App.Group("/notify"), s.Hub, protect)
}

// authenticatorFor picks the login backend. Credentials mode needs a
// database; without one it degrades to passthrough.
func authenticatorFor(cfg config.Config, pool *pgxpool.Pool) auth.Authenticator {
	if cfg.AuthMode == "credentials" && pool != nil {
		return auth.NewCredentials(pool)
	}
	return auth.Passthrough{}
}
