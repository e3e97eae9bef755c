package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/DedS3t/monopoly-server/app/controllers"
	"github.com/DedS3t/monopoly-server/pkg/routes"
	"github.com/DedS3t/monopoly-server/platform/board"
	"github.com/DedS3t/monopoly-server/platform/cache"
	"github.com/DedS3t/monopoly-server/platform/config"
	"github.com/DedS3t/monopoly-server/platform/database"
	"github.com/DedS3t/monopoly-server/platform/logging"
	"github.com/DedS3t/monopoly-server/platform/queries"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	socket "github.com/DedS3t/monopoly-server/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := board.LoadCatalog()
	if err != nil {
		log.WithError(err).Fatal("failed to load boards")
	}

	gc := &controllers.GameController{Secret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}
	var opts []rooms.Option

	if cfg.RedisURL != "" {
		pool := cache.CreateRedisPool(cfg.RedisURL)
		defer pool.Close()
		snapshots := cache.NewSnapshotStore(pool, cfg.SnapshotTTL)
		opts = append(opts, rooms.WithSnapshots(snapshots))
		gc.Snapshots = snapshots
	} else {
		log.Warn("REDIS_URL not set, snapshots are not cached")
	}

	if cfg.DB.Enabled() {
		db := database.PostgreSQLConnection(cfg.DB)
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.WithError(err).Fatal("failed to prepare database")
		}
		results := queries.NewResultStore(db)
		opts = append(opts, rooms.WithResults(results))
		gc.Results = results
	} else {
		log.Warn("DB_ADDR not set, finished games are not recorded")
	}

	manager := rooms.NewManager(catalog, opts...)
	gc.Rooms = manager
	go manager.RunSweeper(ctx, cfg.SweepInterval, cfg.RoomIdleTimeout)

	go func() {
		if err := socket.CreateSocketIOServer(ctx, cfg, manager); err != nil {
			log.WithError(err).Fatal("socket.io server failed")
		}
	}()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowCredentials: true,
	}))
	routes.GameRoutes(app, gc)
	routes.PlayerRoutes(app, &controllers.PlayerController{Rooms: manager}, cfg.JWTSecret)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Warn("http shutdown failed")
		}
	}()

	log.WithField("addr", cfg.HTTPAddr).Info("http listening")
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.WithError(err).Error("http server stopped")
	}
}
