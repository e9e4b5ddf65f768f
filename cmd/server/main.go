package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docsync/internal/config"
	"docsync/internal/engine"
	"docsync/internal/events"
	"docsync/internal/metrics"
	"docsync/internal/routers"
)

// Seams for tests.
var (
	listenAndServe = http.ListenAndServe
	exit           = os.Exit
	exitFunc       = defaultExit
)

func defaultExit(err error) {
	log.Println(err)
	exit(1)
}

func run(ctx context.Context) error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var pub *events.Publisher
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, events will be retried per publish",
				zap.String("redis_addr", cfg.RedisAddr),
				zap.Error(err))
		}
		cancel()
		pub = events.NewPublisher(rdb)
		logger.Info("activity event mirror enabled",
			zap.String("redis_addr", cfg.RedisAddr),
			zap.String("instance_id", pub.InstanceID()))
	}

	eng := engine.New(logger, pub)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware())

	r.Mount("/", routers.New(logger, eng))

	addr := ":" + cfg.Port
	log.Printf("docsync listening on %s", addr)
	return listenAndServe(addr, r)
}

func main() {
	if err := run(context.Background()); err != nil {
		exitFunc(err)
	}
}
