package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"roombooking/internal/httpapi"
	"roombooking/internal/worker"
	"roombooking/pkg/config"
	"roombooking/pkg/db"
	"roombooking/pkg/logging"
	"roombooking/pkg/objectstore"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("db open")
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			logrus.WithError(err).Fatal("migrate")
		}
	}

	deps := httpapi.Dependencies{Cfg: cfg, DB: conn}

	objects, err := objectstore.New(cfg)
	if err != nil {
		// Bookings still work; uploads are reported as failed.
		logrus.WithError(err).Warn("document storage disabled")
	} else {
		deps.Objects = objects
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("redis unreachable; room cache falls through to postgres")
		}
		deps.Redis = rdb
	}

	router, services := httpapi.NewRouter(deps)

	c := cron.New()
	sweep := worker.NewCompletionSweep(services.Bookings)
	scheduled, err := sweep.Schedule(c, cfg.CompletionSweepSchedule)
	if err != nil {
		logrus.WithError(err).Fatal("completion sweep schedule")
	}
	if scheduled {
		c.Start()
		defer c.Stop()
		logrus.WithField("schedule", cfg.CompletionSweepSchedule).Info("completion sweep scheduled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("http serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
