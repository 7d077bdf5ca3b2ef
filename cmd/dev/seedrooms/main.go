package main

import (
	"context"
	"flag"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"roombooking/internal/room"
	"roombooking/pkg/config"
	"roombooking/pkg/db"
	"roombooking/pkg/logging"
)

// Seeds one room per known room type, skipping names that already exist.
func main() {
	start := flag.String("open", "08:00", "operating hours start (HH:MM)")
	end := flag.String("close", "21:00", "operating hours end (HH:MM)")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg)
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("db open")
	}
	defer pool.Close()

	repo := room.NewRepository(pool)

	// The API caches the active listing; drop it so new rooms show up at once.
	var cache *room.CachedCatalog
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		cache = room.NewCachedCatalog(repo, rdb, cfg.Redis.RoomCacheTTL)
	}

	for _, ti := range room.Types() {
		log := logrus.WithField("room", ti.Name)
		exists, err := repo.ExistsByName(ctx, ti.Name)
		if err != nil {
			log.WithError(err).Fatal("lookup failed")
		}
		if exists {
			log.Info("already seeded")
			continue
		}
		rm, err := repo.Create(ctx, room.CreateParams{
			Name:           ti.Name,
			Description:    ti.Description,
			RoomType:       ti.Type,
			Capacity:       ti.DefaultCapacity,
			Facilities:     ti.DefaultFacilities,
			OperatingHours: room.OperatingHours{Start: *start, End: *end},
		})
		if err != nil {
			log.WithError(err).Fatal("create failed")
		}
		log.WithField("id", rm.ID).Info("room created")
		if cache != nil {
			if err := cache.Invalidate(ctx, rm.ID); err != nil {
				log.WithError(err).Warn("room cache invalidate failed")
			}
		}
	}
}
