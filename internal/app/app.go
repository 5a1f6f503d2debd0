// Package app assembles the reservation service from configuration: the
// store, the per-event lock, the notifiers and the HTTP route
// dependencies.  Both the server and the operator CLI start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/concert-seat-reservation/internal/config"
	"github.com/iliyamo/concert-seat-reservation/internal/database"
	"github.com/iliyamo/concert-seat-reservation/internal/handler"
	"github.com/iliyamo/concert-seat-reservation/internal/lock"
	"github.com/iliyamo/concert-seat-reservation/internal/middleware"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
	"github.com/iliyamo/concert-seat-reservation/internal/repository"
	"github.com/iliyamo/concert-seat-reservation/internal/repository/memory"
	"github.com/iliyamo/concert-seat-reservation/internal/reservation"
	"github.com/iliyamo/concert-seat-reservation/internal/router"
)

// Users is the user directory the service needs: lookups for login and
// creation for seeding.
type Users interface {
	handler.UserFinder
	database.UserWriter
}

// App holds the wired service.  Close releases every connection it opened.
type App struct {
	Cfg     config.Config
	DB      *sql.DB // nil with the memory backend
	Store   repository.Store
	Catalog database.Catalog
	Users   Users
	Engine  *reservation.Engine
	Redis   *redis.Client // nil when Redis is unreachable

	closers []func() error
}

// New opens the configured backends.  Optional infrastructure (Redis,
// RabbitMQ, NATS) degrades to a logged warning; the store is mandatory.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Redis = config.NewRedisClient()
	if a.Redis != nil {
		a.closers = append(a.closers, a.Redis.Close)
	} else {
		log.Printf("app: redis unavailable, cache and rate limit disabled")
	}

	a.Engine = reservation.New(a.Store,
		reservation.WithLocker(a.locker(config.LoadLockConfig())),
		reservation.WithNotifier(a.notifier()),
	)

	if cfg.StoreBackend == config.StoreMemory {
		if err := a.Seed(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.Cfg.StoreBackend == config.StoreMemory {
		store := memory.New()
		a.Store, a.Catalog, a.Users = store, store, memory.NewUsers()
		log.Printf("app: using in-memory store")
		return nil
	}

	db, err := database.Open(ctx, database.DSN(a.Cfg.DBUser, a.Cfg.DBPass, a.Cfg.DBHost, a.Cfg.DBPort, a.Cfg.DBName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)
	if a.Cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}
	a.Store = repository.NewMySQLStore(db)
	a.Catalog = database.MySQLCatalog{Venues: repository.NewVenueRepo(db), Events: repository.NewEventRepo(db)}
	a.Users = repository.NewUserRepo(db)
	return nil
}

func (a *App) locker(cfg config.LockConfig) lock.Locker {
	if cfg.Backend == config.LockRedis {
		if a.Redis != nil {
			return lock.NewRedis(a.Redis, cfg.Prefix, cfg.TTL, cfg.Wait)
		}
		log.Printf("app: LOCK_BACKEND=redis but redis is unavailable, using local locks")
	}
	return lock.NewLocal()
}

// notifier fans reservation events out to every configured sink.  Sink
// failures are logged and never fail the reservation.
func (a *App) notifier() queue.Notifier {
	var sinks queue.Fanout
	if inv := middleware.NewCacheInvalidator(config.LoadCacheConfig(), a.Redis); inv != nil {
		sinks = append(sinks, inv)
	}
	if a.Cfg.AMQPURL != "" {
		sinks = append(sinks, queue.NewAMQPPublisher(a.Cfg.AMQPURL))
	}
	if a.Cfg.NATSURL != "" {
		nc, err := queue.ConnectNATS(a.Cfg.NATSURL, "concert-seat-reservation")
		if err != nil {
			log.Printf("app: nats unavailable: %v", err)
		} else {
			sinks = append(sinks, nc)
			a.closers = append(a.closers, nc.Close)
		}
	}
	if len(sinks) == 0 {
		return queue.Nop{}
	}
	return queue.Logging{Next: sinks}
}

// Seed loads the demo data set.
func (a *App) Seed(ctx context.Context) error {
	return database.Seed(ctx, a.Catalog, a.Users, a.Engine, a.Cfg.BcryptCost)
}

// RouteDeps builds the HTTP handlers and Redis-backed middleware.
func (a *App) RouteDeps() router.Deps {
	return router.Deps{
		JWTSecret:    a.Cfg.JWTSecret,
		Auth:         handler.NewAuthHandler(a.Cfg, a.Users),
		Events:       handler.NewEventHandler(a.Engine),
		Reservations: handler.NewReservationHandler(a.Engine),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.Redis),
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), a.Redis),
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("app: close: %v", err)
		}
	}
	a.closers = nil
}
