package main

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/modules/accountability/handlers"
	"github.com/rendiciones/rendiciones/modules/accountability/infrastructure/persistence"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/modules/accountability/services"
	"github.com/rendiciones/rendiciones/pkg/configuration"
	"github.com/rendiciones/rendiciones/pkg/eventbus"
	"github.com/rendiciones/rendiciones/pkg/lock"
	"github.com/rendiciones/rendiciones/pkg/metrics"
	"github.com/rendiciones/rendiciones/pkg/telemetry"
)

// app is the wired service graph behind one command invocation.
type app struct {
	cfg    *configuration.Configuration
	logger *logrus.Logger
	svc    *services.AccountabilityService

	closers []func(context.Context) error
}

func loadConfig(opts *rootOptions) (*configuration.Configuration, error) {
	cfg, err := configuration.Load(opts.envFile)
	if err != nil {
		return nil, withCode(exitUsage, errors.Wrap(err, "load configuration"))
	}
	if cfg.LogPath == "" {
		// stdout carries command output
		cfg.Logger().SetOutput(os.Stderr)
	}
	return cfg, nil
}

func openApp(ctx context.Context, opts *rootOptions) (a *app, err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	a = &app{cfg: cfg, logger: cfg.Logger()}
	a.onClose(func(context.Context) error { cfg.Unload(); return nil })
	defer func() {
		if err != nil {
			a.close(ctx)
		}
	}()

	shutdown, err := telemetry.Init(ctx, cfg.OpenTelemetry, os.Stderr)
	if err != nil {
		return nil, err
	}
	a.onClose(shutdown)

	if cfg.Prometheus.Enabled {
		srv, err := metrics.Listen(cfg.Prometheus.Addr, cfg.Prometheus.Path, a.logger)
		if err != nil {
			return nil, errors.Wrap(err, "start metrics server")
		}
		a.onClose(srv.Shutdown)
	}

	var rdb redis.UniversalClient
	if cfg.Store.Driver == configuration.StoreRedis || cfg.Lock.Driver == configuration.LockRedis {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Store.RedisURL})
		a.onClose(func(context.Context) error { return rdb.Close() })
	}

	store, err := a.openStore(ctx, rdb)
	if err != nil {
		return nil, withCode(exitStorage, err)
	}
	a.onClose(func(context.Context) error { return store.Close() })

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Lock.Driver == configuration.LockRedis {
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{
			Prefix: cfg.Store.RedisPrefix,
			TTL:    cfg.Lock.TTL,
			Wait:   cfg.Lock.Wait,
		})
	}

	model, err := permissions.NewModel(a.logger)
	if err != nil {
		return nil, err
	}
	bus := eventbus.NewEventPublisher(a.logger)
	handlers.RegisterAuditHandlers(bus, a.logger)

	a.svc, err = services.NewAccountabilityService(ctx, services.Config{
		Repository:  persistence.NewGraphRepository(store),
		Permissions: model,
		Locker:      locker,
		EventBus:    bus,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context, rdb redis.UniversalClient) (persistence.Store, error) {
	switch a.cfg.Store.Driver {
	case configuration.StoreMemory:
		return persistence.NewMemoryStore(), nil
	case configuration.StoreRedis:
		return persistence.NewRedisStore(rdb, a.cfg.Store.RedisPrefix), nil
	case configuration.StorePostgres:
		pool, err := openPool(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		if err := persistence.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return persistence.NewPostgresStore(pool), nil
	default:
		return persistence.NewBadgerStore(a.cfg.Store.BadgerDir, a.logger)
	}
}

func openPool(ctx context.Context, cfg *configuration.Configuration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.Opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return pool, nil
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close runs the closers in reverse order.
func (a *app) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}

// withApp opens the app for one command and closes it afterwards.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close(ctx)
	return fn(a)
}
