// Package app composes the client from its parts and manages their
// lifecycle.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/justify-app/justify/internal/bus"
	"github.com/justify-app/justify/internal/config"
	"github.com/justify-app/justify/internal/gateway"
	"github.com/justify-app/justify/internal/inbox"
	"github.com/justify-app/justify/internal/lock"
	"github.com/justify-app/justify/internal/logging"
	"github.com/justify-app/justify/internal/profile"
	"github.com/justify-app/justify/internal/session"
	"github.com/justify-app/justify/internal/store"
	"github.com/justify-app/justify/internal/tui"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("justify",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideProfileConfig,
			provideLock,
			provideStore,
			provideGateway,
			provideSessionStore,
			provideViewModel,
			providePoller,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideProfileConfig(p Params) (*config.Profile, error) {
	return config.LoadProfile(profile.SettingsPath(p.ProfileName))
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.CacheDBPath(p.ProfileName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideGateway(cfg *config.Profile, logger *zap.Logger) *gateway.Client {
	logger.Info("gateway configured", zap.String("server", cfg.ServerURL))
	return gateway.New(cfg.ServerURL, cfg.RequestTimeout())
}

func provideSessionStore(db *store.DB, b *bus.Bus) *session.Store {
	return session.NewStore(db, b)
}

func provideViewModel(client *gateway.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *inbox.ViewModel {
	return inbox.NewViewModel(client, db, b, logger)
}

func providePoller(vm *inbox.ViewModel, cfg *config.Profile, logger *zap.Logger) *inbox.Poller {
	return inbox.NewPoller(vm, cfg.PollInterval(), logger)
}

func provideApp(p Params, client *gateway.Client, vm *inbox.ViewModel, poller *inbox.Poller, sessions *session.Store, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(client, vm, poller, sessions, b, logger, p.ProfileName)
}

func registerLifecycle(lc fx.Lifecycle, a *tui.App, lk *lock.Lock, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			a.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing cache", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
