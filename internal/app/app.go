package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/doist/internal/config"
	"github.com/dori/doist/internal/db"
	"github.com/dori/doist/internal/notify"
	"github.com/dori/doist/internal/service"
	"github.com/dori/doist/internal/todoist"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Service  *service.Service
	Notifier *notify.Notifier
	lockFile *flock.Flock
}

// Options controls how the app is opened
type Options struct {
	// Exclusive takes the single-instance lock (TUI and server)
	Exclusive bool
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(cfg.Notifications),
	}

	if opts.Exclusive {
		if err := app.acquireLock(); err != nil {
			return nil, err
		}
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	client := todoist.New(todoist.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout,
	})
	app.Service = service.New(client, db.NewFavoriteStore(database), database)

	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "doist.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of doist is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
