package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"trmnl/internal/config"
	"trmnl/internal/logging"
	"trmnl/internal/server"
)

// Daemon runs the device API and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	slot   server.Slot
	api    *server.Server

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	APIAddress   string
	LockFilePath string
	CurrentImage string
}

// New constructs a daemon serving slot over the configured bind address.
func New(cfg *config.Config, slot server.Slot, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || slot == nil {
		return nil, errors.New("daemon requires config and carousel")
	}
	logger = logging.NewComponentLogger(logger, "daemon")
	api, err := server.New(server.Options{
		Bind:            cfg.Paths.APIBind,
		BaseURL:         cfg.Paths.ServerURL,
		RefreshInterval: cfg.Display.RefreshInterval,
		APIToken:        cfg.Paths.APIToken,
		Engine:          cfg.Engine.Kind,
	}, slot, logger)
	if err != nil {
		return nil, err
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		slot:     slot,
		api:      api,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, pre-loads the first image, and starts the API.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another trmnl daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.preload(runCtx)

	if err := d.api.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api: %w", err)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("trmnl daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.Addr()),
	)
	return nil
}

// preload promotes a first image so /api/image has content before the first
// display request. Failure is logged; the device will trigger another attempt.
func (d *Daemon) preload(ctx context.Context) {
	image, err := d.slot.Advance(ctx)
	if err != nil {
		logging.WarnWithContext(d.logger, "initial carousel advance failed", "carousel_preload",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no image until the next display request"),
			logging.String(logging.FieldErrorHint, "run trmnl status to check the renderer and dataset"),
		)
		return
	}
	d.logger.Info("carousel pre-loaded", logging.String(logging.FieldImage, image.Name))
}

// Stop shuts the API down and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("trmnl daemon stopped")
}

// Run starts the daemon and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// Status reports the daemon state and the image currently in the slot.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
	}
	if status.Running {
		status.APIAddress = d.api.Addr()
	}
	if image, err := d.slot.Current(ctx); err == nil {
		status.CurrentImage = image.Filename()
	}
	return status
}
