package carousel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"trmnl/internal/engine"
	"trmnl/internal/fileutil"
	"trmnl/internal/logging"
)

const (
	bitmapExt         = ".bmp"
	lockRetryInterval = 25 * time.Millisecond
)

// Carousel manages the single-image working slot.
type Carousel struct {
	workDir string
	engine  engine.Engine
	logger  *slog.Logger

	mu      sync.Mutex
	lock    *flock.Flock
	newName func() string
}

// New creates the working directory if needed and returns a carousel fed by eng.
// A nil engine yields a read-only carousel whose Advance always fails.
func New(workDir string, eng engine.Engine, logger *slog.Logger) (*Carousel, error) {
	if strings.TrimSpace(workDir) == "" {
		return nil, errors.New("carousel: working directory required")
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("carousel: resolve working directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("carousel: create working directory: %w", err)
	}
	return &Carousel{
		workDir: abs,
		engine:  eng,
		logger:  logging.NewComponentLogger(logger, "carousel"),
		lock:    flock.New(filepath.Clean(abs) + ".lock"),
		newName: func() string { return uuid.NewString() + bitmapExt },
	}, nil
}

// WorkDir returns the absolute working directory.
func (c *Carousel) WorkDir() string {
	return c.workDir
}

// Current returns the single bitmap in the slot.
func (c *Carousel) Current(ctx context.Context) (Image, error) {
	var current Image
	err := c.withLock(ctx, func() error {
		if err := c.enforceSingleFile(""); err != nil {
			return err
		}
		files, err := c.bitmaps()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return ErrNoActiveImage
		}
		current = newImage(files[0].path)
		return nil
	})
	return current, err
}

// Advance replaces the slot content with a new bitmap from the engine.
func (c *Carousel) Advance(ctx context.Context) (Image, error) {
	if c.engine == nil {
		return Image{}, errors.New("carousel: no content engine configured")
	}
	if err := c.withLock(ctx, func() error { return c.enforceSingleFile("") }); err != nil {
		return Image{}, err
	}

	src, err := c.engine.Next(ctx)
	if err != nil {
		return Image{}, err
	}
	if err := c.validateSource(src.Path); err != nil {
		return Image{}, err
	}

	var promoted Image
	err = c.withLock(ctx, func() error {
		tmp, err := fileutil.StageCopy(src.Path, c.workDir)
		if err != nil {
			return fmt.Errorf("carousel: stage %s: %w", filepath.Base(src.Path), err)
		}
		dest := filepath.Join(c.workDir, c.newName())
		if err := os.Rename(tmp, dest); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("carousel: promote bitmap: %w", err)
		}
		if err := c.enforceSingleFile(filepath.Base(dest)); err != nil {
			return err
		}
		if info, err := os.Stat(dest); err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("%w: %s", ErrSlotInconsistent, filepath.Base(dest))
		}
		promoted = newImage(dest)
		return nil
	})
	if err != nil {
		return Image{}, err
	}
	c.logger.Info("slot advanced",
		logging.String(logging.FieldImage, promoted.Name),
		logging.String("source", src.Name),
	)
	return promoted, nil
}

func (c *Carousel) validateSource(path string) error {
	if !strings.EqualFold(filepath.Ext(path), bitmapExt) {
		return &InvalidSourceImageError{Path: path, Reason: "not a .bmp file"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return &InvalidSourceImageError{Path: path, Reason: err.Error()}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	work := c.workDir
	if resolved, err := filepath.EvalSymlinks(work); err == nil {
		work = resolved
	}
	if rel, err := filepath.Rel(work, abs); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &InvalidSourceImageError{Path: path, Reason: "source is inside the working directory"}
	}
	return nil
}

type slotFile struct {
	path    string
	name    string
	modTime time.Time
}

func (c *Carousel) bitmaps() ([]slotFile, error) {
	entries, err := os.ReadDir(c.workDir)
	if err != nil {
		return nil, fmt.Errorf("carousel: read working directory: %w", err)
	}
	files := make([]slotFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(entry.Name()), bitmapExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("carousel: stat %s: %w", entry.Name(), err)
		}
		files = append(files, slotFile{
			path:    filepath.Join(c.workDir, entry.Name()),
			name:    entry.Name(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// enforceSingleFile deletes all but one bitmap. keep names the survivor when
// it is present; otherwise the newest by modification time wins, with ties
// going to the greater name.
func (c *Carousel) enforceSingleFile(keep string) error {
	files, err := c.bitmaps()
	if err != nil {
		return err
	}
	if len(files) <= 1 {
		return nil
	}
	sort.Slice(files, func(i, j int) bool {
		if keep != "" && (files[i].name == keep) != (files[j].name == keep) {
			return files[i].name == keep
		}
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].name > files[j].name
	})
	for _, stale := range files[1:] {
		if err := os.Remove(stale.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("carousel: remove stale %s: %w", stale.name, err)
		}
		c.logger.Debug("stale bitmap removed",
			logging.String(logging.FieldImage, stale.name),
			logging.String("kept", files[0].name),
		)
	}
	return nil
}

func (c *Carousel) withLock(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	locked, err := c.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("carousel: acquire slot lock: %w", err)
	}
	if !locked {
		return errors.New("carousel: slot lock not acquired")
	}
	defer func() {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Warn("slot lock release failed", logging.Error(err))
		}
	}()
	return fn()
}
