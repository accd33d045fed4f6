package daemon_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"trmnl/internal/carousel"
	"trmnl/internal/daemon"
	"trmnl/internal/testsupport"
)

type slotStub struct {
	image      carousel.Image
	advanceErr error
	advances   int
}

func (s *slotStub) Current(context.Context) (carousel.Image, error) {
	if s.image.Path == "" {
		return carousel.Image{}, carousel.ErrNoActiveImage
	}
	return s.image, nil
}

func (s *slotStub) Advance(context.Context) (carousel.Image, error) {
	s.advances++
	if s.advanceErr != nil {
		return carousel.Image{}, s.advanceErr
	}
	return s.image, nil
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(t.TempDir(), "abc.bmp")
	if err := os.WriteFile(path, []byte("BM"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	slot := &slotStub{image: carousel.Image{Path: path, Name: "abc"}}
	d, err := daemon.New(cfg, slot, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if slot.advances != 1 {
		t.Fatalf("expected pre-load advance, got %d", slot.advances)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.CurrentImage != "abc.bmp" {
		t.Fatalf("unexpected current image %q", status.CurrentImage)
	}
	resp, err := http.Get("http://" + status.APIAddress + "/api/image/abc.bmp")
	if err != nil {
		t.Fatalf("GET image: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonPreloadFailureIsNotFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	slot := &slotStub{advanceErr: errors.New("renderer missing")}
	d, err := daemon.New(cfg, slot, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()
	if !d.Status(ctx).Running {
		t.Fatal("expected daemon running despite preload failure")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, &slotStub{advanceErr: errors.New("empty")}, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	second, err := daemon.New(cfg, &slotStub{advanceErr: errors.New("empty")}, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be refused")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, &slotStub{advanceErr: errors.New("empty")}, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Status(context.Background()).Running {
		t.Fatal("expected daemon stopped after cancel")
	}
}
