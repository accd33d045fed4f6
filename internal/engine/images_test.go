package engine_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trmnl/internal/engine"
	"trmnl/internal/render"
)

func writeSourcePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		img.SetGray(x, 10, color.Gray{Y: 255})
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func TestImageEngineConvertsAndCaches(t *testing.T) {
	sourceDir := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "images")
	writeSourcePNG(t, filepath.Join(sourceDir, "Barb Photo.png"))
	if err := os.WriteFile(filepath.Join(sourceDir, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	eng := engine.NewImageEngine(sourceDir, cacheDir, render.DefaultOptions(), func(int) int { return 0 }, nil)
	sources, err := eng.Sources()
	if err != nil {
		t.Fatalf("Sources returned error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected one source image, got %v", sources)
	}

	img, err := eng.Next(context.Background())
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if img.Name != "image_barb_photo" {
		t.Fatalf("unexpected name %q", img.Name)
	}
	first, err := os.Stat(img.Path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(sourceDir, "Barb Photo.png"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	again, err := eng.Next(context.Background())
	if err != nil {
		t.Fatalf("second Next returned error: %v", err)
	}
	second, err := os.Stat(again.Path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if !second.ModTime().Equal(first.ModTime()) {
		t.Fatal("expected cached bitmap to be reused")
	}
}

func TestImageEngineEmptyDirectory(t *testing.T) {
	eng := engine.NewImageEngine(t.TempDir(), t.TempDir(), render.DefaultOptions(), nil, nil)
	if _, err := eng.Next(context.Background()); !errors.Is(err, engine.ErrNoSourceImages) {
		t.Fatalf("expected ErrNoSourceImages, got %v", err)
	}
}
