package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trmnl/internal/config"
	"trmnl/internal/render"
	"trmnl/internal/testsupport"
)

func TestImportAndCandidates(t *testing.T) {
	env := setupCLITestEnv(t)
	csvPath := env.writeCSV(t)

	out, _, err := runCLI(t, []string{"import", csvPath}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 3 poems")
	requireContains(t, out, "Ezra Pound")

	out, _, err = runCLI(t, []string{"candidates"}, env.configPath)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	requireContains(t, out, "In a Station of the Metro")
	requireContains(t, out, "The Red Wheelbarrow")
	requireContains(t, out, "2 candidates")
	if strings.Contains(out, "Unlisted") {
		t.Fatalf("poem outside the allow-list listed:\n%s", out)
	}
}

func TestImportRequiresCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"import"}, env.configPath); err == nil {
		t.Fatal("expected error without csv path")
	}
}

func TestNextThenCurrent(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"import", env.writeCSV(t)}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	if _, _, err := runCLI(t, []string{"current"}, env.configPath); err == nil {
		t.Fatal("expected current to fail on an empty slot")
	}

	out, _, err := runCLI(t, []string{"next"}, env.configPath)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.WorkingDir)
	requireContains(t, out, "/api/image/")

	current, _, err := runCLI(t, []string{"current"}, env.configPath)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != out {
		t.Fatalf("current differs from next\nnext:    %s\ncurrent: %s", out, current)
	}

	entries, err := os.ReadDir(env.cfg.Paths.WorkingDir)
	if err != nil {
		t.Fatalf("read working dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in working dir, got %d", len(entries))
	}
}

func TestPrerenderFillsCache(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"import", env.writeCSV(t)}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, _, err := runCLI(t, []string{"prerender"}, env.configPath)
	if err != nil {
		t.Fatalf("prerender: %v", err)
	}
	requireContains(t, out, "2 rendered, 0 cached, 0 failed")

	matches, err := filepath.Glob(filepath.Join(env.cfg.PoemCacheDir(), "poem_*.bmp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 cached bitmaps, got %v", matches)
	}

	out, _, err = runCLI(t, []string{"prerender"}, env.configPath)
	if err != nil {
		t.Fatalf("second prerender: %v", err)
	}
	requireContains(t, out, "0 rendered, 2 cached, 0 failed")
}

func TestRenderImage(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "photo.png")
	testsupport.WritePNG(t, src, 160, 90)
	dest := filepath.Join(env.baseDir, "out", "photo.bmp")

	out, _, err := runCLI(t, []string{"render-image", src, dest}, env.configPath)
	if err != nil {
		t.Fatalf("render-image: %v", err)
	}
	requireContains(t, out, "48062 bytes")

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if info.Size() != int64(render.EncodedSize(800, 480)) {
		t.Fatalf("unexpected bitmap size %d", info.Size())
	}
}

func TestStatusWithImageEngine(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithEngine(config.EngineImages))
	testsupport.WritePNG(t, filepath.Join(env.cfg.Images.SourceDir, "a.png"), 40, 20)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Source images")
	requireContains(t, out, "not reachable")
	requireContains(t, out, "Engine:")
}

func TestStatusReportsFailedChecks(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err == nil {
		t.Fatalf("expected status to fail without an imported dataset\n%s", out)
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "Poem dataset")
}
