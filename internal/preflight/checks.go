package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"trmnl/internal/config"
	"trmnl/internal/dataset"
	"trmnl/internal/deps"
	"trmnl/internal/render"
	"trmnl/internal/services/llm"
)

// CheckLLM verifies that the LLM API is reachable and answers with the
// configured model. It uses a 30-second timeout and a single attempt.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Result{Name: name, Detail: "base URL missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", client.Model())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDataset opens the poem store and reports how many rows it holds.
func CheckDataset(ctx context.Context, path string) Result {
	const name = "Poem dataset"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "dataset path not configured"}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (not imported; run trmnl import)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	store, err := dataset.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if count == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (empty; run trmnl import)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d poems)", path, count)}
}

// CheckSourceImages verifies the image engine has at least one decodable file.
func CheckSourceImages(dir string) Result {
	const name = "Source images"
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", dir, err)}
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && render.IsSupportedImage(entry.Name()) {
			count++
		}
	}
	if count == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (no supported images)", dir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d images)", dir, count)}
}

// CheckRenderer verifies the headless browser used for HTML rendering.
func CheckRenderer(ctx context.Context, binary string) Result {
	const name = "Chromium"
	statuses := deps.CheckBinaries(ctx, []deps.Requirement{{
		Name:        name,
		Command:     binary,
		Description: "Renders poem HTML to bitmaps",
		VersionArgs: []string{"--version"},
	}})
	status := statuses[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail + " (set render.renderer = \"builtin\" to skip)"}
	}
	detail := status.Command
	if status.Version != "" {
		detail = status.Version
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
