package preflight

import (
	"context"

	"trmnl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The LLM check only runs when the poem engine restores text.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckDirectoryAccess("Working directory", cfg.Paths.WorkingDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	switch cfg.Engine.Kind {
	case config.EngineImages:
		results = append(results, CheckSourceImages(cfg.Images.SourceDir))
	default:
		results = append(results, CheckDataset(ctx, cfg.Paths.DatasetPath))
		if cfg.Restoration.Enabled {
			results = append(results, CheckLLM(ctx, "Restoration LLM", cfg.GetLLM()))
		}
	}

	if cfg.Render.Renderer == config.RendererChromium {
		results = append(results, CheckRenderer(ctx, cfg.Render.ChromiumBinary))
	}
	return results
}
