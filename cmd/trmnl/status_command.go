package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trmnl/internal/config"
	"trmnl/internal/preflight"
	"trmnl/internal/server"
)

const daemonProbeTimeout = 2 * time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, dataset, renderer, LLM, and the running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Server", colorize)...)
			lines = append(lines, renderServerStatus(cmd.Context(), cfg, colorize)...)
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Content", colorize)...)
			lines = append(lines, renderStatusLine("Engine", statusInfo, cfg.Engine.Kind, colorize))
			lines = append(lines, renderStatusLine("Renderer", statusInfo, cfg.Render.Renderer, colorize))
			lines = append(lines, renderStatusLine("Restoration", statusInfo, enabledLabel(cfg.Restoration.Enabled), colorize))
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			failed := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func renderServerStatus(ctx context.Context, cfg *config.Config, colorize bool) []string {
	status, err := fetchServerStatus(ctx, cfg)
	if err != nil {
		return []string{renderStatusLine("Daemon", statusWarn, "not reachable at "+cfg.Paths.ServerURL, colorize)}
	}
	lines := []string{
		renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (up %s)", time.Duration(status.UptimeSeconds)*time.Second), colorize),
	}
	current := status.CurrentImage
	if current == "" {
		current = "none"
	}
	lines = append(lines, renderStatusLine("Current image", statusInfo, current, colorize))
	return lines
}

func fetchServerStatus(ctx context.Context, cfg *config.Config) (server.StatusResponse, error) {
	var status server.StatusResponse
	probeCtx, cancel := context.WithTimeout(ctx, daemonProbeTimeout)
	defer cancel()

	url := strings.TrimRight(cfg.Paths.ServerURL, "/") + "/api/status"
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return status, err
	}
	if token := strings.TrimSpace(cfg.Paths.APIToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return status, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}

func enabledLabel(value bool) string {
	if value {
		return "enabled"
	}
	return "disabled"
}
