package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trmnl/internal/config"
	"trmnl/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

var testPoems = []testsupport.Poem{
	{
		Title: "In a Station of the Metro",
		Body:  "The apparition of these faces in the crowd;\nPetals on a wet, black bough.",
		Poet:  "Ezra Pound",
	},
	{
		Title: "The Red Wheelbarrow",
		Body:  "so much depends\nupon\n\na red wheel\nbarrow\n\nglazed with rain\nwater\n\nbeside the white\nchickens",
		Poet:  "William Carlos Williams",
	},
	{
		Title: "Unlisted",
		Body:  "A poem by somebody outside the allow-list, long enough to pass the filter.",
		Poet:  "Anonymous",
	},
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	opts = append([]testsupport.ConfigOption{
		testsupport.WithAuthors("Ezra Pound", "William Carlos Williams"),
		testsupport.WithLengthBounds(10, 800),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	// Nothing listens here, so status reports the daemon as unreachable.
	cfg.Paths.ServerURL = "http://127.0.0.1:1"

	configPath := filepath.Join(homeDir, ".config", "trmnl", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func (e *cliTestEnv) writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "poems.csv")
	if err := os.WriteFile(path, []byte(testsupport.PoemsCSV(t, testPoems...)), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
