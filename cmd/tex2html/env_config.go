package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-tex2html/internal/config"
)

// envPrefix starts every environment variable the command reads.
const envPrefix = "TEX2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // TEX2HTML_CONFIG: config file name or path
	OutputDir  string // TEX2HTML_OUTPUT_DIR: output directory
	Style      string // TEX2HTML_STYLE: chroma style
	Date       string // TEX2HTML_DATE: date setting for the HTML comment
	Counters   string // TEX2HTML_COUNTERS: counter feed path
	Workers    int    // TEX2HTML_WORKERS: parallel fragment renders
}

// knownEnvVars lists valid TEX2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TEX2HTML_CONFIG":     true,
	"TEX2HTML_OUTPUT_DIR": true,
	"TEX2HTML_STYLE":      true,
	"TEX2HTML_DATE":       true,
	"TEX2HTML_COUNTERS":   true,
	"TEX2HTML_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// A TEX2HTML_WORKERS value that is not a positive integer is ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("TEX2HTML_CONFIG"),
		OutputDir:  getenv("TEX2HTML_OUTPUT_DIR"),
		Style:      getenv("TEX2HTML_STYLE"),
		Date:       getenv("TEX2HTML_DATE"),
		Counters:   getenv("TEX2HTML_COUNTERS"),
	}

	if workers := getenv("TEX2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized TEX2HTML_* variables.
// Helps catch typos like TEX2HTML_WORKER instead of TEX2HTML_WORKERS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Precedence: CLI flags > env vars > config file > defaults.
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Render.OutputDir = env.OutputDir
	}
	if env.Style != "" {
		cfg.Plugins.Style = env.Style
	}
	if env.Date != "" {
		cfg.Meta.Date = env.Date
	}
	if env.Counters != "" {
		cfg.Counters.File = env.Counters
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
}
