package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/dateutil"
	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/htmlconv"
	"github.com/alnah/go-tex2html/internal/plugins"
	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxFormatLength    = 200
	MaxNameLength      = 64   // plugin, counter and environment names
	MaxListLength      = 256  // entries in any list or map
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxStyleLength     = 50
	MaxExtensionLength = 10
	MaxWorkers         = 256
	MaxIgnoredArgs     = 9 // TeX macros take at most nine arguments
)

// Config holds all configuration for a conversion run.
type Config struct {
	Placeholder PlaceholderConfig `yaml:"placeholder"`
	Plugins     PluginsConfig     `yaml:"plugins"`
	Render      RenderConfig      `yaml:"render"`
	Counters    CountersConfig    `yaml:"counters"`
	Meta        MetaConfig        `yaml:"meta"`
}

// PlaceholderConfig defines how fragments are named and referenced.
type PlaceholderConfig struct {
	Format string `yaml:"format"` // fmt format over (name, ordinal)
	Tag    string `yaml:"tag"`    // fmt format over the placeholder
}

// PluginsConfig selects and tunes the built-in plugins.
type PluginsConfig struct {
	Benign  []string       `yaml:"benign"`  // Empty = htmlconv.DefaultBenign
	Ignore  map[string]int `yaml:"ignore"`  // Empty = plugins.DefaultIgnore
	Disable []string       `yaml:"disable"` // Built-ins that become fragments
	Style   string         `yaml:"style"`   // chroma style for listings
}

// RenderConfig defines fragment materialization.
type RenderConfig struct {
	Workers        int      `yaml:"workers"`        // 0 = GOMAXPROCS
	OutputDir      string   `yaml:"outputDir"`      // Empty = next to the input
	KeepSources    bool     `yaml:"keepSources"`    // Keep fragment .tex files
	AltImageFormat string   `yaml:"altImageFormat"` // Extension for rendered fragments
	Command        []string `yaml:"command"`        // Run per fragment; "{}" is the .tex path
}

// CountersConfig defines where counter snapshots come from.
type CountersConfig struct {
	File   string   `yaml:"file"`   // .yaml/.yml feed or raw stream dump
	Envs   []string `yaml:"envs"`   // Environments salted before
	Macros []string `yaml:"macros"` // Macros salted before
	Names  []string `yaml:"names"`  // Counters written per snapshot
}

// MetaConfig defines the leading HTML comment.
type MetaConfig struct {
	Date string `yaml:"date"` // "auto", "auto:FORMAT", preset, literal or "none"
}

// SaltOptions returns the salting options for these counters.
func (c CountersConfig) SaltOptions() counters.SaltOptions {
	return counters.SaltOptions{Names: c.Names, Envs: c.Envs, Macros: c.Macros}
}

// BuiltinConfig returns the built-in plugin config for these settings.
func (c PluginsConfig) BuiltinConfig() plugins.Config {
	var ignore map[string]int
	if len(c.Ignore) > 0 {
		ignore = c.Ignore
	}
	return plugins.Config{Ignore: ignore, Disable: c.Disable, Style: c.Style}
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for library users
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("placeholder.format", c.Placeholder.Format, MaxFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("placeholder.tag", c.Placeholder.Tag, MaxFormatLength); err != nil {
		return err
	}
	if f := c.Placeholder.Format; f != "" && strings.Count(f, "%") != 2 {
		return fmt.Errorf("%w: placeholder.format %q must hold a name and an ordinal verb", ErrInvalidValue, f)
	}
	if t := c.Placeholder.Tag; t != "" && !strings.Contains(t, "%s") {
		return fmt.Errorf("%w: placeholder.tag %q must contain %%s", ErrInvalidValue, t)
	}

	if err := validateNames("plugins.benign", c.Plugins.Benign); err != nil {
		return err
	}
	if err := validateNames("plugins.disable", c.Plugins.Disable); err != nil {
		return err
	}
	if len(c.Plugins.Ignore) > MaxListLength {
		return fmt.Errorf("%w: plugins.ignore (%d entries, max %d)", ErrFieldTooLong, len(c.Plugins.Ignore), MaxListLength)
	}
	for name, n := range c.Plugins.Ignore {
		if err := validateFieldLength("plugins.ignore", name, MaxNameLength); err != nil {
			return err
		}
		if n < 0 || n > MaxIgnoredArgs {
			return fmt.Errorf("%w: plugins.ignore[%s]: must be between 0 and %d, got %d", ErrInvalidValue, name, MaxIgnoredArgs, n)
		}
	}
	if err := validateFieldLength("plugins.style", c.Plugins.Style, MaxStyleLength); err != nil {
		return err
	}

	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if err := validateFieldLength("render.outputDir", c.Render.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.altImageFormat", c.Render.AltImageFormat, MaxExtensionLength); err != nil {
		return err
	}
	if len(c.Render.Command) > MaxListLength {
		return fmt.Errorf("%w: render.command (%d entries, max %d)", ErrFieldTooLong, len(c.Render.Command), MaxListLength)
	}
	for i, arg := range c.Render.Command {
		if err := validateFieldLength(fmt.Sprintf("render.command[%d]", i), arg, MaxPathLength); err != nil {
			return err
		}
	}
	if len(c.Render.Command) > 0 && c.Render.Command[0] == "" {
		return fmt.Errorf("%w: render.command: empty program name", ErrInvalidValue)
	}
	if ext := c.Render.AltImageFormat; ext != "" {
		if err := fileutil.ValidateExtension(ext); err != nil {
			return fmt.Errorf("%w: render.altImageFormat: %v", ErrInvalidValue, err)
		}
	}

	if err := validateFieldLength("counters.file", c.Counters.File, MaxPathLength); err != nil {
		return err
	}
	for _, l := range []struct {
		field string
		names []string
	}{
		{"counters.envs", c.Counters.Envs},
		{"counters.macros", c.Counters.Macros},
		{"counters.names", c.Counters.Names},
	} {
		if err := validateNames(l.field, l.names); err != nil {
			return err
		}
	}

	if err := validateFieldLength("meta.date", c.Meta.Date, dateutil.MaxDateFormatLength+len("auto:")); err != nil {
		return err
	}
	if _, err := dateutil.Resolve(c.Meta.Date, time.Time{}); err != nil {
		return fmt.Errorf("meta.date: %w", err)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateNames checks a list of TeX names.
func validateNames(fieldName string, names []string) error {
	if len(names) > MaxListLength {
		return fmt.Errorf("%w: %s (%d entries, max %d)", ErrFieldTooLong, fieldName, len(names), MaxListLength)
	}
	for i, n := range names {
		field := fmt.Sprintf("%s[%d]", fieldName, i)
		if n == "" {
			return fmt.Errorf("%w: %s: empty name", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field, n, MaxNameLength); err != nil {
			return err
		}
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Placeholder: PlaceholderConfig{
			Format: htmlconv.DefaultPlaceholderFormat,
			Tag:    htmlconv.DefaultTagFormat,
		},
		Plugins: PluginsConfig{
			Benign: append([]string(nil), htmlconv.DefaultBenign...),
			Ignore: plugins.CloneIgnore(),
			Style:  plugins.DefaultStyle,
		},
		Render: RenderConfig{AltImageFormat: "png"},
		Counters: CountersConfig{
			Envs:   append([]string(nil), counters.DefaultEnvs...),
			Macros: append([]string(nil), counters.DefaultMacros...),
			Names:  append([]string(nil), counters.DefaultNames...),
		},
		Meta: MetaConfig{Date: "auto"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file take their DefaultConfig values; an empty
// list such as `benign: []` is kept empty.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	if !fileutil.FileExists(configPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	cfg := &Config{}
	if err := yamlutil.DecodeFile(configPath, cfg); err != nil {
		if errors.Is(err, yamlutil.ErrUnreadable) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.FillDefaults()
	return cfg, nil
}

// FillDefaults sets every empty field to its DefaultConfig value.
func (c *Config) FillDefaults() {
	d := DefaultConfig()
	if c.Placeholder.Format == "" {
		c.Placeholder.Format = d.Placeholder.Format
	}
	if c.Placeholder.Tag == "" {
		c.Placeholder.Tag = d.Placeholder.Tag
	}
	if c.Plugins.Benign == nil {
		c.Plugins.Benign = d.Plugins.Benign
	}
	if c.Plugins.Ignore == nil {
		c.Plugins.Ignore = d.Plugins.Ignore
	}
	if c.Plugins.Style == "" {
		c.Plugins.Style = d.Plugins.Style
	}
	if c.Render.AltImageFormat == "" {
		c.Render.AltImageFormat = d.Render.AltImageFormat
	}
	if c.Counters.Envs == nil {
		c.Counters.Envs = d.Counters.Envs
	}
	if c.Counters.Macros == nil {
		c.Counters.Macros = d.Counters.Macros
	}
	if c.Counters.Names == nil {
		c.Counters.Names = d.Counters.Names
	}
	if c.Meta.Date == "" {
		c.Meta.Date = d.Meta.Date
	}
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-tex2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, "go-tex2html", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Tried: triedPaths}
}

// NotFoundError lists the paths searched for a named config.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}
