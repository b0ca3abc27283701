// Package config holds run options for a conversion. Values are layered:
// defaults, then an optional YAML or TOML file, then a .env file and
// DOXYMARK_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/doxymark/internal/doctree"
	"github.com/dgallion1/doxymark/internal/output"
	"github.com/dgallion1/doxymark/internal/render"
)

const (
	DefaultOutput      = "api.md"
	DefaultSplitOutput = "api_%s.md"
	DefaultLanguage    = "cpp"
	DefaultDebounce    = 500 * time.Millisecond
	DefaultServeAddr   = ":8090"

	envPrefix = "DOXYMARK_"
)

var (
	ErrMissingDirectory   = errors.New("xml directory is required")
	ErrMissingPlaceholder = errors.New("output must contain '%s' for group or class name substitution when groups or classes are enabled")
)

type Config struct {
	Directory string `yaml:"directory" toml:"directory"` // Doxygen XML directory
	Output    string `yaml:"output" toml:"output"`       // output file, may hold %s

	Groups  bool `yaml:"groups" toml:"groups"`
	Classes bool `yaml:"classes" toml:"classes"`
	Pages   bool `yaml:"pages" toml:"pages"`
	NoIndex bool `yaml:"noindex" toml:"noindex"`

	Anchors     bool `yaml:"anchors" toml:"anchors"`
	HTMLAnchors bool `yaml:"html_anchors" toml:"html_anchors"`

	Language  string          `yaml:"language" toml:"language"`
	Templates string          `yaml:"templates" toml:"templates"` // custom template directory
	Filters   doctree.Filters `yaml:"filters" toml:"filters"`

	// Writer
	Workers int  `yaml:"workers" toml:"workers"`
	Check   bool `yaml:"check" toml:"check"` // verify links after writing

	LogFile string `yaml:"log_file" toml:"log_file"`

	Serve ServeConfig `yaml:"serve" toml:"serve"`
	Watch WatchConfig `yaml:"watch" toml:"watch"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr" toml:"addr"`
	Token string `yaml:"token" toml:"token"` // bearer token for POST /api/rebuild
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
}

// Default returns the stock options.
func Default() Config {
	return Config{
		Anchors:  true,
		Language: DefaultLanguage,
		Filters:  doctree.DefaultFilters(),
		Workers:  4,
		Serve:    ServeConfig{Addr: DefaultServeAddr},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}

// Load builds a Config from defaults, the optional file at path, a .env file
// in the working directory, and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Directory = envOr("DIRECTORY", c.Directory)
	c.Output = envOr("OUTPUT", c.Output)

	c.Groups = envBool("GROUPS", c.Groups)
	c.Classes = envBool("CLASSES", c.Classes)
	c.Pages = envBool("PAGES", c.Pages)
	c.NoIndex = envBool("NOINDEX", c.NoIndex)

	c.Anchors = envBool("ANCHORS", c.Anchors)
	c.HTMLAnchors = envBool("HTML_ANCHORS", c.HTMLAnchors)

	c.Language = envOr("LANGUAGE", c.Language)
	c.Templates = envOr("TEMPLATES", c.Templates)
	c.Filters.Members = envList("FILTERS_MEMBERS", c.Filters.Members)
	c.Filters.Compounds = envList("FILTERS_COMPOUNDS", c.Filters.Compounds)

	c.Workers = envInt("WORKERS", c.Workers)
	c.Check = envBool("CHECK", c.Check)
	c.LogFile = envOr("LOG_FILE", c.LogFile)

	c.Serve.Addr = envOr("SERVE_ADDR", c.Serve.Addr)
	c.Serve.Token = envOr("SERVE_TOKEN", c.Serve.Token)
	c.Watch.Debounce = envDuration("WATCH_DEBOUNCE", c.Watch.Debounce)
}

// Normalize fills derived defaults. It is called after flags are applied.
func (c *Config) Normalize() {
	if c.Output == "" {
		if c.Groups || c.Classes {
			c.Output = DefaultSplitOutput
		} else {
			c.Output = DefaultOutput
		}
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if len(c.Filters.Members) == 0 && len(c.Filters.Compounds) == 0 {
		c.Filters = doctree.DefaultFilters()
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}

func (c Config) Validate() error {
	if c.Directory == "" {
		return ErrMissingDirectory
	}
	if (c.Groups || c.Classes) && !strings.Contains(c.Output, output.Placeholder) {
		return ErrMissingPlaceholder
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// AnchorStyle returns the anchor style selected by the options. HTML
// anchors win when both are set.
func (c Config) AnchorStyle() render.AnchorStyle {
	switch {
	case c.HTMLAnchors:
		return render.AnchorHTML
	case c.Anchors:
		return render.AnchorMarkdown
	default:
		return render.AnchorNone
	}
}

// Layout returns the output layout for these options.
func (c Config) Layout() output.Layout {
	return output.Layout{
		Output:  c.Output,
		Groups:  c.Groups,
		Classes: c.Classes,
		Pages:   c.Pages,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list.
func envList(key string, fallback []string) []string {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
