package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	SourceREST = "rest"
	SourceRSS  = "rss"
)

// EnvBaseURL overrides the URL of the active REST source.
const EnvBaseURL = "BLOGREADER_BASE_URL"

type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	PageSize          int      `yaml:"page_size"`
	SearchDebounce    string   `yaml:"search_debounce"`
	ResetDelay        string   `yaml:"reset_delay"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	LogFile           string   `yaml:"log_file,omitempty"`
	Sources           []Source `yaml:"sources"`
}

// GetPageSize returns the page size, defaulting to 10.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 10
	}
	return c.PageSize
}

func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.SearchDebounce)
	if err != nil || d < 0 {
		return 300 * time.Millisecond
	}
	return d
}

func (c *Config) ResetDuration() time.Duration {
	d, err := time.ParseDuration(c.ResetDelay)
	if err != nil || d < 0 {
		return 1500 * time.Millisecond
	}
	return d
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.EnabledSources() {
		names = append(names, s.Name)
	}
	return names
}

// ActiveSource picks the named source, or the first enabled one when name is
// empty. The env override applies to REST sources only.
func (c *Config) ActiveSource(name string) (Source, error) {
	var (
		src   Source
		found bool
	)
	for _, s := range c.Sources {
		if name == "" && s.Enabled || name != "" && s.Name == name {
			src, found = s, true
			break
		}
	}
	if !found {
		if name != "" {
			return Source{}, fmt.Errorf("unknown source %q", name)
		}
		return Source{}, fmt.Errorf("no enabled source configured")
	}
	if env := os.Getenv(EnvBaseURL); env != "" && src.Type == SourceREST {
		src.URL = env
	}
	return src, nil
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "blogreader", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := *defaults
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = defaults.Sources
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.PageSize < 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	validTypes := map[string]bool{SourceREST: true, SourceRSS: true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rest, rss)", s.Name, s.Type)
		}
	}
	return nil
}
