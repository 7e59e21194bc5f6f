package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-go/reactor/internal/errors"
	"github.com/vango-go/reactor/pkg/reactor"
)

const (
	// ConfigFileName is the JSON configuration file name.
	ConfigFileName = "reactor.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "reactor.yaml"

	// EnvConfig names an explicit configuration file.
	EnvConfig = "REACTOR_CONFIG"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultPathPrefix is the default inspector route prefix.
	DefaultPathPrefix = "/_reactor"

	// DefaultArchiveTimeout is the default per-commit upload timeout.
	DefaultArchiveTimeout = "10s"
)

// Config is the complete configuration file.
type Config struct {
	Runtime   RuntimeConfig   `json:"runtime" yaml:"runtime"`
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Logs      LogsConfig      `json:"cloudwatch" yaml:"cloudwatch"`
	Log       LogConfig       `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeConfig mirrors reactor.Config.
type RuntimeConfig struct {
	MaxPasses             int  `json:"maxPasses,omitempty" yaml:"maxPasses,omitempty"`
	MaxEffectRunsPerFlush int  `json:"maxEffectRunsPerFlush,omitempty" yaml:"maxEffectRunsPerFlush,omitempty"`
	MaxFlushesPerSecond   int  `json:"maxFlushesPerSecond,omitempty" yaml:"maxFlushesPerSecond,omitempty"`
	DispatchQueue         int  `json:"dispatchQueue,omitempty" yaml:"dispatchQueue,omitempty"`
	DebugMode             bool `json:"debugMode,omitempty" yaml:"debugMode,omitempty"`

	// EagerBailout is on unless set to false.
	EagerBailout *bool `json:"eagerBailout,omitempty" yaml:"eagerBailout,omitempty"`
}

// InspectorConfig configures the HTTP inspector.
type InspectorConfig struct {
	Addr       string `json:"addr,omitempty" yaml:"addr,omitempty"`
	PathPrefix string `json:"pathPrefix,omitempty" yaml:"pathPrefix,omitempty"`
}

// ArchiveConfig configures uploading commits to S3.
type ArchiveConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Bucket  string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LogsConfig configures sending commits to CloudWatch Logs.
type LogsConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	// Stream defaults to the root id.
	Stream string `json:"stream,omitempty" yaml:"stream,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	def := reactor.DefaultConfig()
	return &Config{
		Runtime: RuntimeConfig{
			MaxPasses:     def.MaxPasses,
			DispatchQueue: def.DispatchQueue,
		},
		Inspector: InspectorConfig{
			Addr:       DefaultInspectorAddr,
			PathPrefix: DefaultPathPrefix,
		},
		Archive: ArchiveConfig{
			Timeout: DefaultArchiveTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration for dir. REACTOR_CONFIG wins when set;
// otherwise reactor.json, then reactor.yaml. With no file at all the
// defaults are returned.
func Load(dir string) (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return LoadFile(path)
	}
	for _, name := range []string{ConfigFileName, YAMLFileName, "reactor.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the file
// extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R051").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Unset " + EnvConfig + " or create the file")
		}
		return nil, errors.New("R051").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("R050").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("R050").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R051").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	def := New()
	if c.Runtime.MaxPasses == 0 {
		c.Runtime.MaxPasses = def.Runtime.MaxPasses
	}
	if c.Runtime.DispatchQueue == 0 {
		c.Runtime.DispatchQueue = def.Runtime.DispatchQueue
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.PathPrefix == "" {
		c.Inspector.PathPrefix = DefaultPathPrefix
	}
	if c.Archive.Timeout == "" {
		c.Archive.Timeout = DefaultArchiveTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	r := c.Runtime
	switch {
	case r.MaxPasses < 0:
		return errors.New("R050").WithDetail("runtime.maxPasses must not be negative")
	case r.MaxEffectRunsPerFlush < 0:
		return errors.New("R050").WithDetail("runtime.maxEffectRunsPerFlush must not be negative")
	case r.MaxFlushesPerSecond < 0:
		return errors.New("R050").WithDetail("runtime.maxFlushesPerSecond must not be negative")
	case r.DispatchQueue < 0:
		return errors.New("R050").WithDetail("runtime.dispatchQueue must not be negative")
	}
	if c.Inspector.PathPrefix != "" && !strings.HasPrefix(c.Inspector.PathPrefix, "/") {
		return errors.New("R050").
			WithDetailf("inspector.pathPrefix %q must start with /", c.Inspector.PathPrefix)
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New("R050").
			WithDetail("archive.bucket is required when the archive is enabled")
	}
	if c.Logs.Enabled && c.Logs.Group == "" {
		return errors.New("R050").
			WithDetail("cloudwatch.group is required when CloudWatch Logs is enabled")
	}
	if d, err := c.ArchiveTimeout(); err != nil {
		return errors.New("R050").WithDetailf("archive.timeout: %v", err)
	} else if d <= 0 {
		return errors.New("R050").WithDetailf("archive.timeout %q must be positive", c.Archive.Timeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.New("R050").WithDetail(err.Error()).
			WithSuggestion("Use debug, info, warn or error")
	}
	if f := c.Log.Format; f != "" && f != "text" && f != "json" {
		return errors.New("R050").WithDetailf("log.format %q must be text or json", f)
	}
	return nil
}

// ReactorConfig converts the runtime section.
func (c *Config) ReactorConfig() reactor.Config {
	cfg := reactor.DefaultConfig()
	r := c.Runtime
	if r.MaxPasses > 0 {
		cfg.MaxPasses = r.MaxPasses
	}
	if r.DispatchQueue > 0 {
		cfg.DispatchQueue = r.DispatchQueue
	}
	cfg.MaxEffectRunsPerFlush = r.MaxEffectRunsPerFlush
	cfg.MaxFlushesPerSecond = r.MaxFlushesPerSecond
	cfg.DebugMode = r.DebugMode
	if r.EagerBailout != nil {
		cfg.EagerBailout = *r.EagerBailout
	}
	return cfg
}

// ArchiveTimeout parses the archive upload timeout.
func (c *Config) ArchiveTimeout() (time.Duration, error) {
	if c.Archive.Timeout == "" {
		return time.ParseDuration(DefaultArchiveTimeout)
	}
	return time.ParseDuration(c.Archive.Timeout)
}

// ParseLevel parses a log level name.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(name))
	return level, err
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
