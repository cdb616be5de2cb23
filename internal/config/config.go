package config

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/model"
)

const (
	// ConfigBaseName is the name of the configuration file without extension.
	ConfigBaseName = "bindery"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "bindery"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "bindery"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"
)

// Extensions lists the accepted config file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Config represents a bindery configuration file.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`

	// Engine contains binding engine policies.
	Engine EngineConfig `json:"engine" yaml:"engine" toml:"engine"`

	// Log contains logger settings.
	Log LogConfig `json:"log" yaml:"log" toml:"log"`

	// Metrics contains Prometheus collector settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`

	// Trace contains OpenTelemetry settings.
	Trace TraceConfig `json:"trace" yaml:"trace" toml:"trace"`

	// Inspect contains inspector server settings.
	Inspect InspectConfig `json:"inspect" yaml:"inspect" toml:"inspect"`

	// Model seeds model properties before binding, keyed by property name.
	Model map[string]any `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig contains binding engine policies.
type EngineConfig struct {
	// Rebind is "teardown" or "error".
	Rebind string `json:"rebind,omitempty" yaml:"rebind,omitempty" toml:"rebind,omitempty"`

	// MarkerRemoval is "release" or "keep".
	MarkerRemoval string `json:"markerRemoval,omitempty" yaml:"markerRemoval,omitempty" toml:"markerRemoval,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// MetricsConfig contains Prometheus collector settings.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty" toml:"subsystem,omitempty"`
}

// TraceConfig contains OpenTelemetry settings.
type TraceConfig struct {
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" toml:"tracerName,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Addr is the listen address of the inspector.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory. It looks for
// bindery.json, bindery.yaml, bindery.yml and bindery.toml in that order.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, errors.New("E221").
			WithDetail("No bindery config found in " + dir).
			WithSuggestion("Create bindery.json, bindery.yaml or bindery.toml")
	}
	return LoadFile(path)
}

// Find returns the config file in dir.
func Find(dir string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadFile reads configuration from the specified file path. The format
// follows the file extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E221").WithDetail(path)
		}
		return nil, errors.New("E220").Wrap(err)
	}

	cfg := &Config{}
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New("E220").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return errors.Newf(errors.CategoryConfig, "unsupported config extension %q", ext)
	}
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New("E220").Wrap(err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return errors.New("E220").Wrap(err)
		}
		enc.Close()
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return errors.New("E220").Wrap(err)
		}
	default:
		return errors.Newf(errors.CategoryConfig, "unsupported config extension %q", ext)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.New("E220").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Engine.Rebind == "" {
		c.Engine.Rebind = binding.RebindTeardown.String()
	}
	if c.Engine.MarkerRemoval == "" {
		c.Engine.MarkerRemoval = binding.MarkerRelease.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Trace.TracerName == "" {
		c.Trace.TracerName = DefaultTracerName
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := binding.ParseRebindPolicy(c.Engine.Rebind); err != nil {
		return err
	}
	if _, err := binding.ParseMarkerPolicy(c.Engine.MarkerRemoval); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E222").
			WithDetailf("log.format %q", c.Log.Format).
			WithSuggestion(`Use "text" or "json"`)
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E222").
			WithDetailf("log.level %q", c.Log.Level).
			WithSuggestion(`Use "debug", "info", "warn" or "error"`)
	}
	return l, nil
}

// Logger builds a logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// EngineOptions returns the engine options this config describes. Metrics
// register with reg.
func (c *Config) EngineOptions(logger *slog.Logger, reg prometheus.Registerer) ([]binding.Option, error) {
	rebind, err := binding.ParseRebindPolicy(c.Engine.Rebind)
	if err != nil {
		return nil, err
	}
	markers, err := binding.ParseMarkerPolicy(c.Engine.MarkerRemoval)
	if err != nil {
		return nil, err
	}
	metrics := binding.NewMetrics(
		binding.WithMetricsNamespace(c.Metrics.Namespace),
		binding.WithMetricsSubsystem(c.Metrics.Subsystem),
		binding.WithMetricsRegistry(reg),
	)
	return []binding.Option{
		binding.WithLogger(logger),
		binding.WithMetrics(metrics),
		binding.WithTracer(otel.Tracer(c.Trace.TracerName)),
		binding.WithRebindPolicy(rebind),
		binding.WithMarkerRemoval(markers),
	}, nil
}

// Seed sets the configured model properties on m in name order.
func (c *Config) Seed(m *model.Object) {
	names := make([]string, 0, len(c.Model))
	for name := range c.Model {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		m.Set(name, seedValue(c.Model[name]))
	}
}

// seedValue turns decoded lists into string sequences, which checkbox and
// multi-select groups aggregate into.
func seedValue(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}
