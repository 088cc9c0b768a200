// Package config loads heapsim settings from defaults, an optional YAML file
// and HEAP_* environment variables, in that order of precedence.
package config

import (
	"net"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/printer"
	"github.com/joshuapare/heapsim/internal/format"
)

// Environment overrides.
const (
	EnvCapacity = "HEAP_CAPACITY"
	EnvStrategy = "HEAP_STRATEGY"
	EnvAddr     = "HEAP_ADDR"
	EnvLogLevel = "HEAP_LOG_LEVEL"
)

type AppConfig struct {
	Capacity Size           `yaml:"capacity"`
	Strategy alloc.Strategy `yaml:"strategy"`
	Server   *ServerConfig  `yaml:"server"`
	Log      *LogConfig     `yaml:"log"`
	Report   *ReportConfig  `yaml:"report"`
}

func New() *AppConfig {
	return &AppConfig{
		Capacity: format.DefaultCapacity,
		Strategy: alloc.FirstFit,
		Server:   NewServerConfig(),
		Log:      NewLogConfig(),
		Report:   NewReportConfig(),
	}
}

// Load returns defaults overlaid with the YAML file at path (skipped when
// path is empty) and then the environment. The result is validated.
func Load(path string) (*AppConfig, error) {
	cfg := New()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays HEAP_* variables found through lookup.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCapacity); ok {
		n, err := format.ParseSize(v)
		if err != nil {
			return errors.Wrap(err, EnvCapacity)
		}
		c.Capacity = Size(n)
	}
	if v, ok := lookup(EnvStrategy); ok {
		s, err := alloc.ParseStrategy(v)
		if err != nil {
			return errors.Wrap(err, EnvStrategy)
		}
		c.Strategy = s
	}
	if v, ok := lookup(EnvAddr); ok {
		if err := c.Server.SetAddr(v); err != nil {
			return errors.Wrap(err, EnvAddr)
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	return nil
}

// Validate reports the first setting the rest of the program cannot use.
func (c *AppConfig) Validate() error {
	if int(c.Capacity) < alloc.MinCapacity {
		return errors.Wrapf(alloc.ErrCapacityTooSmall, "capacity %d", c.Capacity)
	}
	if _, err := c.Strategy.MarshalText(); err != nil {
		return errors.WithStack(err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Report.MapWidth <= 0 || c.Report.MapSymbols <= 0 {
		return errors.Errorf("report map width and symbols must be positive, got %d and %d",
			c.Report.MapWidth, c.Report.MapSymbols)
	}
	return nil
}

// PrinterOptions maps the report settings onto printer options.
func (c *AppConfig) PrinterOptions() printer.Options {
	opts := printer.DefaultOptions()
	opts.MapWidth = c.Report.MapWidth
	opts.MapSymbols = c.Report.MapSymbols
	opts.Color = c.Report.Color
	return opts
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Host: "localhost",
		Port: 3000,
	}
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SetAddr parses host:port. An empty host keeps listening on all interfaces.
func (s *ServerConfig) SetAddr(addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.WithStack(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return errors.Errorf("invalid port %q", portStr)
	}
	s.Host, s.Port = host, port
	return nil
}

type LogConfig struct {
	Level   string `yaml:"level"`
	NoColor bool   `yaml:"no_color"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		Level: "info",
	}
}

type ReportConfig struct {
	MapWidth   int  `yaml:"map_width"`
	MapSymbols int  `yaml:"map_symbols"`
	Color      bool `yaml:"color"`
}

func NewReportConfig() *ReportConfig {
	return &ReportConfig{
		MapWidth:   printer.DefaultMapWidth,
		MapSymbols: printer.DefaultMapSymbols,
		Color:      true,
	}
}
