package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/maruel/tableview/internal/loader"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that can come from a YAML file, the .env file or
// flags, in increasing priority.
type Config struct {
	File          string        `yaml:"file"`
	Format        string        `yaml:"format"`
	Out           string        `yaml:"out"`
	LogLevel      string        `yaml:"log_level"`
	Watch         bool          `yaml:"watch"`
	WatchInterval time.Duration `yaml:"watch_interval"`
	ReadOnly      bool          `yaml:"read_only"`
}

func defaultConfig() *Config {
	return &Config{LogLevel: "info", WatchInterval: 200 * time.Millisecond}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the -config flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config and fills the format from the file extension.
func (c *Config) Validate() error {
	if c.File == "" {
		return errors.New("a records file is required")
	}
	if c.Format == "" {
		f, err := loader.FormatFromPath(c.File)
		if err != nil {
			return err
		}
		c.Format = string(f)
	} else if _, err := loader.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Out != "" {
		if _, err := loader.FormatFromPath(c.Out); err != nil {
			return fmt.Errorf("-out: %w", err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.WatchInterval < 0 {
		return fmt.Errorf("invalid watch interval %s", c.WatchInterval)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
