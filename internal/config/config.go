// Package config defines the settings file for the xon command-line tool.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/isaacmuliro/Xerxis-Object-Notation"
	"github.com/isaacmuliro/Xerxis-Object-Notation/ast"
	"github.com/isaacmuliro/Xerxis-Object-Notation/decode"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the xon tool.
type Config struct {
	Parse  ParseConfig  `yaml:"parse" xon:"parse"`
	Format FormatConfig `yaml:"format" xon:"format"`
	JSON   JSONConfig   `yaml:"json" xon:"json"`
	Dev    DevConfig    `yaml:"dev" xon:"dev"`
}

// ParseConfig controls how input documents are read.
type ParseConfig struct {
	TrailingCommas bool `yaml:"trailing_commas" xon:"trailing_commas"`
	MaxDepth       int  `yaml:"max_depth" xon:"max_depth"` // 0 means no limit
}

// FormatConfig controls XON output from the fmt command.
type FormatConfig struct {
	Indent       int `yaml:"indent" xon:"indent"`
	MaxLineItems int `yaml:"max_line_items" xon:"max_line_items"`
}

// JSONConfig controls the json command.
type JSONConfig struct {
	Pretty bool `yaml:"pretty" xon:"pretty"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug    bool   `yaml:"debug" xon:"debug"`
	LogLevel string `yaml:"log_level" xon:"log_level"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			TrailingCommas: true,
			MaxDepth:       xon.DefaultMaxDepth,
		},
		Format: FormatConfig{
			Indent:       2,
			MaxLineItems: 3,
		},
		JSON: JSONConfig{
			Pretty: true,
		},
		Dev: DevConfig{
			LogLevel: "warn",
		},
	}
}

// LoadConfig loads configuration from a file, starting from the defaults.
// Files whose names end in ".xon" are read as XON; all others as YAML.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	if strings.EqualFold(filepath.Ext(path), ".xon") {
		v, err := ast.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := decode.Into(v, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// configNames are the file names FindConfigFile looks for, in order.
var configNames = []string{".xon.yml", ".xon.yaml", "xon.yml", "xon.yaml", ".xonrc.xon"}

// FindConfigFile searches for a config file in dir and its parents, and
// returns its path, or "" if none is found.
func FindConfigFile(dir string) string {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range configNames {
			path := filepath.Join(cur, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}

// Validate reports an error if c has out-of-range settings.
func (c *Config) Validate() error {
	if c.Parse.MaxDepth < 0 {
		return fmt.Errorf("parse.max_depth must be non-negative, got %d", c.Parse.MaxDepth)
	}
	if c.Format.Indent < 0 || c.Format.Indent > 16 {
		return fmt.Errorf("format.indent must be between 0 and 16, got %d", c.Format.Indent)
	}
	if c.Format.MaxLineItems < 0 {
		return fmt.Errorf("format.max_line_items must be non-negative, got %d", c.Format.MaxLineItems)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the logging level selected by c. Debug mode overrides the
// configured level.
func (c *Config) LogLevel() (slog.Level, error) {
	if c.Dev.Debug {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if c.Dev.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Dev.LogLevel)); err != nil {
		return 0, fmt.Errorf("dev.log_level: %w", err)
	}
	return lvl, nil
}

// Formatter returns an ast.Formatter with the settings from c. The formatter
// accepts any document the parser does, so a max_depth of zero (no limit)
// leaves the formatter unbounded too.
func (c *Config) Formatter() ast.Formatter {
	depth := c.Parse.MaxDepth
	if depth == 0 {
		depth = -1
	}
	return ast.Formatter{
		Indent:       c.Format.Indent,
		MaxLineItems: c.Format.MaxLineItems,
		MaxDepth:     depth,
	}
}
