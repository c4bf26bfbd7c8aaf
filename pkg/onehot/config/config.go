package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Records describes the table holding the raw phrase column.
type Records struct {
	Path        string `yaml:"path" toml:"path"`
	Encoding    string `yaml:"encoding" toml:"encoding"`
	Column      string `yaml:"column" toml:"column"`
	Delimiter   string `yaml:"delimiter" toml:"delimiter"`
	StripMarkup bool   `yaml:"strip_markup" toml:"strip_markup"`
}

// Vocabulary describes the table listing canonical phrases.
type Vocabulary struct {
	Path     string `yaml:"path" toml:"path"`
	Encoding string `yaml:"encoding" toml:"encoding"`
	Column   string `yaml:"column" toml:"column"`
}

// Output describes where and how the encoded table is written.
type Output struct {
	Path    string `yaml:"path" toml:"path"`
	Table   string `yaml:"table" toml:"table"`   // SQLite only
	Prefix  string `yaml:"prefix" toml:"prefix"` // prepended to every phrase column
	Mode    string `yaml:"mode" toml:"mode"`     // binary or count
	Preview int    `yaml:"preview" toml:"preview"`
}

// Normalizer carries the protected phrase list. A nil list means the
// built-in defaults; an explicit empty list disables masking.
type Normalizer struct {
	ProtectedPhrases []string `yaml:"protected_phrases" toml:"protected_phrases"`
	Placeholder      string   `yaml:"placeholder" toml:"placeholder"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config encapsulates every setting of an encoding run.
type Config struct {
	Records    Records    `yaml:"records" toml:"records"`
	Vocabulary Vocabulary `yaml:"vocabulary" toml:"vocabulary"`
	Output     Output     `yaml:"output" toml:"output"`
	Normalizer Normalizer `yaml:"normalizer" toml:"normalizer"`
	Log        Logging    `yaml:"log" toml:"log"`
}

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the syntax from a file extension. Anything that is
// not .toml is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads a config file on top of Default, fills gaps and validates.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			return nil, fmt.Errorf("open config: %w", err)
		}
		if err := decode(data, FormatForPath(path), &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		return toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	}
}

// Marshal renders cfg in the given syntax.
func Marshal(cfg Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}
