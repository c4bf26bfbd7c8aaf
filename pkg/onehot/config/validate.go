package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/onehot/pkg/onehot/ingest"
	"github.com/cognicore/onehot/pkg/onehot/internalerr"
	"github.com/cognicore/onehot/pkg/onehot/table"
)

// Validate ensures the configuration is usable. Errors wrap
// internalerr.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validateRecords(); err != nil {
		return err
	}
	if err := c.validateVocabulary(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.NormalizerConfig().Validate(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRecords() error {
	if strings.TrimSpace(c.Records.Path) == "" {
		return invalid("records.path must be set")
	}
	if strings.TrimSpace(c.Records.Column) == "" {
		return invalid("records.column must be set")
	}
	if _, err := table.LookupEncoding(c.Records.Encoding); err != nil {
		return invalid("records.encoding: %v", err)
	}
	if _, err := ParseDelimiter(c.Records.Delimiter); err != nil {
		return invalid("records.delimiter: %v", err)
	}
	return nil
}

func (c *Config) validateVocabulary() error {
	if strings.TrimSpace(c.Vocabulary.Path) == "" {
		return invalid("vocabulary.path must be set")
	}
	if _, err := table.LookupEncoding(c.Vocabulary.Encoding); err != nil {
		return invalid("vocabulary.encoding: %v", err)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Path) == "" {
		return invalid("output.path must be set")
	}
	if _, err := ingest.ParseMode(c.Output.Mode); err != nil {
		return invalid("output.mode: %v", err)
	}
	if c.Output.Preview < 0 {
		return invalid("output.preview must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return invalid("log.format must be console or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ParseDelimiter accepts "" (auto), "tab", "\t" or any single character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{internalerr.ErrInvalidConfig}, args...)...)
}
