package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file locations.
const (
	EnvRecords    = "ONEHOT_RECORDS"
	EnvVocabulary = "ONEHOT_VOCABULARY"
	EnvOutput     = "ONEHOT_OUTPUT"
)

// LoadEnvFile seeds the process environment from a dotenv file without
// overriding variables that are already set. A missing default file is not
// an error; a missing explicit file is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file paths from the environment. lookup is
// os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvRecords); ok && v != "" {
		c.Records.Path = v
	}
	if v, ok := lookup(EnvVocabulary); ok && v != "" {
		c.Vocabulary.Path = v
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output.Path = v
	}
}
