package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/cognicore/onehot/internal/logging"
	"github.com/cognicore/onehot/pkg/onehot/config"
	"github.com/cognicore/onehot/pkg/onehot/internalerr"
)

type globalFlags struct {
	config    string
	envFile   string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the config file, then the env file, then applies
// environment and logging flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadEnvFile(strings.TrimSpace(c.flags.envFile)); err != nil {
			c.configErr = err
			return
		}
		cfg, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		cfg.ApplyEnv(nil)
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			cfg.Log.Level = v
		}
		if v := strings.TrimSpace(c.flags.logFormat); v != "" {
			cfg.Log.Format = v
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runConfig returns a copy of the loaded config that a command may modify.
func (c *commandContext) runConfig() (config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return config.Config{}, err
	}
	out := *cfg
	out.Normalizer.ProtectedPhrases = slices.Clone(cfg.Normalizer.ProtectedPhrases)
	return out, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// explainLoadError adds a hint to the fatal input failures: a missing file
// and text that does not decode in the configured encoding.
func explainLoadError(what, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s file %s not found: %w", what, path, err)
	case errors.Is(err, internalerr.ErrDecode):
		return fmt.Errorf("%s file %s could not be decoded (try --encoding): %w", what, path, err)
	default:
		return err
	}
}
