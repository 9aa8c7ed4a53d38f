// Package config defines the structures to configure the awareness engine and the means to
// read them from JSON5 files.
package config

import (
	"fmt"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/awareness/awareness/processor"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/producer/fake"
)

// A Config describes a processing pipeline: the producer feeding buffers, the processors
// consuming them and how loudly everything logs.
type Config struct {
	// ConfigFilePath is the path the config was read from, if any.
	ConfigFilePath string `json:"-"`

	Producer  fake.Config                   `json:"producer"`
	Depth     processor.Config              `json:"depth"`
	Semantic  processor.Config              `json:"semantic"`
	Debug     bool                          `json:"debug,omitempty"`
	LogConfig []logging.LoggerPatternConfig `json:"log,omitempty"`
}

// Ensure ensures all parts of the config are valid.
func (c *Config) Ensure() error {
	if _, err := c.Producer.Validate("producer"); err != nil {
		return err
	}
	if _, err := c.Depth.Validate("depth"); err != nil {
		return err
	}
	if c.Semantic.Filter == "bilinear" {
		return utils.NewConfigValidationError("semantic", errors.Errorf("semantic samples cannot be filtered %q", c.Semantic.Filter))
	}
	if _, err := c.Semantic.Validate("semantic"); err != nil {
		return err
	}
	for idx, lpc := range c.LogConfig {
		if err := lpc.Validate(fmt.Sprintf("log.%d", idx)); err != nil {
			return err
		}
	}
	return nil
}
