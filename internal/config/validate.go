package config

import (
	"fmt"
	"strings"

	"cdjready/internal/profiles"
	"cdjready/internal/services"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCheck(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCheck() error {
	if _, err := profiles.Get(c.Check.Profile); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "check.profile",
			fmt.Sprintf("unknown profile %q (available: %s)", c.Check.Profile, strings.Join(profiles.IDs(), ", ")), nil)
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.Workers < 1 || c.Convert.Workers > maxConvertWorkers {
		return services.Wrap(services.ErrConfiguration, "config", "convert.workers",
			fmt.Sprintf("must be between 1 and %d", maxConvertWorkers), nil)
	}
	if strings.ContainsAny(c.Convert.OutputSuffix, `/\`) {
		return services.Wrap(services.ErrConfiguration, "config", "convert.output_suffix",
			"must not contain path separators", nil)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "logging.format",
			fmt.Sprintf("unsupported value %q (use console or json)", c.Logging.Format), nil)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "logging.level",
			fmt.Sprintf("unsupported value %q", c.Logging.Level), nil)
	}
	return nil
}
