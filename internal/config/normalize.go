package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBinaries(); err != nil {
		return err
	}
	c.normalizeCheck()
	c.normalizeProbe()
	if err := c.normalizeConvert(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeBinaries() error {
	var err error
	c.Binaries.FFmpeg = strings.TrimSpace(c.Binaries.FFmpeg)
	c.Binaries.FFprobe = strings.TrimSpace(c.Binaries.FFprobe)
	if c.Binaries.BinDir, err = expandPath(strings.TrimSpace(c.Binaries.BinDir)); err != nil {
		return fmt.Errorf("binaries.bin_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCheck() {
	if value, ok := os.LookupEnv(EnvProfile); ok && strings.TrimSpace(value) != "" {
		c.Check.Profile = value
	}
	c.Check.Profile = strings.ToLower(strings.TrimSpace(c.Check.Profile))
	if c.Check.Profile == "" {
		c.Check.Profile = defaultProfile
	}
}

func (c *Config) normalizeProbe() {
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeoutSeconds
	}
}

func (c *Config) normalizeConvert() error {
	c.Convert.Workers = ClampWorkers(c.Convert.Workers)
	if c.Convert.TimeoutSeconds <= 0 {
		c.Convert.TimeoutSeconds = defaultConvertTimeout
	}
	if strings.TrimSpace(c.Convert.OutputSuffix) == "" {
		c.Convert.OutputSuffix = defaultOutputSuffix
	}
	var err error
	if c.Convert.OutputDir, err = expandPath(strings.TrimSpace(c.Convert.OutputDir)); err != nil {
		return fmt.Errorf("convert.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
