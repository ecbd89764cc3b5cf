package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cdjready/internal/config"
	"cdjready/internal/deps"
	"cdjready/internal/logging"
	"cdjready/internal/profiles"
	"cdjready/internal/services"
)

type globalFlags struct {
	config   string
	profile  string
	logLevel string
}

type commandContext struct {
	flags *globalFlags
	runID string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags: flags,
		runID: uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if id := strings.TrimSpace(c.flags.profile); id != "" {
			cfg.Check.Profile = strings.ToLower(id)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger.With(logging.String(logging.FieldCorrelationID, c.runID))
	})
	return c.logger, c.loggerErr
}

// runContext stamps the run id on the command context.
func (c *commandContext) runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRequestID(ctx, c.runID)
}

func (c *commandContext) profile() (profiles.DeviceProfile, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return profiles.DeviceProfile{}, err
	}
	return profiles.Get(cfg.Check.Profile)
}

// resolveTools locates ffmpeg and ffprobe and pins their paths on the config.
// Either one missing is fatal.
func (c *commandContext) resolveTools(ctx context.Context) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ffmpeg, err := deps.ResolveBinary(ctx, cfg.FFmpegBinary(), config.EnvFFmpegPath, cfg.Binaries.BinDir)
	if err != nil {
		return missingToolError("ffmpeg", err)
	}
	ffprobe, err := deps.ResolveBinary(ctx, cfg.FFprobeBinary(), config.EnvFFprobePath, cfg.Binaries.BinDir)
	if err != nil {
		return missingToolError("ffprobe", err)
	}
	cfg.Binaries.FFmpeg = ffmpeg.Path
	cfg.Binaries.FFprobe = ffprobe.Path
	return nil
}

func missingToolError(name string, err error) error {
	return fmt.Errorf("%s is required: %w\n%s", name, err, deps.InstallHint)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
