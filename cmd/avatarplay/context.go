package main

import (
	"log/slog"
	"strings"
	"sync"

	"avatar-retarget/internal/config"
	"avatar-retarget/internal/logging"
	"avatar-retarget/internal/skeleton"
)

type commandContext struct {
	configFlag *string
	flags      config.Flags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger   *slog.Logger
	closeLog func() error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var cfg config.Config
		if c.configFlag != nil {
			if path := strings.TrimSpace(*c.configFlag); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					c.configErr = err
					return
				}
				cfg = loaded
			}
		}
		cfg.Resolve(c.flags)
		c.config = &cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, closeFn, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	c.logger, c.closeLog = logger, closeFn
	return logger, nil
}

func (c *commandContext) close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// loadRig returns the built-in humanoid or a rig file.
func loadRig(cfg *config.Config) (*skeleton.Skeleton, error) {
	if cfg.Rig == "" || cfg.Rig == config.DefaultRig {
		prefix := cfg.RigPrefix
		if prefix == "" {
			prefix = skeleton.DefaultPrefix
		}
		return skeleton.Humanoid(prefix), nil
	}
	return skeleton.Load(cfg.Rig)
}
