package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/waabox/ingestwatch/internal/config"
	"github.com/waabox/ingestwatch/internal/logging"
)

// commandContext loads the configuration once and shares it between commands.
type commandContext struct {
	configFlag *string
	cfg        *config.Config
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		if p := strings.TrimSpace(*c.configFlag); p != "" {
			return p
		}
	}
	return config.DefaultConfigPath()
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadFrom(c.configPath())
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", c.configPath(), err)
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// newLogger builds the command logger. When the terminal is owned by the
// interactive view, output goes to log.file or nowhere.
func (c *commandContext) newLogger(stderr io.Writer, interactive bool) (*slog.Logger, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	w := stderr
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	} else if interactive {
		w = io.Discard
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: w})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}
