package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"splitplan/internal/config"
	"splitplan/internal/logging"
	"splitplan/internal/tasks"
)

type commandContext struct {
	configFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		sessionFlag: sessionFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.Discard()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.Discard()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// sessionContext resolves the external session id for this invocation from
// the --session-id flag and the environment.
func (c *commandContext) sessionContext() tasks.SessionContext {
	var explicit string
	if c.sessionFlag != nil {
		explicit = *c.sessionFlag
	}
	return tasks.ResolveSessionContext(explicit)
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
