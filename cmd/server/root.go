package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/config"
	"github.com/iliyamo/late-show-api/internal/logger"
)

// commandContext loads configuration and the logger once per invocation.
type commandContext struct {
	cfgOnce sync.Once
	cfg     config.Config
	cfgErr  error

	logOnce sync.Once
	log     *zap.Logger
	logErr  error
}

func (c *commandContext) config() (config.Config, error) {
	c.cfgOnce.Do(func() {
		c.cfg, c.cfgErr = config.Load()
	})
	return c.cfg, c.cfgErr
}

// logger builds the process logger from the LOG_* variables only, so it
// works for commands that never touch the database.
func (c *commandContext) logger() (*zap.Logger, error) {
	c.logOnce.Do(func() {
		config.LoadEnvFile()
		c.log, c.logErr = logger.New(config.LoadLogConfig())
		if c.logErr != nil {
			c.logErr = fmt.Errorf("build logger: %w", c.logErr)
		}
	})
	return c.log, c.logErr
}

func (c *commandContext) sync() {
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func newRootCommand() *cobra.Command {
	cc := &commandContext{}
	serve := newServeCommand(cc)

	rootCmd := &cobra.Command{
		Use:           "late-show",
		Short:         "Late Show API server",
		Long:          "Late Show API server. Without a subcommand it runs serve.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
		PersistentPostRun: func(*cobra.Command, []string) {
			cc.sync()
		},
	}

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMigrateCommand(cc))
	rootCmd.AddCommand(newSeedCommand(cc))
	rootCmd.AddCommand(newConsumeCommand(cc))
	return rootCmd
}
