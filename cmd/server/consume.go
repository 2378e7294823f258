package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/config"
	"github.com/iliyamo/late-show-api/internal/queue"
)

func newConsumeCommand(cc *commandContext) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:          "consume",
		Short:        "Append every published event to a log file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := cc.logger()
			if err != nil {
				return err
			}
			w, closeOut, err := openEventLog(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeOut()

			amqpCfg := config.LoadAMQPConfig()
			c := &queue.Consumer{URL: amqpCfg.URL, Queue: amqpCfg.Queue, Out: w, Log: log}
			log.Info("consuming events", zap.String("queue", amqpCfg.Queue), zap.String("out", out))
			if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", filepath.Join("logs", "events.log"), `Event log file ("-" for stdout)`)
	return cmd
}

// openEventLog opens path for appending, creating its directory. "-" means
// stdout.
func openEventLog(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "-" {
		return stdout, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
