package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trmnl/internal/daemon"
	"trmnl/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the device API in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := openPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			slot, err := p.carousel(logger)
			if err != nil {
				return err
			}
			d, err := daemon.New(cfg, slot, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), logo)
			if err := d.Run(signalCtx); err != nil {
				return err
			}
			logger.Info("trmnl daemon shutting down")
			return nil
		},
	}
}

const logo = `
 _                        _
| |_ _ __ _ __ ___  _ __ | |
| __| '__| '_ ` + "`" + ` _ \| '_ \| |
| |_| |  | | | | | | | | | |
 \__|_|  |_| |_| |_|_| |_|_|

`
