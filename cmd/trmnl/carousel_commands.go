package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trmnl/internal/carousel"
	"trmnl/internal/config"
)

func newCurrentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the image currently in the working slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.cliLogger(cfg)
			// Reading the slot never touches the engine.
			slot, err := carousel.New(cfg.Paths.WorkingDir, nil, logger)
			if err != nil {
				return err
			}
			image, err := slot.Current(cmd.Context())
			if err != nil {
				return err
			}
			printImage(cmd.OutOrStdout(), cfg, image)
			return nil
		},
	}
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Advance the carousel once and show the promoted image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.cliLogger(cfg)
			p, err := openPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()
			slot, err := p.carousel(logger)
			if err != nil {
				return err
			}
			image, err := slot.Advance(cmd.Context())
			if err != nil {
				return err
			}
			printImage(cmd.OutOrStdout(), cfg, image)
			return nil
		},
	}
}

func printImage(out io.Writer, cfg *config.Config, image carousel.Image) {
	fmt.Fprintf(out, "Path: %s\n", image.Path)
	fmt.Fprintf(out, "Name: %s\n", image.Name)
	fmt.Fprintf(out, "URL:  %s\n", image.URL(cfg.Paths.ServerURL))
}
