package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trmnl/internal/render"
)

func newRenderImageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render-image <src> <dest>",
		Short: "Convert an image into a 1-bit display bitmap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			size, err := render.ConvertFile(args[0], args[1], render.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", args[1], size)
			return nil
		},
	}
}
