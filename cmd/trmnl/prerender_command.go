package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"trmnl/internal/logging"
)

func newPrerenderCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "prerender",
		Short: "Classify and render every candidate poem into the content cache",
		Long: "Walks the filtered poem set and fills the content cache so later " +
			"display requests are served without rendering. Items already cached " +
			"are skipped; a failed item is reported and the walk continues.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.cliLogger(cfg)
			p, err := openPoemPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			items, err := p.selector.Candidates(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			var rendered, cached, failed int
			tbl := newTable("Title", "Poet", "Result", "Detail")
			for _, item := range items {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				img, hit, err := p.text.Produce(cmd.Context(), item)
				switch {
				case err != nil:
					failed++
					logger.Warn("prerender failed",
						logging.String("title", item.Title),
						logging.Error(err),
					)
					tbl.row(item.Title, item.Attribution, "failed", err.Error())
				case hit:
					cached++
					tbl.row(item.Title, item.Attribution, "cached", filepath.Base(img.Path))
				default:
					rendered++
					tbl.row(item.Title, item.Attribution, "rendered", filepath.Base(img.Path))
				}
			}

			out := cmd.OutOrStdout()
			if tbl.count() > 0 {
				fmt.Fprintln(out, tbl)
			}
			fmt.Fprintf(out, "%d rendered, %d cached, %d failed\n", rendered, cached, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d poems failed to render", failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Render at most this many poems (0 for all)")
	return cmd
}
