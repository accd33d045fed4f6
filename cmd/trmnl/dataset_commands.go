package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"trmnl/internal/dataset"
	"trmnl/internal/restore"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv]",
		Short: "Load a Title/Poem/Poet CSV into the poem dataset",
		Long: "Replaces the dataset contents with the rows of the given CSV. " +
			"Without an argument poems.csv_path from the configuration is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			csvPath := strings.TrimSpace(cfg.Poems.CSVPath)
			if len(args) == 1 {
				csvPath = args[0]
			}
			if csvPath == "" {
				return errors.New("no CSV given and poems.csv_path is not set")
			}

			store, err := dataset.Open(cfg.Paths.DatasetPath)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Import(cmd.Context(), csvPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d poems into %s\n", count, store.Path())

			authors, err := store.Authors(cmd.Context())
			if err != nil {
				return err
			}
			allowed := make(map[string]struct{}, len(cfg.Poems.Authors))
			for _, name := range cfg.Poems.Authors {
				allowed[name] = struct{}{}
			}
			tbl := newTable("Poet", "Poems").alignRight(1)
			for _, a := range authors {
				if _, ok := allowed[a.Author]; ok {
					tbl.row(a.Author, strconv.Itoa(a.Poems))
				}
			}
			if tbl.count() == 0 {
				fmt.Fprintln(out, "No poems by the configured authors were found")
				return nil
			}
			fmt.Fprintln(out, tbl)
			return nil
		},
	}
}

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List poems that pass the author and length filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := openPoemPipeline(cfg, ctx.cliLogger(cfg))
			if err != nil {
				return err
			}
			defer p.Close()

			items, err := p.selector.Candidates(cmd.Context())
			if err != nil {
				return err
			}
			shown := items
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			tbl := newTable("Title", "Poet", "Chars", "Restore").alignRight(2)
			for _, item := range shown {
				tbl.row(
					item.Title,
					item.Attribution,
					strconv.Itoa(utf8.RuneCountInString(item.Body)),
					yesNo(restore.NeedsRestoration(item.Body)),
				)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tbl)
			fmt.Fprintf(out, "%d candidates\n", len(items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many rows (0 for all)")
	return cmd
}
