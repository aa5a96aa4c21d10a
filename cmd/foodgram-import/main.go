// Command foodgram-import loads users, subscriptions, tags, ingredients,
// recipes, favorites and shopping carts from CSV files into the Foodgram
// database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/importer"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/setup"
)

const kindAll = "all"

func newRootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "foodgram-import [users|subscriptions|tags|ingredients|recipes|favorites|shopping_cart|all]",
		Short: "Import Foodgram data from CSV files",
		Long: `Reads <kind>.csv from --dir and inserts every row. Rows that already
exist are skipped and reported, so the import can be re-run safely.

"all" imports every kind in dependency order. Recipe image paths are
relative to --dir.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: validArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), dir, kinds)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "./data", "directory containing the CSV files")
	return cmd
}

func validArgs() []string {
	args := make([]string, 0, len(importer.Kinds)+1)
	for _, kind := range importer.Kinds {
		args = append(args, string(kind))
	}
	return append(args, kindAll)
}

func parseKinds(args []string) ([]importer.Kind, error) {
	if len(args) == 0 || args[0] == kindAll {
		return importer.Kinds, nil
	}
	kind, err := importer.ParseKind(args[0])
	if err != nil {
		return nil, err
	}
	return []importer.Kind{kind}, nil
}

func run(ctx context.Context, out io.Writer, dir string, kinds []importer.Kind) error {
	conf, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	logger := log.New(&log.Options{Level: level})

	db, err := setup.Database(ctx, &conf)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}
	defer db.Close()

	var opts []importer.Option
	if slices.Contains(kinds, importer.KindRecipes) {
		store, err := setup.FileStore(ctx, &conf, logger)
		if err != nil {
			return fmt.Errorf("setting up file store: %w", err)
		}
		opts = append(opts, importer.WithImages(store, os.DirFS(dir)))
	}

	results, err := importer.New(db, logger, opts...).Dir(ctx, dir, kinds...)
	report(out, results)
	return err
}

func report(out io.Writer, results []importer.Result) {
	for _, res := range results {
		_, _ = fmt.Fprintf(out, "%s: %d created, %d skipped\n", res.Kind, res.Created, len(res.Skipped))
		for _, name := range res.Skipped {
			_, _ = fmt.Fprintf(out, "  %q already exists\n", name)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("import failed", slog.Any("error", err))
		os.Exit(1)
	}
}
