package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	slogctx "github.com/veqryn/slog-context"

	"github.com/papapumpkin/selang/internal/clog"
	"github.com/papapumpkin/selang/internal/config"
	"github.com/papapumpkin/selang/internal/output"
	"github.com/papapumpkin/selang/internal/ui"
	"github.com/papapumpkin/selang/internal/watch"
)

// ErrWatchNeedsOverwrite is returned for --watch without --overwrite.
var ErrWatchNeedsOverwrite = errors.New("--watch requires --overwrite")

var compileCmd = &cobra.Command{
	Use:   "compile <infile>",
	Short: "Compile a system description into SpaceEngine catalogs",
	Long: "Compile every system of <infile> and write its star and planet catalogs, either into a\n" +
		"SpaceEngine installation (--se-dir) or into a test directory (--test-dir).",
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("se-dir", "o", "", "SpaceEngine installation directory")
	compileCmd.Flags().StringP("test-dir", "t", ".", "directory for .star.sc and .planet.sc files")
	compileCmd.Flags().Bool("overwrite", false, "replace existing catalogs")
	compileCmd.Flags().Bool("watch", false, "recompile whenever the input changes")
	compileCmd.MarkFlagsMutuallyExclusive("se-dir", "test-dir")

	_ = viper.BindPFlag("se_dir", compileCmd.Flags().Lookup("se-dir"))
	_ = viper.BindPFlag("test_dir", compileCmd.Flags().Lookup("test-dir"))
	_ = viper.BindPFlag("overwrite", compileCmd.Flags().Lookup("overwrite"))

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	watching, _ := cmd.Flags().GetBool("watch")
	if watching && !cfg.Overwrite {
		return ErrWatchNeedsOverwrite
	}

	ctx := cmd.Context()
	path := args[0]
	dest := destination(cmd, cfg)
	printer := ui.NewWriter(cmd.ErrOrStderr(), cfg.Color)

	if err := compileOnce(ctx, printer, path, cfg, dest); err != nil {
		if !watching {
			return err
		}
		printer.Error(err.Error())
	}
	if !watching {
		return nil
	}
	return watchAndCompile(ctx, printer, path, cfg, dest)
}

// destination picks the output target. An explicit --test-dir wins over
// an installation directory from the config file.
func destination(cmd *cobra.Command, cfg config.Config) output.Destination {
	if cfg.SEDir != "" && !cmd.Flags().Changed("test-dir") {
		return output.InstallDir(cfg.SEDir)
	}
	return output.TestDir(cfg.TestDir)
}

// compileOnce builds every system of path before writing any of them.
func compileOnce(ctx context.Context, p *ui.Printer, path string, cfg config.Config, dest output.Destination) error {
	builds, err := buildFile(ctx, path, cfg)
	if err != nil {
		return err
	}
	cats := make([]output.Catalog, len(builds))
	for i, b := range builds {
		cats[i] = output.Catalog{Stem: b.Model.FileStem(), Star: b.Star, Planet: b.Planet}
	}
	results, err := output.WriteAll(dest, cats, output.WriteOptions{Overwrite: cfg.Overwrite})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, b := range builds {
		res := results[i]
		slogctx.Info(ctx, "wrote catalogs", "system", b.Model.Name, "star", res.StarPath, "planet", res.PlanetPath)
		p.Compiled(b.Model.Name, len(b.Model.Orbits), res)
	}
	p.Summary(path, len(builds))
	return nil
}

func watchAndCompile(ctx context.Context, p *ui.Printer, path string, cfg config.Config, dest output.Destination) error {
	w, err := watch.New(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer w.Stop()
	p.Watching(path)
	log := clog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Removed {
				log.Warn("input removed", "path", change.Path)
				p.Warn(fmt.Sprintf("%s was removed; waiting for it to return", path))
				continue
			}
			log.Debug("input changed", "path", change.Path)
			p.Info(fmt.Sprintf("%s changed; recompiling", path))
			if err := compileOnce(ctx, p, path, cfg, dest); err != nil {
				p.Error(err.Error())
			}
		}
	}
}
