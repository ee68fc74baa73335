package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/generator"
	"smartbeaver/internal/loader"
	"smartbeaver/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate a contract whenever the local contract sources change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	addContractFlags(watchCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	// No global timeout: watching runs until interrupted.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := contractFromFlags(cmd)
	if err != nil {
		return err
	}
	useContractsDir()
	if cfg.IsRemote() {
		return errors.New("watch needs a local contracts directory (source.dir or --contracts)")
	}
	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	g := newGenerator(src)

	w, err := watch.New(cfg.Source.Dir, 0)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Source.Dir, err)
	}

	regenerate := func(ctx context.Context, changed []string) {
		if cached, ok := src.(*loader.CachedSource); ok {
			cached.Purge()
		}
		if err := generateInto(ctx, g, c, outputDir()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "regenerated %s (%d changed)\n", outputDir(), len(changed))
	}

	regenerate(ctx, nil)
	logger.Info("watching", zap.String("dir", cfg.Source.Dir))
	return w.Run(ctx, regenerate)
}

func generateInto(ctx context.Context, g *generator.Generator, c contract.Contract, dir string) error {
	out, err := g.Generate(ctx, c)
	if err != nil {
		return err
	}
	_, err = writeFiles(dir, out.Files)
	return err
}
