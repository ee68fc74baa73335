package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartbeaver/internal/config"
	"smartbeaver/internal/generator"
	"smartbeaver/internal/loader"
	"smartbeaver/internal/logging"
	"smartbeaver/internal/merge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "beaver",
	Short: "Smart Beaver - ink! contract generator",
	Long: `beaver assembles ink! smart contracts from a base PSP22 or PSP34 contract
and a set of extension fragments (mintable, burnable, ownable, ...).

Base contracts live at {standard}/lib.rs and extensions at
{standard}/extensions/{name}.trs, either in a local contracts directory or
below a base URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Initialize(cfg.Logging.Logging()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Get(logging.CategoryBoot)
		logger.Debug("config loaded", zap.String("path", configPath), zap.Bool("remote", cfg.IsRemote()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "beaver.yaml", "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(extensionsCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext applies the global timeout and cancels on SIGINT/SIGTERM.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// newSource builds the configured contract source, cached when enabled.
func newSource(c *config.Config) (loader.Source, error) {
	var src loader.Source
	if c.IsRemote() {
		src = loader.NewHTTPSource(c.Source.URL, c.GetSourceTimeout())
	} else {
		src = loader.NewDirSource(c.Source.Dir)
	}
	if !c.Cache.Enabled {
		return src, nil
	}
	return loader.NewCachedSource(src, c.Cache.Size, c.GetCacheTTL())
}

func newGenerator(src loader.Source) *generator.Generator {
	m := merge.New(merge.WithLogger(logging.Get(logging.CategoryMerge)))
	return generator.New(loader.New(src), m)
}
