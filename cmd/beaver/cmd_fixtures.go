package main

import (
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/generator"
	"smartbeaver/internal/loader"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixturesDir string

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [standard...]",
	Short: "Regenerate the extension test fixtures of a contracts directory",
	Long: `Merges the fixture matrix of each standard (default: all) and writes the
results to {standard}/extensions/tests/{name}/src inside the contracts
directory, next to copies of the standard's static files.`,
	RunE: runFixtures,
}

func init() {
	fixturesCmd.Flags().StringVar(&fixturesDir, "contracts", "", "Contracts directory (default from config)")
}

func runFixtures(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	stds := contract.Standards
	if len(args) > 0 {
		stds = nil
		for _, a := range args {
			std, err := contract.ParseStandard(a)
			if err != nil {
				return err
			}
			stds = append(stds, std)
		}
	}

	root := fixturesDir
	if root == "" {
		root = cfg.Source.Dir
	}
	// Fixtures are read from and written to the same tree, so no cache.
	g := newGenerator(loader.NewDirSource(root))

	total := 0
	for _, std := range stds {
		written, err := g.Fixtures(ctx, root, std, generator.DefaultPlans(std))
		if err != nil {
			return err
		}
		total += len(written)
		logger.Info("fixtures generated", zap.Stringer("standard", std), zap.Int("files", len(written)))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files below %s\n", total, root)
	return nil
}
