package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/diff"
	"smartbeaver/internal/generator"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	genStandard   string
	genExtensions []string
	genFiles      []string
	genSingleFile bool
	genLicense    string
	genName       string
	genSymbol     string
	genURI        string
	genDecimals   uint8
	genOut        string
	genDiff       bool
	genJSON       bool
	genContracts  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a contract from a base and extensions",
	Long: `Merges the requested extensions into the standard's base contract and
writes lib.rs together with the selected static files.

Example:
  beaver generate -s PSP22 -e security/ownable,mintable,burnable --name Beaver --symbol BVR`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addContractFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVar(&genDiff, "diff", false, "Print a unified diff of the base contract against lib.rs")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the response as JSON instead of writing files")
}

// addContractFlags binds the flags describing a contract request.
func addContractFlags(f *pflag.FlagSet) {
	f.StringVarP(&genStandard, "standard", "s", "PSP22", "Token standard (PSP22, PSP34)")
	f.StringSliceVarP(&genExtensions, "extensions", "e", nil, "Extensions to merge, in order")
	f.StringSliceVar(&genFiles, "files", nil, "Files to emit (default: all)")
	f.BoolVar(&genSingleFile, "single-file", false, "Emit lib.rs and Cargo.toml only, using the standard's external crate")
	f.StringVar(&genLicense, "license", "", "License for Cargo.toml (default from config)")
	f.StringVar(&genName, "name", "", "Token name")
	f.StringVar(&genSymbol, "symbol", "", "Token symbol")
	f.StringVar(&genURI, "uri", "", "Token URI")
	f.Uint8Var(&genDecimals, "decimals", 0, "Token decimals")
	f.StringVarP(&genOut, "out", "o", "", "Output directory (default from config)")
	f.StringVar(&genContracts, "contracts", "", "Local contracts directory, overrides the configured source")
}

// contractFromFlags assembles the request from the generate flags.
func contractFromFlags(cmd *cobra.Command) (contract.Contract, error) {
	std, err := contract.ParseStandard(genStandard)
	if err != nil {
		return contract.Contract{}, err
	}
	c := contract.Contract{
		Standard:   std,
		Extensions: genExtensions,
		License:    cfg.License,
		SingleFile: genSingleFile,
	}
	if genLicense != "" {
		c.License = genLicense
	}
	for _, name := range genFiles {
		f, err := contract.ParseOutputFile(name)
		if err != nil {
			return contract.Contract{}, err
		}
		c.Files = append(c.Files, f)
	}

	flags := cmd.Flags()
	md := &contract.TokenMetadata{}
	if flags.Changed("name") {
		md.Name = &genName
	}
	if flags.Changed("symbol") {
		md.Symbol = &genSymbol
	}
	if flags.Changed("uri") {
		md.URI = &genURI
	}
	if flags.Changed("decimals") {
		md.Decimals = &genDecimals
	}
	if *md != (contract.TokenMetadata{}) {
		c.Metadata = md
	}
	return c, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	c, err := contractFromFlags(cmd)
	if err != nil {
		return err
	}
	useContractsDir()
	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	g := newGenerator(src)

	if genJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(g.Run(ctx, c))
	}

	out, err := g.Generate(ctx, c)
	if err != nil {
		return err
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
	}
	if genDiff {
		lib, _ := out.File(contract.MainFile.String())
		fmt.Fprint(cmd.OutOrStdout(), diff.NewEngine(3).Unified("base/lib.rs", "lib.rs", out.Base, lib.Content))
	}

	paths, err := writeFiles(outputDir(), out.Files)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", p)
	}
	logger.Info("contract generated",
		zap.String("run", out.ID),
		zap.Stringer("standard", c.Standard),
		zap.Strings("extensions", c.Extensions),
		zap.Int("diagnostics", len(out.Diagnostics)))
	return nil
}

// useContractsDir points the config at --contracts when given.
func useContractsDir() {
	if genContracts != "" {
		cfg.Source.URL = ""
		cfg.Source.Dir = genContracts
	}
}

func outputDir() string {
	if genOut != "" {
		return genOut
	}
	return cfg.Output.Dir
}

// writeFiles writes generated files below dir. Cargo.toml sits at the crate
// root and sources under src/.
func writeFiles(dir string, files []generator.File) ([]string, error) {
	var paths []string
	for _, f := range files {
		target := filepath.Join(dir, "src", f.Name)
		if f.Name == contract.CargoFile.String() {
			target = filepath.Join(dir, f.Name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", target, err)
		}
		paths = append(paths, target)
	}
	return paths, nil
}
