package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/merge"
	"smartbeaver/internal/rustsrc"

	"go.uber.org/zap"
)

// Plan is one fixture contract: the base merged with Extensions, written
// under tests/{Name}.
type Plan struct {
	Name       string
	Extensions []contract.ExtensionKind
}

// DefaultPlans returns the fixture matrix checked into the contracts
// repository for std. Extensions that need an owner bring ownable along.
func DefaultPlans(std contract.Standard) []Plan {
	plan := func(name contract.ExtensionKind, exts ...contract.ExtensionKind) Plan {
		return Plan{Name: name.String(), Extensions: exts}
	}
	switch std {
	case contract.PSP34:
		return []Plan{
			plan(contract.Burnable, contract.Burnable, contract.Ownable, contract.Mintable),
			plan(contract.Mintable, contract.Mintable, contract.Ownable),
			plan(contract.Metadata, contract.Metadata, contract.Mintable, contract.Ownable),
			plan(contract.Enumerable, contract.Enumerable, contract.Mintable, contract.Ownable),
		}
	default:
		return []Plan{
			plan(contract.Burnable, contract.Burnable, contract.Ownable),
			plan(contract.Mintable, contract.Mintable, contract.Ownable),
			plan(contract.Pausable, contract.Mintable, contract.Pausable, contract.Ownable),
			plan(contract.Capped, contract.Mintable, contract.Capped, contract.Ownable),
			plan(contract.Wrapper, contract.Wrapper),
		}
	}
}

// fixtureStatics are copied next to every fixture lib.rs.
func fixtureStatics(std contract.Standard) []string {
	names := []string{"data.rs", "errors.rs", "traits.rs"}
	if std == contract.PSP34 {
		names = append([]string{"test_utils.rs", "unit_tests.rs"}, names...)
	}
	return names
}

// FixtureDir is the source directory of a fixture below the contracts root.
func FixtureDir(root string, std contract.Standard, name string) string {
	return filepath.Join(root, std.String(), "extensions", "tests", name, "src")
}

// Fixtures merges every plan and writes the result below root, one crate
// source directory per plan, with the standard's static files copied
// verbatim. It returns the written paths.
func (g *Generator) Fixtures(ctx context.Context, root string, std contract.Standard, plans []Plan) ([]string, error) {
	var written []string
	for _, p := range plans {
		names := make([]string, len(p.Extensions))
		for i, k := range p.Extensions {
			names[i] = k.String()
		}
		g.log.Info("generating fixture", zap.Stringer("standard", std), zap.String("name", p.Name))

		bundle, err := g.loader.Load(ctx, std, names)
		if err != nil {
			return written, fmt.Errorf("fixture %s: %w", p.Name, err)
		}
		res, err := g.merger.Merge(bundle.Base, bundle.Extensions, merge.Options{Standard: std})
		if err != nil {
			return written, fmt.Errorf("fixture %s: %w", p.Name, err)
		}

		dir := FixtureDir(root, std, p.Name)
		path, err := writeFile(dir, "lib.rs", rustsrc.Render(res.Module))
		if err != nil {
			return written, err
		}
		written = append(written, path)
		for _, name := range fixtureStatics(std) {
			text, err := g.loader.Static(ctx, std, name)
			if err != nil {
				return written, fmt.Errorf("fixture %s: %w", p.Name, err)
			}
			if path, err = writeFile(dir, name, text); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
