// Package loader fetches base contracts, extension fragments and static
// files and turns the Rust sources into syntax trees.
package loader

import (
	"context"
	"fmt"
	"path"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/logging"
	"smartbeaver/internal/merge"
	"smartbeaver/internal/rustsrc"
	"smartbeaver/internal/syntax"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	baseFileType      = ".rs"
	extensionFileType = ".trs"
)

// BasePath is the path of a standard's base contract.
func BasePath(std contract.Standard) string {
	return path.Join(std.String(), "lib"+baseFileType)
}

// ExtensionPath is the path of an extension fragment.
func ExtensionPath(std contract.Standard, kind contract.ExtensionKind) string {
	return path.Join(std.String(), "extensions", kind.String()+extensionFileType)
}

// StaticPath is the path of a static file of a standard.
func StaticPath(std contract.Standard, name string) string {
	return path.Join(std.String(), name)
}

// Loader resolves contract sources through a Source.
type Loader struct {
	src Source
	log *zap.Logger
}

// New returns a Loader reading from src.
func New(src Source) *Loader {
	return &Loader{src: src, log: logging.Get(logging.CategoryLoader)}
}

// Bundle is everything a merge needs.
type Bundle struct {
	Base       *syntax.Module
	Extensions []merge.Extension
}

// Load fetches and parses the base contract and the named extensions
// concurrently. Extensions keep the order of names. Unknown names fail
// before anything is fetched.
func (l *Loader) Load(ctx context.Context, std contract.Standard, names []string) (*Bundle, error) {
	kinds := make([]contract.ExtensionKind, len(names))
	for i, name := range names {
		k, err := contract.ParseExtensionKind(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}

	timer := logging.StartTimer(logging.CategoryLoader, "load")
	b := &Bundle{Extensions: make([]merge.Extension, len(kinds))}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := l.parse(gctx, BasePath(std))
		if err != nil {
			return err
		}
		b.Base = m
		return nil
	})
	for i, k := range kinds {
		i, k := i, k
		g.Go(func() error {
			m, err := l.parse(gctx, ExtensionPath(std, k))
			if err != nil {
				return fmt.Errorf("extension %s: %w", k, err)
			}
			b.Extensions[i] = merge.Extension{Kind: k, Module: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	timer.Stop(zap.Stringer("standard", std), zap.Int("extensions", len(kinds)))
	return b, nil
}

func (l *Loader) parse(ctx context.Context, p string) (*syntax.Module, error) {
	text, err := l.src.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	m, err := rustsrc.ParseCtx(ctx, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	l.log.Debug("loaded source", zap.String("path", p), zap.Int("bytes", len(text)))
	return m, nil
}

// Static fetches a static file of a standard verbatim.
func (l *Loader) Static(ctx context.Context, std contract.Standard, name string) (string, error) {
	return l.src.Fetch(ctx, StaticPath(std, name))
}
