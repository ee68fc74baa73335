// Package generator turns a contract request into the files of a ready to
// build ink! project: the merged lib.rs plus the standard's static files.
package generator

import (
	"context"
	"errors"
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/loader"
	"smartbeaver/internal/logging"
	"smartbeaver/internal/manifest"
	"smartbeaver/internal/merge"
	"smartbeaver/internal/rustsrc"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStaticContent is returned when a static file is missing or empty.
var ErrStaticContent = errors.New("static content could not be downloaded")

// File is one generated file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Output is the result of a successful generation.
type Output struct {
	ID    string
	Files []File
	// Base is the rendered base contract, for diffing against lib.rs.
	Base        string
	Diagnostics []merge.Diagnostic
}

// File returns the generated file with the given name.
func (o *Output) File(name string) (File, bool) {
	for _, f := range o.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// Response is the flattened outcome of Run. Result is false only when the
// contract itself could not be produced; a static file failure keeps Result
// true, reports the failure in Message and returns no files.
type Response struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Files   []File `json:"files"`
}

// Generator runs the load, merge and render pipeline.
type Generator struct {
	loader *loader.Loader
	merger *merge.Merger
	log    *zap.Logger
}

// New returns a Generator.
func New(l *loader.Loader, m *merge.Merger) *Generator {
	return &Generator{loader: l, merger: m, log: logging.Get(logging.CategoryGenerate)}
}

// Run generates c and folds any failure into the Response.
func (g *Generator) Run(ctx context.Context, c contract.Contract) *Response {
	out, err := g.Generate(ctx, c)
	switch {
	case err == nil:
		return &Response{Result: true, Files: out.Files}
	case errors.Is(err, ErrStaticContent):
		return &Response{Result: true, Message: err.Error(), Files: []File{}}
	default:
		return &Response{Result: false, Message: err.Error(), Files: []File{}}
	}
}

// Generate loads the base contract and the requested extensions, merges
// them and attaches the selected static files. Single-file contracts only
// carry lib.rs and Cargo.toml.
func (g *Generator) Generate(ctx context.Context, c contract.Contract) (*Output, error) {
	id := uuid.New().String()
	log := g.log.With(zap.String("run", id), zap.Stringer("standard", c.Standard))
	timer := logging.StartTimer(logging.CategoryGenerate, "generate")

	bundle, err := g.loader.Load(ctx, c.Standard, c.Extensions)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}
	res, err := g.merger.Merge(bundle.Base, bundle.Extensions, merge.Options{
		Standard:   c.Standard,
		Metadata:   c.Metadata,
		SingleFile: c.SingleFile,
	})
	if err != nil {
		log.Error("merge failed", zap.Error(err))
		return nil, err
	}

	files := c.SelectedFiles()
	if c.SingleFile {
		files = []contract.OutputFile{contract.MainFile, contract.CargoFile}
	}
	content, err := g.withStatic(ctx, c, rustsrc.Render(res.Module), files)
	if err != nil {
		log.Warn("static content failed", zap.Error(err))
		return nil, err
	}

	timer.Stop(zap.String("run", id), zap.Int("files", len(content)), zap.Int("diagnostics", len(res.Diagnostics)))
	return &Output{
		ID:          id,
		Files:       content,
		Base:        rustsrc.Render(bundle.Base),
		Diagnostics: res.Diagnostics,
	}, nil
}

// withStatic builds the files in order, fetching the static ones
// concurrently.
func (g *Generator) withStatic(ctx context.Context, c contract.Contract, main string, files []contract.OutputFile) ([]File, error) {
	out := make([]File, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		out[i].Name = f.String()
		if f == contract.MainFile {
			out[i].Content = main
			continue
		}
		i, f := i, f
		eg.Go(func() error {
			text, err := g.loader.Static(ctx, c.Standard, f.String())
			if err != nil || text == "" {
				g.log.Debug("static fetch failed", zap.Stringer("file", f), zap.Error(err))
				return fmt.Errorf("%w: %s", ErrStaticContent, f)
			}
			if f == contract.CargoFile {
				text, err = manifest.Update(text, c.License, c.Standard.ExternalCrate())
				if err != nil {
					return fmt.Errorf("%w: %s: %v", ErrStaticContent, f, err)
				}
			} else {
				text = rustsrc.StripLineComments(text)
			}
			out[i].Content = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
