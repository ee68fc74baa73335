// Package merge folds extension fragments into a base ink! contract.
//
// Merging is structural: extension imports are deduplicated by the names
// they introduce, extension storage fields are appended to the base storage
// and threaded through its constructors, and extension impl blocks are merged
// method by method according to the `smart_beaver::append` and
// `smart_beaver::replace` directives. Fatal problems abort the call with a
// *Error; everything else is reported as a Diagnostic.
package merge

import (
	"errors"
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/syntax"

	"go.uber.org/zap"
)

// Extension is one parsed extension fragment.
type Extension struct {
	Kind   contract.ExtensionKind
	Module *syntax.Module
}

// Options control one merge call.
type Options struct {
	Standard contract.Standard
	Metadata *contract.TokenMetadata
	// SingleFile rewrites the output to import the standard's library from
	// its external crate instead of local modules.
	SingleFile bool
}

// Result is the merged module and every non-fatal event of the call.
type Result struct {
	Module      *syntax.Module
	Diagnostics []Diagnostic
}

// Merger merges extensions into base contracts. It holds no per-call state
// and is safe for concurrent use.
type Merger struct {
	log *zap.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger for merge events. The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a Merger.
func New(opts ...Option) *Merger {
	m := &Merger{log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge folds exts into a copy of base, in order. base and the extension
// modules are not modified. On error no partial result is returned.
func (m *Merger) Merge(base *syntax.Module, exts []Extension, opts Options) (*Result, error) {
	p := &pass{log: m.log}
	out := base.Clone()

	if opts.SingleFile {
		keepMainOnly(out, opts.Standard)
	}

	main, err := syntax.MainDecl(out, contractAttr)
	if err != nil {
		return nil, p.fail(err, "no module marked #[ink::contract]")
	}

	for _, ext := range exts {
		p.ext = ext.Kind.String()
		p.log = m.log.With(zap.String("extension", p.ext))

		extMain, err := syntax.MainDecl(ext.Module, extensionAttr)
		if err != nil {
			return nil, p.fail(err, "no module marked #[smart_beaver::extension]")
		}
		if err := p.mergeImports(main, extMain); err != nil {
			return nil, err
		}
		p.mergeState(main, extMain, ext.Kind, opts)
		p.mergeImplSet(main, extMain)
	}
	p.ext = ""
	p.log = m.log

	if opts.SingleFile {
		if n := rewriteCrateImports(main, opts.Standard); n > 0 {
			p.log.Debug("rewrote crate imports", zap.Int("count", n),
				zap.String("crate", opts.Standard.ExternalCrate().Name))
		}
	}

	m.log.Debug("merge done",
		zap.Stringer("standard", opts.Standard),
		zap.Int("extensions", len(exts)),
		zap.Int("diagnostics", len(p.diags)))
	return &Result{Module: out, Diagnostics: p.diags}, nil
}

// pass is the state of one Merge call.
type pass struct {
	log   *zap.Logger
	ext   string
	diags []Diagnostic
}

func (p *pass) diag(kind error, msg string) {
	p.diags = append(p.diags, Diagnostic{Kind: kind, Extension: p.ext, Message: msg})
	p.log.Warn(msg, zap.Error(kind))
}

func (p *pass) notice(msg string) {
	p.diags = append(p.diags, Diagnostic{Extension: p.ext, Message: msg})
	p.log.Debug(msg)
}

// fail builds the fatal error for err, keeping the most specific sentinel.
func (p *pass) fail(err error, detail string) error {
	kind := err
	for _, sentinel := range []error{ErrUnsupportedImport, ErrNotFound} {
		if errors.Is(err, sentinel) {
			kind = sentinel
			break
		}
	}
	if kind != err {
		detail = fmt.Sprintf("%s (%v)", detail, err)
	}
	e := &Error{Kind: kind, Extension: p.ext, Detail: detail}
	p.log.Error("merge failed", zap.Error(e))
	return e
}
