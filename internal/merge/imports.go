package merge

import (
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/syntax"

	"go.uber.org/zap"
)

// Leaves returns the names a use tree brings into scope. `a::b::C` brings C,
// `a::{B, C}` brings B and C, and `a::b::{self}` brings b. Aliases and globs
// cannot be compared structurally and yield ErrUnsupportedImport.
func Leaves(t syntax.UseTree) ([]string, error) {
	return leaves(t, "", true)
}

// baseLeaves is Leaves for imports already in the base: an alias brings its
// alias and a glob brings nothing.
func baseLeaves(t syntax.UseTree) []string {
	out, _ := leaves(t, "", false)
	return out
}

func leaves(t syntax.UseTree, parent string, strict bool) ([]string, error) {
	switch t := t.(type) {
	case *syntax.UsePath:
		return leaves(t.Next, t.Name, strict)
	case *syntax.UseName:
		if t.Name == "self" && parent != "" {
			return []string{parent}, nil
		}
		return []string{t.Name}, nil
	case *syntax.UseRename:
		if strict {
			return nil, fmt.Errorf("%w: alias %s", ErrUnsupportedImport, t)
		}
		return []string{t.Alias}, nil
	case *syntax.UseGlob:
		if strict {
			return nil, fmt.Errorf("%w: glob import", ErrUnsupportedImport)
		}
		return nil, nil
	case *syntax.UseGroup:
		var out []string
		for _, it := range t.Items {
			l, err := leaves(it, parent, strict)
			if err != nil {
				return nil, err
			}
			out = append(out, l...)
		}
		return out, nil
	}
	return nil, nil
}

// mergeImports adds every extension import whose leaves do not overlap the
// base imports. New imports go to the front of the base declarations in
// their original relative order.
func (p *pass) mergeImports(base, ext *syntax.ModDecl) error {
	known := make(map[string]bool)
	for _, i := range syntax.Imports(base.Decls) {
		for _, name := range baseLeaves(base.Decls[i].(*syntax.Import).Tree) {
			known[name] = true
		}
	}

	var added []syntax.Decl
	for _, i := range syntax.Imports(ext.Decls) {
		imp := ext.Decls[i].(*syntax.Import)
		names, err := Leaves(imp.Tree)
		if err != nil {
			return p.fail(err, fmt.Sprintf("use %s", imp.Tree))
		}
		if overlaps(known, names) {
			p.log.Debug("duplicate import skipped", zap.Stringer("use", imp.Tree))
			continue
		}
		for _, name := range names {
			known[name] = true
		}
		added = append(added, syntax.CloneDecl(imp))
		p.log.Debug("import added", zap.Stringer("use", imp.Tree))
	}
	if len(added) > 0 {
		base.Decls = append(added, base.Decls...)
	}
	return nil
}

func overlaps(known map[string]bool, names []string) bool {
	for _, n := range names {
		if known[n] {
			return true
		}
	}
	return false
}

// keepMainOnly drops every top-level declaration except the main module.
// Single-file PSP22 output imports the library from its crate, so the local
// `mod` and `use` items are dead.
func keepMainOnly(m *syntax.Module, std contract.Standard) {
	if std != contract.PSP22 {
		return
	}
	kept := m.Decls[:0]
	for _, d := range m.Decls {
		if mod, ok := d.(*syntax.ModDecl); ok && syntax.HasAttr(mod.Attrs, contractAttr) {
			kept = append(kept, d)
		}
	}
	m.Decls = kept
}

// rewriteCrateImports points `use crate::...` paths of the main module at
// the standard's external crate.
func rewriteCrateImports(main *syntax.ModDecl, std contract.Standard) int {
	if std != contract.PSP22 {
		return 0
	}
	name := std.ExternalCrate().ImportName()
	n := 0
	for _, i := range syntax.Imports(main.Decls) {
		if path, ok := main.Decls[i].(*syntax.Import).Tree.(*syntax.UsePath); ok && path.Name == "crate" {
			path.Name = name
			n++
		}
	}
	return n
}
