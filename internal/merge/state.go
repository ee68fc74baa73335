package merge

import (
	"fmt"

	"smartbeaver/internal/contract"
	"smartbeaver/internal/syntax"

	"go.uber.org/zap"
)

// mergeState moves the extension storage fields into the base storage struct
// and threads them through the base constructors.
func (p *pass) mergeState(base, ext *syntax.ModDecl, kind contract.ExtensionKind, opts Options) {
	bi := syntax.FindStructByAttr(base.Decls, storageAttr)
	ei := syntax.FindStructByAttr(ext.Decls, extStorageAttr)
	if bi < 0 || ei < 0 {
		p.diag(ErrNotFound, "no storage struct pair, state merge skipped")
		return
	}
	target := base.Decls[bi].(*syntax.StructType)
	fields := ext.Decls[ei].(*syntax.StructType).Fields

	for _, f := range fields {
		c := f.Clone()
		c.Attrs = nil
		target.Fields = append(target.Fields, c)
	}
	p.log.Debug("appended storage fields",
		zap.String("storage", target.Name),
		zap.Strings("fields", fieldNames(fields)))

	if len(fields) == 0 {
		return
	}
	found := false
	for _, i := range syntax.ImplBlocks(base.Decls) {
		b := base.Decls[i].(*syntax.ImplBlock)
		ci := b.FindMethodByAttr(constructorAttr)
		if ci < 0 {
			continue
		}
		found = true
		ctor := b.Methods[ci]
		if kind != contract.Metadata {
			p.extendParams(ctor, fields)
		}
		p.extendInit(ctor, fields, kind, opts)
	}
	if !found {
		p.diag(ErrNotFound, "no constructor in base contract")
	}
}

func (p *pass) extendParams(ctor *syntax.Method, fields []*syntax.Field) {
	for _, f := range fields {
		if _, ok := syntax.AttrPayload(f.Attrs, initAttr); ok {
			continue
		}
		ctor.Params = append(ctor.Params, syntax.Param{Name: f.Name, Type: f.Type})
		p.log.Debug("appended constructor parameter", zap.String("constructor", ctor.Name), zap.String("param", f.Name))
	}
}

func (p *pass) extendInit(ctor *syntax.Method, fields []*syntax.Field, kind contract.ExtensionKind, opts Options) {
	lit := selfLiteral(ctor)
	if lit == nil {
		p.notice(fmt.Sprintf("constructor %s has no struct literal tail, fields not initialized", ctor.Name))
		return
	}
	for _, f := range fields {
		init := syntax.FieldInit{Name: f.Name}
		if v, ok := syntax.AttrPayload(f.Attrs, initAttr); ok {
			init.Value = v
		} else if kind == contract.Metadata {
			init.Value = metadataValue(opts.Standard, f.Name, opts.Metadata)
		}
		lit.Fields = append(lit.Fields, init)
	}
}

// selfLiteral returns the struct literal of the first tail expression of
// the constructor body.
func selfLiteral(m *syntax.Method) *syntax.StructLit {
	for i := range m.Body {
		if m.Body[i].Tail {
			return m.Body[i].Lit
		}
	}
	return nil
}

func fieldNames(fields []*syntax.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
