package syntax

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	return &Module{
		InnerAttrs: cloneAttrs(m.InnerAttrs),
		Decls:      CloneDecls(m.Decls),
	}
}

// CloneDecls deep-copies a declaration list.
func CloneDecls(decls []Decl) []Decl {
	if decls == nil {
		return nil
	}
	out := make([]Decl, len(decls))
	for i, d := range decls {
		out[i] = d.cloneDecl()
	}
	return out
}

// CloneDecl deep-copies one declaration.
func CloneDecl(d Decl) Decl {
	return d.cloneDecl()
}

func (d *ModDecl) cloneDecl() Decl {
	return &ModDecl{
		Attrs: cloneAttrs(d.Attrs),
		Vis:   d.Vis,
		Name:  d.Name,
		Decls: CloneDecls(d.Decls),
	}
}

func (d *StructType) cloneDecl() Decl { return d.Clone() }

// Clone returns a deep copy of the struct.
func (d *StructType) Clone() *StructType {
	c := *d
	c.Attrs = cloneAttrs(d.Attrs)
	c.Fields = make([]*Field, len(d.Fields))
	for i, f := range d.Fields {
		c.Fields[i] = f.Clone()
	}
	return &c
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	c.Attrs = cloneAttrs(f.Attrs)
	return &c
}

func (d *ImplBlock) cloneDecl() Decl { return d.Clone() }

// Clone returns a deep copy of the impl block.
func (d *ImplBlock) Clone() *ImplBlock {
	c := d.CloneEmpty()
	c.Members = append([]string(nil), d.Members...)
	c.Methods = make([]*Method, len(d.Methods))
	for i, m := range d.Methods {
		c.Methods[i] = m.Clone()
	}
	return c
}

// CloneEmpty copies the impl header only, with no members or methods.
func (d *ImplBlock) CloneEmpty() *ImplBlock {
	return &ImplBlock{
		Attrs:    cloneAttrs(d.Attrs),
		Unsafe:   d.Unsafe,
		Generics: d.Generics,
		Trait:    d.Trait,
		Type:     d.Type,
		Where:    d.Where,
	}
}

// Clone returns a deep copy of the method.
func (m *Method) Clone() *Method {
	c := *m
	c.Attrs = cloneAttrs(m.Attrs)
	c.Params = append([]Param(nil), m.Params...)
	c.Body = CloneStmts(m.Body)
	return &c
}

// CloneStmts deep-copies a statement list.
func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = s
		if s.Lit != nil {
			lit := *s.Lit
			lit.Fields = append([]FieldInit(nil), s.Lit.Fields...)
			out[i].Lit = &lit
		}
	}
	return out
}

func (d *Import) cloneDecl() Decl {
	return &Import{Attrs: cloneAttrs(d.Attrs), Vis: d.Vis, Tree: CloneUse(d.Tree)}
}

func (d *Opaque) cloneDecl() Decl {
	return &Opaque{Attrs: cloneAttrs(d.Attrs), Text: d.Text}
}

func cloneAttrs(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	return append([]Attribute(nil), attrs...)
}
