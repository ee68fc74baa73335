// Package syntax models the part of a Rust source file the contract merger
// works on: modules, structs, impl blocks, methods, use declarations and
// attributes. Everything the merger never looks inside is carried as
// verbatim text so it survives a parse/render round trip.
//
// Containers own their children in ordered slices. Navigation helpers return
// indices into those slices (-1 when absent) and mutation always goes
// through the owning container.
package syntax

import "strings"

// Module is the root of a parsed source file.
type Module struct {
	// InnerAttrs are file-level attributes such as #![cfg_attr(...)].
	InnerAttrs []Attribute
	Decls      []Decl
}

// Decl is a top-level declaration inside a Module or a ModDecl.
type Decl interface {
	cloneDecl() Decl
}

// ModDecl is an inline module: `mod name { ... }`.
type ModDecl struct {
	Attrs []Attribute
	Vis   string
	Name  string
	Decls []Decl
}

// StructType is a struct with named fields.
type StructType struct {
	Attrs    []Attribute
	Vis      string
	Name     string
	Generics string
	Where    string
	Fields   []*Field
}

// Field is a named struct field.
type Field struct {
	Attrs []Attribute
	Vis   string
	Name  string
	Type  string
}

// ImplBlock is an `impl` item. Members holds non-method items (associated
// types and consts) verbatim; they render ahead of the methods.
type ImplBlock struct {
	Attrs    []Attribute
	Unsafe   bool
	Generics string
	Trait    string
	Type     string
	Where    string
	Members  []string
	Methods  []*Method
}

// Method is a function item inside an impl block.
type Method struct {
	Attrs     []Attribute
	Vis       string
	Modifiers string
	Name      string
	Generics  string
	Receiver  string
	Params    []Param
	Result    string
	Where     string
	Body      []Stmt
}

// Param is a non-receiver function parameter.
type Param struct {
	Name string
	Type string
}

// Stmt is one statement of a function body. Tail marks the trailing
// expression of a block. When the tail is a struct literal it is kept
// structured in Lit so initializers can be appended; Text is then only the
// text as originally parsed.
type Stmt struct {
	Text string
	Tail bool
	Lit  *StructLit
}

// StructLit is a struct expression such as `Self { balance: 0, owner }`.
type StructLit struct {
	Path   string
	Fields []FieldInit
	Base   string
}

// FieldInit is one initializer of a struct literal. An empty Value is the
// shorthand form `name`.
type FieldInit struct {
	Name  string
	Value string
}

// Import is a `use` declaration.
type Import struct {
	Attrs []Attribute
	Vis   string
	Tree  UseTree
}

// Opaque is any declaration the merger passes through untouched.
type Opaque struct {
	Attrs []Attribute
	Text  string
}

// Identity returns the name an impl block is matched by: the trait name for
// trait impls, otherwise the implementing type. Paths and generic arguments
// are dropped, so `impl psp22::PSP22 for Token<T>` has identity "PSP22".
func (b *ImplBlock) Identity() string {
	if b.Trait != "" {
		return lastSegment(b.Trait)
	}
	return lastSegment(b.Type)
}

func lastSegment(path string) string {
	if i := strings.IndexByte(path, '<'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if i := strings.LastIndex(path, "::"); i >= 0 {
		path = path[i+2:]
	}
	return strings.TrimSpace(path)
}

func (s Stmt) String() string {
	if s.Lit != nil {
		return s.Lit.String()
	}
	return s.Text
}

// String renders the literal on one line.
func (l *StructLit) String() string {
	var b strings.Builder
	b.WriteString(l.Path)
	if len(l.Fields) == 0 && l.Base == "" {
		b.WriteString(" {}")
		return b.String()
	}
	b.WriteString(" { ")
	for i, f := range l.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	if l.Base != "" {
		if len(l.Fields) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("..")
		b.WriteString(l.Base)
	}
	b.WriteString(" }")
	return b.String()
}

func (f FieldInit) String() string {
	if f.Value == "" {
		return f.Name
	}
	return f.Name + ": " + f.Value
}
