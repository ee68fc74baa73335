package rustsrc

import (
	"strings"

	"smartbeaver/internal/syntax"
)

const indentUnit = "    "

// Render prints a module as Rust source. Output is deterministic: one blank
// line between items, consecutive use declarations kept together, four
// space indentation, line comments removed.
func Render(m *syntax.Module) string {
	p := &printer{}
	for _, a := range m.InnerAttrs {
		p.line("#!" + strings.TrimPrefix(a.String(), "#"))
	}
	if len(m.InnerAttrs) > 0 && len(m.Decls) > 0 {
		p.blank()
	}
	p.decls(m.Decls)
	return StripLineComments(p.sb.String()) + "\n"
}

// RenderMethod prints a single method at top level, for diagnostics.
func RenderMethod(m *syntax.Method) string {
	p := &printer{}
	p.method(m)
	return strings.TrimSuffix(p.sb.String(), "\n")
}

// StripLineComments removes every line whose first non-blank characters are
// `//`, which covers doc comments and plain line comments.
func StripLineComments(input string) string {
	lines := strings.Split(input, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

type printer struct {
	sb    strings.Builder
	depth int
}

func (p *printer) line(s string) {
	if s != "" {
		p.sb.WriteString(strings.Repeat(indentUnit, p.depth))
		p.sb.WriteString(s)
	}
	p.sb.WriteByte('\n')
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
}

// text writes a possibly multi-line chunk, indenting every line.
func (p *printer) text(s string) {
	for _, l := range strings.Split(s, "\n") {
		p.line(strings.TrimRight(l, " \t"))
	}
}

func (p *printer) attrs(attrs []syntax.Attribute) {
	for _, a := range attrs {
		p.line(a.String())
	}
}

func (p *printer) decls(decls []syntax.Decl) {
	for i, d := range decls {
		if i > 0 {
			_, prevUse := decls[i-1].(*syntax.Import)
			_, curUse := d.(*syntax.Import)
			if !(prevUse && curUse) {
				p.blank()
			}
		}
		p.decl(d)
	}
}

func (p *printer) decl(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.ModDecl:
		p.attrs(d.Attrs)
		if len(d.Decls) == 0 {
			p.line(withVis(d.Vis, "mod "+d.Name+" {}"))
			return
		}
		p.line(withVis(d.Vis, "mod "+d.Name+" {"))
		p.depth++
		p.decls(d.Decls)
		p.depth--
		p.line("}")

	case *syntax.StructType:
		p.attrs(d.Attrs)
		head := "struct " + d.Name + d.Generics
		if d.Where != "" {
			head += " " + d.Where
		}
		if len(d.Fields) == 0 {
			p.line(withVis(d.Vis, head+" {}"))
			return
		}
		p.line(withVis(d.Vis, head+" {"))
		p.depth++
		for _, f := range d.Fields {
			p.attrs(f.Attrs)
			p.line(withVis(f.Vis, f.Name+": "+f.Type+","))
		}
		p.depth--
		p.line("}")

	case *syntax.ImplBlock:
		p.impl(d)

	case *syntax.Import:
		p.attrs(d.Attrs)
		p.line(withVis(d.Vis, "use "+d.Tree.String()+";"))

	case *syntax.Opaque:
		p.attrs(d.Attrs)
		p.text(d.Text)
	}
}

func (p *printer) impl(b *syntax.ImplBlock) {
	p.attrs(b.Attrs)
	head := "impl" + b.Generics + " "
	if b.Unsafe {
		head = "unsafe " + head
	}
	if b.Trait != "" {
		head += b.Trait + " for "
	}
	head += b.Type
	if b.Where != "" {
		head += " " + b.Where
	}
	if len(b.Members) == 0 && len(b.Methods) == 0 {
		p.line(head + " {}")
		return
	}
	p.line(head + " {")
	p.depth++
	first := true
	for _, m := range b.Members {
		if !first {
			p.blank()
		}
		first = false
		p.text(m)
	}
	for _, m := range b.Methods {
		if !first {
			p.blank()
		}
		first = false
		p.method(m)
	}
	p.depth--
	p.line("}")
}

func (p *printer) method(m *syntax.Method) {
	p.attrs(m.Attrs)
	var params []string
	if m.Receiver != "" {
		params = append(params, m.Receiver)
	}
	for _, prm := range m.Params {
		if prm.Name == "" {
			params = append(params, prm.Type)
			continue
		}
		params = append(params, prm.Name+": "+prm.Type)
	}
	head := "fn " + m.Name + m.Generics + "(" + strings.Join(params, ", ") + ")"
	if m.Modifiers != "" {
		head = m.Modifiers + " " + head
	}
	if m.Result != "" {
		head += " -> " + m.Result
	}
	if m.Where != "" {
		head += " " + m.Where
	}
	head = withVis(m.Vis, head)
	if len(m.Body) == 0 {
		p.line(head + " {}")
		return
	}
	p.line(head + " {")
	p.depth++
	for _, s := range m.Body {
		if s.Lit != nil {
			p.structLit(s.Lit)
			continue
		}
		p.text(s.Text)
	}
	p.depth--
	p.line("}")
}

func (p *printer) structLit(l *syntax.StructLit) {
	if len(l.Fields) == 0 && l.Base == "" {
		p.line(l.Path + " {}")
		return
	}
	p.line(l.Path + " {")
	p.depth++
	for _, f := range l.Fields {
		p.text(f.String() + ",")
	}
	if l.Base != "" {
		p.line(".." + l.Base)
	}
	p.depth--
	p.line("}")
}

func withVis(vis, s string) string {
	if vis == "" {
		return s
	}
	return vis + " " + s
}
