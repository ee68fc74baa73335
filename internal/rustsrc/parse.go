// Package rustsrc converts Rust source text to the syntax tree the merger
// works on and renders merged trees back to source. Parsing uses
// Tree-sitter; anything the tree model does not structure is kept as
// dedented verbatim text.
package rustsrc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartbeaver/internal/logging"
	"smartbeaver/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"go.uber.org/zap"
)

// Parse builds a syntax.Module from Rust source. Syntax errors reported by
// Tree-sitter are returned as ErrParse with the position of the first error.
func Parse(src []byte) (*syntax.Module, error) {
	return ParseCtx(context.Background(), src)
}

// ParseCtx is Parse with a cancellable context.
func ParseCtx(ctx context.Context, src []byte) (*syntax.Module, error) {
	start := time.Now()
	log := logging.Get(logging.CategoryParse)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			p := bad.StartPoint()
			return nil, &Error{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Near: snippet(bad.Content(src))}
		}
		return nil, &Error{Line: 1, Column: 1}
	}

	r := reader{src: src}
	m := &syntax.Module{}
	m.InnerAttrs, m.Decls = r.decls(root)

	log.Debug("parsed rust source",
		zap.Int("bytes", len(src)),
		zap.Int("decls", len(m.Decls)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// MustParse is Parse for sources known to be valid, such as test fixtures.
func MustParse(src string) *syntax.Module {
	m, err := Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return m
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

func snippet(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

type reader struct {
	src []byte
}

func (r *reader) text(n *sitter.Node) string {
	return n.Content(r.src)
}

// block returns the node text with the indentation of its first line
// removed from every following line.
func (r *reader) block(n *sitter.Node) string {
	return dedent(r.text(n), int(n.StartPoint().Column))
}

func dedent(text string, col int) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		j := 0
		for j < col && j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
		lines[i] = line[j:]
	}
	return strings.Join(lines, "\n")
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "line_comment", "block_comment", "doc_comment":
		return true
	}
	return false
}

func (r *reader) attribute(n *sitter.Node) syntax.Attribute {
	var inner *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "attribute" {
			inner = c
			break
		}
	}
	if inner == nil {
		return syntax.Attribute{Path: strings.Trim(r.text(n), "#![] ")}
	}
	a, err := syntax.ParseAttribute(r.text(inner))
	if err != nil {
		return syntax.Attribute{Path: r.text(inner)}
	}
	return a
}

func (r *reader) visibility(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "visibility_modifier" {
			return r.text(c)
		}
	}
	return ""
}

func (r *reader) childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func (r *reader) fieldText(n *sitter.Node, field string) string {
	if c := n.ChildByFieldName(field); c != nil {
		return r.text(c)
	}
	return ""
}

// decls reads the items of a source_file or declaration_list. Attribute
// items precede the item they belong to as siblings.
func (r *reader) decls(n *sitter.Node) ([]syntax.Attribute, []syntax.Decl) {
	var inner []syntax.Attribute
	var out []syntax.Decl
	var pending []syntax.Attribute

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "line_comment", "block_comment", "doc_comment":
			continue
		case "inner_attribute_item":
			inner = append(inner, r.attribute(child))
			continue
		case "attribute_item":
			pending = append(pending, r.attribute(child))
			continue
		}
		out = append(out, r.decl(child, pending))
		pending = nil
	}
	if len(pending) > 0 {
		logging.Get(logging.CategoryParse).Debug("dangling attributes dropped", zap.Int("count", len(pending)))
	}
	return inner, out
}

func (r *reader) decl(n *sitter.Node, attrs []syntax.Attribute) syntax.Decl {
	switch n.Type() {
	case "mod_item":
		body := n.ChildByFieldName("body")
		if body == nil {
			break
		}
		mod := &syntax.ModDecl{Attrs: attrs, Vis: r.visibility(n), Name: r.fieldText(n, "name")}
		// Inner attributes of an inline module are kept with its own attributes.
		innerAttrs, decls := r.decls(body)
		mod.Attrs = append(mod.Attrs, innerAttrs...)
		mod.Decls = decls
		return mod

	case "struct_item":
		body := n.ChildByFieldName("body")
		if body == nil || body.Type() != "field_declaration_list" {
			break
		}
		s := &syntax.StructType{
			Attrs:    attrs,
			Vis:      r.visibility(n),
			Name:     r.fieldText(n, "name"),
			Generics: r.fieldText(n, "type_parameters"),
		}
		if w := r.childOfType(n, "where_clause"); w != nil {
			s.Where = r.text(w)
		}
		s.Fields = r.fields(body)
		return s

	case "impl_item":
		body := n.ChildByFieldName("body")
		if body == nil {
			break
		}
		return r.impl(n, body, attrs)

	case "use_declaration":
		arg := n.ChildByFieldName("argument")
		if arg == nil {
			break
		}
		return &syntax.Import{Attrs: attrs, Vis: r.visibility(n), Tree: r.useTree(arg)}
	}
	return &syntax.Opaque{Attrs: attrs, Text: r.block(n)}
}

func (r *reader) fields(list *sitter.Node) []*syntax.Field {
	var out []*syntax.Field
	var pending []syntax.Attribute
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			pending = append(pending, r.attribute(child))
		case "field_declaration":
			out = append(out, &syntax.Field{
				Attrs: pending,
				Vis:   r.visibility(child),
				Name:  r.fieldText(child, "name"),
				Type:  r.fieldText(child, "type"),
			})
			pending = nil
		}
	}
	return out
}

func (r *reader) impl(n, body *sitter.Node, attrs []syntax.Attribute) *syntax.ImplBlock {
	b := &syntax.ImplBlock{
		Attrs:    attrs,
		Generics: r.fieldText(n, "type_parameters"),
		Trait:    r.fieldText(n, "trait"),
		Type:     r.fieldText(n, "type"),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "unsafe" {
			b.Unsafe = true
		}
		if c.Type() == "!" && b.Trait != "" {
			b.Trait = "!" + b.Trait
		}
	}
	if w := r.childOfType(n, "where_clause"); w != nil {
		b.Where = r.text(w)
	}

	var pending []syntax.Attribute
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch {
		case isComment(child):
			continue
		case child.Type() == "attribute_item":
			pending = append(pending, r.attribute(child))
			continue
		case child.Type() == "function_item":
			b.Methods = append(b.Methods, r.method(child, pending))
		default:
			b.Members = append(b.Members, withAttrs(pending, r.block(child)))
		}
		pending = nil
	}
	return b
}

func withAttrs(attrs []syntax.Attribute, text string) string {
	if len(attrs) == 0 {
		return text
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteString(a.String())
		sb.WriteByte('\n')
	}
	sb.WriteString(text)
	return sb.String()
}

func (r *reader) method(n *sitter.Node, attrs []syntax.Attribute) *syntax.Method {
	m := &syntax.Method{
		Attrs:    attrs,
		Vis:      r.visibility(n),
		Name:     r.fieldText(n, "name"),
		Generics: r.fieldText(n, "type_parameters"),
		Result:   r.fieldText(n, "return_type"),
	}
	if mods := r.childOfType(n, "function_modifiers"); mods != nil {
		m.Modifiers = r.text(mods)
	}
	if w := r.childOfType(n, "where_clause"); w != nil {
		m.Where = r.text(w)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		r.params(params, m)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		m.Body = r.stmts(body)
	}
	return m
}

func (r *reader) params(list *sitter.Node, m *syntax.Method) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "self_parameter":
			m.Receiver = r.text(child)
		case "parameter":
			name := r.fieldText(child, "pattern")
			if c := child.NamedChild(0); c != nil && c.Type() == "mutable_specifier" {
				name = "mut " + name
			}
			m.Params = append(m.Params, syntax.Param{Name: name, Type: r.fieldText(child, "type")})
		case "attribute_item", "line_comment", "block_comment":
		default:
			m.Params = append(m.Params, syntax.Param{Type: r.text(child)})
		}
	}
}

// stmts reads the statements of a block. A bare expression child (not
// wrapped in expression_statement) is the tail expression of the block.
func (r *reader) stmts(block *sitter.Node) []syntax.Stmt {
	out := []syntax.Stmt{}
	var pending []syntax.Attribute
	count := int(block.NamedChildCount())
	for i := 0; i < count; i++ {
		child := block.NamedChild(i)
		if isComment(child) {
			continue
		}
		if child.Type() == "attribute_item" {
			pending = append(pending, r.attribute(child))
			continue
		}
		s := syntax.Stmt{Text: withAttrs(pending, r.block(child))}
		pending = nil
		if isTail(child) {
			s.Tail = true
			if child.Type() == "struct_expression" {
				s.Lit = r.structLit(child)
			}
		}
		out = append(out, s)
	}
	return out
}

func isTail(n *sitter.Node) bool {
	switch t := n.Type(); {
	case t == "expression_statement", t == "let_declaration", t == "empty_statement":
		return false
	case strings.HasSuffix(t, "_item"), strings.HasSuffix(t, "_declaration"):
		return false
	case t == "macro_invocation":
		next := n.NextSibling()
		return next == nil || next.Type() != ";"
	}
	return true
}

func (r *reader) structLit(n *sitter.Node) *syntax.StructLit {
	lit := &syntax.StructLit{Path: r.fieldText(n, "name")}
	body := n.ChildByFieldName("body")
	if body == nil {
		return lit
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "shorthand_field_initializer":
			lit.Fields = append(lit.Fields, syntax.FieldInit{Name: r.text(child)})
		case "field_initializer":
			value := child.ChildByFieldName("value")
			fi := syntax.FieldInit{Name: r.fieldText(child, "field")}
			if value != nil {
				fi.Value = r.block(value)
			}
			lit.Fields = append(lit.Fields, fi)
		case "base_field_initializer":
			lit.Base = strings.TrimSpace(strings.TrimPrefix(r.text(child), ".."))
		}
	}
	return lit
}

func (r *reader) useTree(n *sitter.Node) syntax.UseTree {
	switch n.Type() {
	case "scoped_identifier":
		return prefixed(r.pathSegments(n.ChildByFieldName("path"), n), &syntax.UseName{Name: r.fieldText(n, "name")})
	case "scoped_use_list":
		list := n.ChildByFieldName("list")
		var group syntax.UseTree = &syntax.UseGroup{}
		if list != nil {
			group = r.useTree(list)
		}
		return prefixed(r.pathSegments(n.ChildByFieldName("path"), n), group)
	case "use_list":
		g := &syntax.UseGroup{}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if isComment(c) {
				continue
			}
			g.Items = append(g.Items, r.useTree(c))
		}
		return g
	case "use_as_clause":
		segs := r.pathSegments(n.ChildByFieldName("path"), n)
		last := segs[len(segs)-1]
		return prefixed(segs[:len(segs)-1], &syntax.UseRename{Name: last, Alias: r.fieldText(n, "alias")})
	case "use_wildcard":
		var segs []string
		if n.NamedChildCount() > 0 {
			segs = r.pathSegments(n.NamedChild(0), nil)
		} else if strings.HasPrefix(r.text(n), "::") {
			segs = []string{""}
		}
		return prefixed(segs, &syntax.UseGlob{})
	}
	return &syntax.UseName{Name: r.text(n)}
}

// pathSegments flattens a path node into its segments. A missing path on a
// node that starts with `::` yields the empty global-root segment.
func (r *reader) pathSegments(path, owner *sitter.Node) []string {
	if path == nil {
		if owner != nil && strings.HasPrefix(r.text(owner), "::") {
			return []string{""}
		}
		return nil
	}
	if path.Type() == "scoped_identifier" {
		return append(r.pathSegments(path.ChildByFieldName("path"), path), r.fieldText(path, "name"))
	}
	return []string{r.text(path)}
}

func prefixed(segs []string, tail syntax.UseTree) syntax.UseTree {
	for i := len(segs) - 1; i >= 0; i-- {
		tail = &syntax.UsePath{Name: segs[i], Next: tail}
	}
	return tail
}
