package syntax

import "fmt"

// FindMainDecl returns the index of the module declaration carrying marker.
// When several declarations carry it the first one wins.
func FindMainDecl(m *Module, marker Attribute) (int, error) {
	for i, d := range m.Decls {
		if mod, ok := d.(*ModDecl); ok && HasAttr(mod.Attrs, marker) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no module marked %s", ErrNotFound, marker)
}

// MainDecl is FindMainDecl returning the declaration itself.
func MainDecl(m *Module, marker Attribute) (*ModDecl, error) {
	i, err := FindMainDecl(m, marker)
	if err != nil {
		return nil, err
	}
	return m.Decls[i].(*ModDecl), nil
}

// FindStructByAttr returns the index of the first struct carrying attr, or -1.
func FindStructByAttr(decls []Decl, attr Attribute) int {
	for i, d := range decls {
		if s, ok := d.(*StructType); ok && HasAttr(s.Attrs, attr) {
			return i
		}
	}
	return -1
}

// ImplBlocks returns the indices of every impl block, in order.
func ImplBlocks(decls []Decl) []int {
	var out []int
	for i, d := range decls {
		if _, ok := d.(*ImplBlock); ok {
			out = append(out, i)
		}
	}
	return out
}

// FindImplByIdentity returns the index of the last impl block whose
// identity is name, or -1. A later block shadows an earlier one.
func FindImplByIdentity(decls []Decl, name string) int {
	found := -1
	for i, d := range decls {
		if b, ok := d.(*ImplBlock); ok && b.Identity() == name {
			found = i
		}
	}
	return found
}

// FindMethodByName returns the index of the last method named name, or -1.
func (b *ImplBlock) FindMethodByName(name string) int {
	found := -1
	for i, m := range b.Methods {
		if m.Name == name {
			found = i
		}
	}
	return found
}

// FindMethodByAttr returns the index of the first method carrying attr, or -1.
func (b *ImplBlock) FindMethodByAttr(attr Attribute) int {
	for i, m := range b.Methods {
		if HasAttr(m.Attrs, attr) {
			return i
		}
	}
	return -1
}

// Imports returns the indices of every use declaration, in order.
func Imports(decls []Decl) []int {
	var out []int
	for i, d := range decls {
		if _, ok := d.(*Import); ok {
			out = append(out, i)
		}
	}
	return out
}
