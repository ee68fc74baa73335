package syntax

import "strings"

// UseTree is the argument of a use declaration.
type UseTree interface {
	cloneUse() UseTree
	String() string
}

// UsePath is one path segment followed by the rest of the tree. An empty
// Name is the leading `::` of a global path.
type UsePath struct {
	Name string
	Next UseTree
}

// UseName is a terminal name, e.g. `C` in `a::b::C`.
type UseName struct {
	Name string
}

// UseRename is `Name as Alias`.
type UseRename struct {
	Name  string
	Alias string
}

// UseGlob is `*`.
type UseGlob struct{}

// UseGroup is `{a, b::c}`.
type UseGroup struct {
	Items []UseTree
}

func (u *UsePath) cloneUse() UseTree {
	return &UsePath{Name: u.Name, Next: CloneUse(u.Next)}
}

func (u *UseName) cloneUse() UseTree   { c := *u; return &c }
func (u *UseRename) cloneUse() UseTree { c := *u; return &c }
func (u *UseGlob) cloneUse() UseTree   { return &UseGlob{} }

func (u *UseGroup) cloneUse() UseTree {
	items := make([]UseTree, len(u.Items))
	for i, it := range u.Items {
		items[i] = CloneUse(it)
	}
	return &UseGroup{Items: items}
}

// CloneUse deep-copies a use tree. A nil tree clones to nil.
func CloneUse(t UseTree) UseTree {
	if t == nil {
		return nil
	}
	return t.cloneUse()
}

func (u *UsePath) String() string {
	if u.Next == nil {
		return u.Name
	}
	return u.Name + "::" + u.Next.String()
}

func (u *UseName) String() string   { return u.Name }
func (u *UseRename) String() string { return u.Name + " as " + u.Alias }
func (u *UseGlob) String() string   { return "*" }

func (u *UseGroup) String() string {
	parts := make([]string, len(u.Items))
	for i, it := range u.Items {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UsePathOf builds the use tree for a plain path such as "crate::traits::PSP22".
func UsePathOf(path string) UseTree {
	segs := strings.Split(path, "::")
	var t UseTree = &UseName{Name: segs[len(segs)-1]}
	for i := len(segs) - 2; i >= 0; i-- {
		t = &UsePath{Name: segs[i], Next: t}
	}
	return t
}
