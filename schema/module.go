package schema

import "github.com/openyin/yincore/internal/intern"

// Revision is one `revision` statement (spec §3). The newest revision
// is element [0] of a Module/Submodule's Revisions slice — the source
// order is already newest-first (spec §4.5) and is preserved as-is.
type Revision struct {
	Date        string
	Description string
	Reference   string
}

// Import is a resolved `import` statement: a prefix bound to another
// module, with the optional revision the import pinned to.
type Import struct {
	Prefix   intern.Symbol
	Module   *Module
	Revision string
}

// Include is a resolved `include` statement pulling a submodule into a
// module's namespace.
type Include struct {
	Submodule *Submodule
}

// Typedef is a named derived type, living on whatever scope declared it
// (module, submodule, container, list, or grouping).
type Typedef struct {
	Name        intern.Symbol
	Type        *Type
	Description string
	Reference   string
	Status      Status
}

// Identity is one node of the identity DAG (spec §3). Base is nil for a
// root identity; Derived accumulates every identity that names this one
// (transitively, through every ancestor) as its base, per the
// propagation rule of spec §5.
type Identity struct {
	Name    intern.Symbol
	Module  *Module
	Base    *Identity
	Derived []*Identity
}

// addDerived appends derived identity d to i's Derived list, and
// recurses up i's own Base chain so every ancestor also records d —
// this is the "transitively, to every ancestor's chain" propagation
// spec §5 calls for, grounded on original_source's find_base_ident_sub
// which walks base_iter = base_iter->base appending a derived-from
// backreference at each step.
func (i *Identity) addDerived(d *Identity) {
	for cur := i; cur != nil; cur = cur.Base {
		cur.Derived = append(cur.Derived, d)
	}
}

// AddDerived is the exported form of addDerived, used by the identity
// builder in package build.
func AddDerived(base, derived *Identity) { base.addDerived(derived) }

// Module is the top-level compiled unit (spec §3).
type Module struct {
	Name         intern.Symbol
	Namespace    string
	Prefix       intern.Symbol
	YangVersion  string
	Organization string
	Contact      string
	Description  string
	Reference    string

	Revisions []*Revision
	Imports   []*Import
	Includes  []*Include

	Typedefs   []*Typedef
	Identities []*Identity

	Submodules map[string]*Submodule

	firstChild *Node
}

// LatestRevision returns the newest revision's date, or "" if the
// module carries no revision statements (spec §4.5's duplicate-module
// check treats this as a distinct case from a module with revisions).
func (m *Module) LatestRevision() string {
	if len(m.Revisions) == 0 {
		return ""
	}
	return m.Revisions[0].Date
}

// Children returns the module's top-level data-definition nodes in
// declaration order.
func (m *Module) Children() []*Node {
	if m == nil || m.firstChild == nil {
		return nil
	}
	var out []*Node
	for c := m.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// AddChild appends a top-level data-definition node to the module's
// ring and marks it module-owned (Parent == nil, per spec §3's "owned
// exactly by its parent (or its module for top-level)").
func (m *Module) AddChild(n *Node) {
	n.Parent = nil
	linkIntoRing(&m.firstChild, n)
}

// Submodule has the same shape as Module except namespace/prefix are
// inherited from the owning module via belongs-to (spec §3). Like a
// module, it carries its own ordered import list: a submodule does not
// inherit the owning module's imports, it must redeclare any it uses
// (spec.md §3's "same shape as Module" applies to imports too; only
// namespace/prefix are the documented carve-out).
type Submodule struct {
	Name      intern.Symbol
	BelongsTo intern.Symbol
	Owner     *Module

	Description string
	Reference   string

	Revisions []*Revision
	Imports   []*Import
	Includes  []*Include

	Typedefs   []*Typedef
	Identities []*Identity

	firstChild *Node
}

func (s *Submodule) LatestRevision() string {
	if len(s.Revisions) == 0 {
		return ""
	}
	return s.Revisions[0].Date
}

func (s *Submodule) Children() []*Node {
	if s == nil || s.firstChild == nil {
		return nil
	}
	var out []*Node
	for c := s.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

func (s *Submodule) AddChild(n *Node) {
	n.Parent = nil
	linkIntoRing(&s.firstChild, n)
}

// Namespace returns the owning module's namespace, since a submodule
// has none of its own (spec §3).
func (s *Submodule) Namespace() string {
	if s.Owner == nil {
		return ""
	}
	return s.Owner.Namespace
}

// Prefix returns the owning module's prefix.
func (s *Submodule) Prefix() intern.Symbol {
	if s.Owner == nil {
		return nil
	}
	return s.Owner.Prefix
}
