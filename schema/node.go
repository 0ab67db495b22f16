// Package schema is the in-memory, fully linked schema model spec §3
// describes: modules, submodules, typed schema nodes, typedefs, types,
// and identities. Construction lives in package build/loader; this
// package only defines the shapes and the invariant-preserving
// primitives (addChild, ring iteration) those packages drive.
package schema

import "github.com/openyin/yincore/internal/intern"

// NodeType tags the variant a Node actually is. Spec §9 calls for a
// tagged sum type discriminated by this field rather than pointer-
// chasing type assertions.
type NodeType int

const (
	Container NodeType = iota
	Leaf
	LeafList
	List
	Choice
	Grouping
	Uses
)

func (t NodeType) String() string {
	switch t {
	case Container:
		return "container"
	case Leaf:
		return "leaf"
	case LeafList:
		return "leaf-list"
	case List:
		return "list"
	case Choice:
		return "choice"
	case Grouping:
		return "grouping"
	case Uses:
		return "uses"
	default:
		return "unknown"
	}
}

// Status is a node or typedef's lifecycle marker (spec §3).
type Status int

const (
	StatusCurrent Status = iota
	StatusDeprecated
	StatusObsolete
)

func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusDeprecated:
		return "deprecated"
	case StatusObsolete:
		return "obsolete"
	default:
		return "current"
	}
}

// Config is the read-write/read-only flag of spec §3. Apart from a
// grouping node, which keeps ConfigUnset (see build.Grouping),
// ConfigUnset only ever appears transiently during a build; every other
// Node that survives a load has either ConfigTrue or ConfigFalse (spec
// §8's "no node has the unset sentinel after load" property).
type Config int

const (
	ConfigUnset Config = iota
	ConfigTrue
	ConfigFalse
)

// Node is one schema tree node: the common header every variant
// shares, plus the payload fields relevant to its NodeType. Unused
// payload fields for a given NodeType are left at their zero value;
// callers switch on NodeType, never on which payload fields are set.
type Node struct {
	NodeType NodeType
	Name     intern.Symbol
	Module   *Module

	Description string
	Reference   string
	Status      Status
	Config      Config

	Parent *Node // nil for a top-level node (owned by its Module instead)

	// Sibling half-ring: next is NULL-terminated, prev wraps around to
	// the last sibling so tail-append is O(1) (spec §3/§9). FirstChild
	// is nil for leaf/leaf-list and for an empty container/list/choice/
	// grouping.
	FirstChild *Node
	next       *Node
	prev       *Node // valid even when next == nil; prev of FirstChild is the last child

	// Container / List / Grouping payload.
	Typedefs []*Typedef

	// Leaf / LeafList payload.
	Type *Type

	// List payload.
	Keys     []*Node // resolved leaf pointers, in declaration order
	KeysSize int

	// Uses payload.
	Grouping *Node // resolved grouping this uses instantiates (pointer bound, no expansion)
}

// Children returns the node's direct children in sibling order. It
// always allocates a fresh slice; callers needing repeated iteration
// over a stable child set should cache the result.
func (n *Node) Children() []*Node {
	if n == nil || n.FirstChild == nil {
		return nil
	}
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// addChild appends child to parent's sibling ring, sets child's Parent,
// and is idempotent against parent == nil — per spec §4.4's addchild
// primitive, a nil parent means the node is module-owned and the ring
// linkage is skipped entirely (the Module's own ring is used instead,
// see Module.AddChild).
func addChild(parent *Node, child *Node) {
	child.Parent = parent
	if parent == nil {
		return
	}
	linkIntoRing(&parent.FirstChild, child)
}

// linkIntoRing appends child onto the half-ring anchored at *first.
func linkIntoRing(first **Node, child *Node) {
	if *first == nil {
		child.next = nil
		child.prev = child
		*first = child
		return
	}
	last := (*first).prev
	last.next = child
	child.prev = last
	child.next = nil
	(*first).prev = child
}

// AddChild attaches child as the last child of n, maintaining the
// sibling ring and setting child.Parent. It is the exported form of
// addChild used by node builders across package boundaries.
func AddChild(n *Node, child *Node) { addChild(n, child) }

// inheritConfig resolves the config flag per spec §3: unset takes the
// parent's flag, or ConfigTrue at the top level (spec §3 "at the top
// level it defaults to read-write").
func inheritConfig(self Config, parent Config) Config {
	if self != ConfigUnset {
		return self
	}
	if parent != ConfigUnset {
		return parent
	}
	return ConfigTrue
}

// ResolveConfig sets n.Config from n's own (possibly unset) value and
// the parent's resolved config, per the inheritance rule of spec §3.
// parentConfig should already be resolved (never ConfigUnset) except
// when n is a true top-level node, in which case pass ConfigUnset.
func ResolveConfig(n *Node, parentConfig Config) {
	n.Config = inheritConfig(n.Config, parentConfig)
}
