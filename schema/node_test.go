package schema_test

import (
	"testing"

	"github.com/openyin/yincore/internal/intern"
	"github.com/openyin/yincore/schema"
)

func sym(p *intern.Pool, s string) intern.Symbol { return p.Intern(s) }

// Every child's Parent equals the holder, and the sibling ring visits
// each child exactly once (spec §8's ring-consistency invariant).
func TestAddChildRingConsistency(t *testing.T) {
	pool := intern.NewPool()
	parent := &schema.Node{NodeType: schema.Container, Name: sym(pool, "p")}

	var kids []*schema.Node
	for i := 0; i < 4; i++ {
		c := &schema.Node{NodeType: schema.Leaf, Name: sym(pool, "c")}
		schema.AddChild(parent, c)
		kids = append(kids, c)
	}

	got := parent.Children()
	if len(got) != len(kids) {
		t.Fatalf("expected %d children, got %d", len(kids), len(got))
	}
	for i, c := range got {
		if c != kids[i] {
			t.Fatalf("child %d out of order", i)
		}
		if c.Parent != parent {
			t.Fatalf("child %d's Parent does not equal holder", i)
		}
	}
}

func TestModuleAddChildOwnership(t *testing.T) {
	pool := intern.NewPool()
	mod := &schema.Module{Name: sym(pool, "m")}
	n := &schema.Node{NodeType: schema.Container, Name: sym(pool, "top")}
	mod.AddChild(n)

	if n.Parent != nil {
		t.Fatalf("top-level node should have nil Parent (module-owned)")
	}
	if len(mod.Children()) != 1 || mod.Children()[0] != n {
		t.Fatalf("expected module to own exactly the added child")
	}
}

// Config inheritance: unset takes the parent's resolved flag, or
// ConfigTrue at the true top level (spec §3/§8).
func TestResolveConfigInheritance(t *testing.T) {
	top := &schema.Node{Config: schema.ConfigUnset}
	schema.ResolveConfig(top, schema.ConfigUnset)
	if top.Config != schema.ConfigTrue {
		t.Fatalf("expected top-level default ConfigTrue, got %v", top.Config)
	}

	child := &schema.Node{Config: schema.ConfigUnset}
	schema.ResolveConfig(child, schema.ConfigFalse)
	if child.Config != schema.ConfigFalse {
		t.Fatalf("expected inherited ConfigFalse, got %v", child.Config)
	}

	explicit := &schema.Node{Config: schema.ConfigTrue}
	schema.ResolveConfig(explicit, schema.ConfigFalse)
	if explicit.Config != schema.ConfigTrue {
		t.Fatalf("explicit config should not be overridden by parent, got %v", explicit.Config)
	}
}

// An identity's Derived list propagates up its entire Base chain (spec
// §8's identity invariant).
func TestIdentityDerivedPropagatesUpChain(t *testing.T) {
	pool := intern.NewPool()
	root := &schema.Identity{Name: sym(pool, "root")}
	mid := &schema.Identity{Name: sym(pool, "mid"), Base: root}
	leaf := &schema.Identity{Name: sym(pool, "leaf"), Base: mid}

	schema.AddDerived(root, mid)
	schema.AddDerived(mid, leaf)

	if len(root.Derived) != 2 {
		t.Fatalf("expected root.Derived to contain both mid and leaf, got %d entries", len(root.Derived))
	}
	foundMid, foundLeaf := false, false
	for _, d := range root.Derived {
		if d == mid {
			foundMid = true
		}
		if d == leaf {
			foundLeaf = true
		}
	}
	if !foundMid || !foundLeaf {
		t.Fatalf("root.Derived missing a transitive entry: mid=%v leaf=%v", foundMid, foundLeaf)
	}
	if len(mid.Derived) != 1 || mid.Derived[0] != leaf {
		t.Fatalf("expected mid.Derived to contain only leaf")
	}
}
