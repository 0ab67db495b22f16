package build

import (
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
	"github.com/openyin/yincore/typebuild"
)

// Leaf builds a `leaf` statement. Spec §4.4: "exactly one type child
// (not enforced beyond presence)" — this core requires a type child to
// exist but, like the original, does not fault a leaf carrying more
// than one; it builds against the first.
func Leaf(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	return buildLeafLike(ctx, mod, sub, parent, el, schema.Leaf)
}

// LeafList builds a `leaf-list` statement — identical header and type
// handling to Leaf, distinguished only by NodeType.
func LeafList(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	return buildLeafLike(ctx, mod, sub, parent, el, schema.LeafList)
}

func buildLeafLike(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element, nt schema.NodeType) (*schema.Node, error) {
	n := &schema.Node{NodeType: nt, Module: mod}

	h, err := header(el, n, parent, true)
	if err != nil {
		return nil, err
	}
	n.Name = ctx.Intern(h.Name)

	typeEl := el.ChildNamed("type")
	if typeEl == nil {
		return nil, yerr.MissingStmt(el, "type", el.Name)
	}

	n.Type = &schema.Type{}
	// Typedef/built-in resolution for a leaf's type is scoped to its
	// lexical parent (spec §4.1): a leaf has no local typedef array of
	// its own.
	if err := typebuild.Build(ctx, mod, sub, parent, typeEl, n.Type); err != nil {
		return nil, err
	}
	typeEl.Detach()

	discardRemaining(ctx, el, el.Name)

	return n, nil
}
