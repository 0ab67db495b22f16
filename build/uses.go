package build

import (
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/resolve"
	"github.com/openyin/yincore/schema"
)

// Uses builds a `uses` statement. It resolves the referenced grouping
// per spec §4.1 and binds it by pointer on the returned node — expansion
// of the grouping's body into the uses site is out of scope at this
// spec level (spec §1's Non-goals), so the distinction spec §4.1 draws
// between a grouping-body uses and a data-tree uses ("whether the
// binding is later expanded") is moot here: both cases stop at the
// pointer bind.
//
// refine/augment children, if present, are statements this core does
// not model and are discarded like any other unrecognized statement.
func Uses(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	n := &schema.Node{NodeType: schema.Uses, Module: mod}

	h, err := header(el, n, parent, true)
	if err != nil {
		return nil, err
	}
	n.Name = ctx.Intern(h.Name)

	g, err := resolve.Grouping(mod, sub, parent, h.Name, el)
	if err != nil {
		return nil, err
	}
	n.Grouping = g

	discardRemaining(ctx, el, "uses")

	return n, nil
}
