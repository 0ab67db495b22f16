package build

import (
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// Container builds a `container` statement (spec §4.4): no constraints
// beyond the shared three-pass discipline. sub is the submodule
// directly declaring el, or nil when el is declared in mod itself.
func Container(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	n := &schema.Node{NodeType: schema.Container, Module: mod}

	h, err := header(el, n, parent, true)
	if err != nil {
		return nil, err
	}
	n.Name = ctx.Intern(h.Name)

	dataDefs, tpdfCount := stashDataDefs(el)

	if err := buildTypedefs(ctx, mod, sub, n, el, tpdfCount); err != nil {
		return nil, err
	}

	discardRemaining(ctx, el, "container")

	if err := buildChildren(ctx, mod, sub, n, dataDefs); err != nil {
		return nil, err
	}

	return n, nil
}
