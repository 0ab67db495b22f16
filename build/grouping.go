package build

import (
	"github.com/openyin/yincore/common"
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// Grouping builds a `grouping` statement. Per spec §4.4, "config
// inheritance is suppressed (a grouping has no config of its own until
// instantiated by uses)": the grouping's own header is parsed without a
// config value, and its Config field is deliberately left at
// ConfigUnset rather than resolved against its parent — a grouping is a
// template, not a live data-tree node, so spec §8's "no node has the
// unset sentinel after load" property does not apply to the grouping
// node itself. Nodes declared directly inside its body inherit from
// this unset flag the way top-level nodes do, so an unset config there
// resolves to ConfigTrue (uses expansion, which could give them the
// instantiation site's config, is out of scope — spec §4.4's closing
// note).
func Grouping(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	n := &schema.Node{NodeType: schema.Grouping, Module: mod, Parent: parent}

	h, err := common.ParseHeader(el, false)
	if err != nil {
		return nil, err
	}
	common.Apply(n, h)
	n.Name = ctx.Intern(h.Name)

	dataDefs, tpdfCount := stashDataDefs(el)

	if err := buildTypedefs(ctx, mod, sub, n, el, tpdfCount); err != nil {
		return nil, err
	}

	discardRemaining(ctx, el, "grouping")

	if err := buildChildren(ctx, mod, sub, n, dataDefs); err != nil {
		return nil, err
	}

	return n, nil
}
