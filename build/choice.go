package build

import (
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// caseNames are the only statements spec §4.4 permits as direct
// children of a choice at this spec level: "uses/grouping not
// permitted as direct cases in this spec level."
var caseNames = map[string]bool{
	"container": true, "leaf": true, "leaf-list": true, "list": true,
}

// Choice builds a `choice` statement. It has no local typedef array —
// spec §3 lists local typedefs only for Container/List/Grouping. sub is
// the submodule directly declaring el, or nil when el is declared in
// mod itself.
func Choice(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	n := &schema.Node{NodeType: schema.Choice, Module: mod}

	h, err := header(el, n, parent, true)
	if err != nil {
		return nil, err
	}
	n.Name = ctx.Intern(h.Name)

	var cases []*yin.Element
	for _, child := range append([]*yin.Element(nil), el.Children...) {
		if caseNames[child.Name] {
			child.Detach()
			cases = append(cases, child)
		} else {
			logIgnored(ctx, child, "choice")
			child.Detach()
		}
	}

	if err := buildChildren(ctx, mod, sub, n, cases); err != nil {
		return nil, err
	}

	return n, nil
}
