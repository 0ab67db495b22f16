package build

import (
	"github.com/openyin/yincore/common"
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// dataDefNames are the statement names that introduce a child schema
// node, per spec §3's Node variant set.
var dataDefNames = map[string]bool{
	"container": true, "leaf": true, "leaf-list": true, "list": true,
	"choice": true, "uses": true, "grouping": true,
}

// DataDef dispatches one data-definition XML element to its per-
// statement builder. parent is the schema node this child will be
// attached to (nil at module/submodule top level). sub is the
// submodule directly declaring el, or nil when el is declared in mod
// itself (see resolve.Typedef) — threaded through so a submodule's own
// import table governs prefix resolution for any type/identityref/uses
// statement anywhere in its subtree.
func DataDef(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	switch el.Name {
	case "container":
		return Container(ctx, mod, sub, parent, el)
	case "leaf":
		return Leaf(ctx, mod, sub, parent, el)
	case "leaf-list":
		return LeafList(ctx, mod, sub, parent, el)
	case "list":
		return List(ctx, mod, sub, parent, el)
	case "choice":
		return Choice(ctx, mod, sub, parent, el)
	case "uses":
		return Uses(ctx, mod, sub, parent, el)
	case "grouping":
		return Grouping(ctx, mod, sub, parent, el)
	default:
		return nil, yerr.InvalidStmt(el, el.Name)
	}
}

// parentConfig returns the resolved config flag to inherit from parent,
// or ConfigUnset if parent is nil (a true top-level node, which then
// defaults to ConfigTrue per schema.ResolveConfig).
func parentConfig(parent *schema.Node) schema.Config {
	if parent == nil {
		return schema.ConfigUnset
	}
	return parent.Config
}

// stashDataDefs implements Pass 1's "children that are themselves
// data-definition statements are detached... and moved onto a scratch
// list to be processed last" for container/list/grouping bodies, which
// accept any of the seven data-definition statements as direct
// children. It also counts (without detaching) `typedef` children, for
// Pass 2's allocate-then-fill step.
func stashDataDefs(el *yin.Element) (dataDefs []*yin.Element, typedefCount int) {
	for _, child := range append([]*yin.Element(nil), el.Children...) {
		if dataDefNames[child.Name] {
			child.Detach()
			dataDefs = append(dataDefs, child)
		} else if child.Name == "typedef" {
			typedefCount++
		}
	}
	return dataDefs, typedefCount
}

// buildTypedefs implements Pass 2's "allocate the typedef array...
// then walk the (reduced) child list again filling entries" for a node
// whose scope owns local typedefs (container/list/grouping). scope is
// the schema node typedefs declared here will be scoped to for
// resolution purposes (i.e. n itself, since a typedef's own body can
// reference its earlier siblings already appended to n.Typedefs).
func buildTypedefs(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, n *schema.Node, el *yin.Element, count int) error {
	if count == 0 {
		return nil
	}
	n.Typedefs = make([]*schema.Typedef, 0, count)
	for _, child := range append([]*yin.Element(nil), el.Children...) {
		if child.Name != "typedef" {
			continue
		}
		td, err := Typedef(ctx, mod, sub, n, child)
		if err != nil {
			return err
		}
		n.Typedefs = append(n.Typedefs, td)
		child.Detach()
	}
	return nil
}

// buildChildren implements Pass 3: "drain the scratch list by
// dispatching to the appropriate sub-builder; each returned node is
// appended to the node's children ring via addchild."
func buildChildren(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, n *schema.Node, dataDefs []*yin.Element) error {
	for _, de := range dataDefs {
		child, err := DataDef(ctx, mod, sub, n, de)
		if err != nil {
			return err
		}
		schema.AddChild(n, child)
	}
	return nil
}

// logIgnored emits the advisory diagnostic spec §4.4 calls for when a
// choice body (or any other builder) encounters a statement it does
// not model at this spec level — never fatal, per spec §A.2's
// advisory-vs-fatal split.
func logIgnored(ctx *context.Context, el *yin.Element, where string) {
	if ctx == nil {
		return
	}
	ctx.Log().WithField("statement", el.Name).WithField("line", el.Line).
		Debugf("ignoring unrecognized statement in %s body", where)
}

// discardRemaining logs (at debug level) and detaches every child still
// attached to el, including statements such as pattern/range/must/when/
// feature that spec §1's Non-goals leave unmodeled. Node
// builders call this once header/typedef/key/data-def handling has
// consumed everything this spec level models.
func discardRemaining(ctx *context.Context, el *yin.Element, where string) {
	for _, child := range append([]*yin.Element(nil), el.Children...) {
		logIgnored(ctx, child, where)
		child.Detach()
	}
}

// header runs the common statement parser and applies its result onto
// n, resolving n's config flag against parent's. It also sets n.Parent
// up front, so lookups made while n's own children are built can walk
// past n to its ancestors.
func header(el *yin.Element, n *schema.Node, parent *schema.Node, withConfig bool) (common.Header, error) {
	n.Parent = parent
	h, err := common.ParseHeader(el, withConfig)
	if err != nil {
		return h, err
	}
	common.Apply(n, h)
	schema.ResolveConfig(n, parentConfig(parent))
	return h, nil
}
