// Package build implements the per-statement Node Builders of spec
// §4.4 and the supporting multi-cardinality builders (typedef,
// identity) spec §4.5's Module Loader drives during its Pass 2.
//
// Every builder here follows the three-pass discipline spec §4.4
// describes: classify-and-stash, allocate-and-fill, build-and-attach.
// Grounded structurally on original_source/src/parser/yin.c's
// read_yin_*/fill_yin_* split and the teacher's per-statement builder
// layout in compile/grouping.go.
package build

import (
	"github.com/openyin/yincore/common"
	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/resolve"
	"github.com/openyin/yincore/schema"
	"github.com/openyin/yincore/typebuild"
)

// Typedef builds one `typedef` statement into a schema.Typedef, scoped
// to `from` (the container/list/grouping/module-root it was declared
// in). from's own Typedefs slice may already contain earlier siblings
// by the time this is called — package loader (at a module's top level)
// and the per-variant node builders append each typedef immediately
// after a successful build, so a typedef may reference an earlier
// sibling but never a later one. At a submodule's top level, unprefixed
// names resolve against the owning module and its includes, not against
// the submodule's own typedefs.
// This is stricter than original_source's fill_yin_typedef (whose
// tpdf_size is set to the final count before any entry is filled,
// letting a forward reference read a still-zeroed C struct), and is the
// deliberate, safer choice for this port. sub is the submodule directly
// declaring el, or nil when el is declared in mod itself.
func Typedef(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, from *schema.Node, el *yin.Element) (*schema.Typedef, error) {
	h, err := common.ParseHeader(el, false)
	if err != nil {
		return nil, err
	}

	typeEl := el.ChildNamed("type")
	if typeEl == nil {
		return nil, yerr.MissingStmt(el, "type", "typedef")
	}

	t := &schema.Type{}
	if err := typebuild.Build(ctx, mod, sub, from, typeEl, t); err != nil {
		return nil, err
	}

	td := &schema.Typedef{
		Name:        ctx.Intern(h.Name),
		Type:        t,
		Description: h.Description,
		Reference:   h.Reference,
		Status:      h.Status,
	}

	if hops := derChainHops(td); hops > schema.MaxDerChainHops {
		return nil, yerr.Fatal("typedef chain exceeds maximum depth")
	}

	return td, nil
}

// derChainHops walks td's Der chain until it reaches the built-in
// sentinel, returning the number of hops taken. Since a typedef can
// only ever reference an already-built Der (see the doc comment above),
// this can never actually loop forever in practice; it is a defensive
// bound matching spec §8's testable property ("walking der eventually
// reaches a built-in sentinel in <= 128 hops").
func derChainHops(td *schema.Typedef) int {
	hops := 0
	for cur := td; cur != nil && cur != schema.BuiltinSentinel; cur = cur.Type.Der {
		hops++
		if hops > schema.MaxDerChainHops {
			return hops
		}
	}
	return hops
}

// Identity builds one `identity` statement into a schema.Identity,
// resolving and linking its base (if any) per spec §4.5: "each identity
// is fully built in Pass 2... since identities form a cross-module
// symbol set before the schema tree is walked." sub is the submodule
// directly declaring el, or nil when el is declared in mod itself.
func Identity(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, el *yin.Element) (*schema.Identity, error) {
	name, ok := el.Attribute("name")
	if !ok || name == "" {
		return nil, yerr.MissingArg(el, "name", "identity")
	}

	id := &schema.Identity{Name: ctx.Intern(name), Module: mod}

	bases := el.ChildrenNamed("base")
	if len(bases) > 1 {
		return nil, yerr.TooManyStmt(bases[1], "base")
	}
	if len(bases) == 1 {
		baseName, ok := bases[0].Attribute("name")
		if !ok || baseName == "" {
			return nil, yerr.MissingArg(bases[0], "name", "base")
		}
		base, err := resolve.Identity(mod, sub, baseName, bases[0])
		if err != nil {
			return nil, err
		}
		id.Base = base
		schema.AddDerived(base, id)
	}

	return id, nil
}
