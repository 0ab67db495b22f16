// Package resolve implements the Identifier Resolver of spec §4.1:
// typedef, identity, and grouping lookup by a possibly prefixed name
// from a starting lexical scope.
//
// Grounded on original_source/src/parser/yin.c's find_superior_type and
// find_base_ident — in particular the ancestor-ring walk ("for (;
// parent; parent = parent->parent) { scan parent's own typedefs }") and
// the prefix-to-import redirect logic are carried over structurally
// (see DESIGN.md).
package resolve

import (
	"strings"

	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// SplitName splits a possibly prefix-qualified name into (prefix,
// local), where prefix == "" for an unqualified name.
func SplitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// targetModule resolves a name's prefix against the declaring scope's
// own prefix and import table, per spec §4.1: a prefix equal to the
// scope's own prefix is dropped (search continues in mod itself); any
// other prefix must match an import, or INPREFIX is fatal.
//
// sub is the submodule directly declaring the identifier being
// resolved, or nil when it is declared in mod itself. A submodule does
// not inherit the owning module's imports (YANG submodules must
// redeclare any import they use), so when sub is non-nil its own
// Imports is searched instead of mod's; its own prefix is mod's prefix
// by way of belongs-to (schema.Submodule.Prefix proxies the owner).
func targetModule(mod *schema.Module, sub *schema.Submodule, el *yin.Element, prefix string) (*schema.Module, error) {
	if sub != nil {
		if prefix == "" || (sub.Prefix() != nil && prefix == *sub.Prefix()) {
			return mod, nil
		}
		for _, imp := range sub.Imports {
			if imp.Prefix != nil && *imp.Prefix == prefix {
				return imp.Module, nil
			}
		}
		return nil, yerr.InvalidPrefix(el, prefix)
	}

	if prefix == "" || (mod.Prefix != nil && prefix == *mod.Prefix) {
		return mod, nil
	}
	for _, imp := range mod.Imports {
		if imp.Prefix != nil && *imp.Prefix == prefix {
			return imp.Module, nil
		}
	}
	return nil, yerr.InvalidPrefix(el, prefix)
}

// localTypedefs returns the local 0..n typedef array a given schema
// node owns, or nil if n's NodeType carries none (spec §3: only
// Container/List/Grouping have a local typedef array).
func localTypedefs(n *schema.Node) []*schema.Typedef {
	switch n.NodeType {
	case schema.Container, schema.List, schema.Grouping:
		return n.Typedefs
	default:
		return nil
	}
}

// Typedef resolves name from starting node `from` (nil for module top
// level) in module mod, per spec §4.1's typedef-lookup ordering:
// built-in table, then local ancestor rings (walked one ring per
// ancestor, per the Open Question resolved in DESIGN.md), then module
// top level, then included submodules in order, or — if prefixed to an
// import — only that import's top level. sub is the submodule directly
// declaring name, or nil when it is declared in mod itself (see
// targetModule).
func Typedef(mod *schema.Module, sub *schema.Submodule, from *schema.Node, name string, el *yin.Element) (*schema.Typedef, schema.BaseType, error) {
	prefix, local := SplitName(name)

	if prefix == "" {
		if b, ok := schema.LookupBuiltin(local); ok {
			return schema.BuiltinSentinel, b, nil
		}
	}

	target, err := targetModule(mod, sub, el, prefix)
	if err != nil {
		return nil, 0, err
	}

	qualifiedToImport := prefix != "" && target != mod

	if !qualifiedToImport && from != nil {
		for anc := from; anc != nil; anc = anc.Parent {
			for _, td := range localTypedefs(anc) {
				if td.Name != nil && *td.Name == local {
					return td, td.Type.Base, nil
				}
			}
		}
	}

	for _, td := range target.Typedefs {
		if td.Name != nil && *td.Name == local {
			return td, td.Type.Base, nil
		}
	}

	if !qualifiedToImport {
		for _, inc := range target.Includes {
			for _, td := range inc.Submodule.Typedefs {
				if td.Name != nil && *td.Name == local {
					return td, td.Type.Base, nil
				}
			}
		}
	}

	return nil, 0, yerr.InvalidArg(el, name, "type")
}

// Identity resolves name as described in spec §4.1: symmetric to
// Typedef lookup but limited to module/submodule top level (identities
// have no nested scope). sub is the submodule directly declaring name,
// or nil when it is declared in mod itself (see targetModule).
func Identity(mod *schema.Module, sub *schema.Submodule, name string, el *yin.Element) (*schema.Identity, error) {
	prefix, local := SplitName(name)

	target, err := targetModule(mod, sub, el, prefix)
	if err != nil {
		return nil, err
	}
	qualifiedToImport := prefix != "" && target != mod

	for _, id := range target.Identities {
		if id.Name != nil && *id.Name == local {
			return id, nil
		}
	}

	if !qualifiedToImport {
		for _, inc := range target.Includes {
			for _, id := range inc.Submodule.Identities {
				if id.Name != nil && *id.Name == local {
					return id, nil
				}
			}
		}
	}

	return nil, yerr.InvalidArg(el, name, "identity")
}

// groupingChildren returns the direct `grouping` children of n, used by
// the ancestor-ring walk in Grouping.
func groupingChildren(n *schema.Node) []*schema.Node {
	var out []*schema.Node
	for _, c := range n.Children() {
		if c.NodeType == schema.Grouping {
			out = append(out, c)
		}
	}
	return out
}

func moduleGroupingChildren(mod *schema.Module) []*schema.Node {
	var out []*schema.Node
	for _, c := range mod.Children() {
		if c.NodeType == schema.Grouping {
			out = append(out, c)
		}
	}
	return out
}

// Grouping resolves a `uses` statement's name per spec §4.1: unqualified
// names search the lexical ancestors' direct grouping children (each
// ancestor's own ring, in turn), then the current module's top level,
// then included submodules; prefixed names go directly to the imported
// module's top-level groupings. sub is the submodule directly declaring
// the `uses` statement, or nil when it is declared in mod itself (see
// targetModule).
func Grouping(mod *schema.Module, sub *schema.Submodule, from *schema.Node, name string, el *yin.Element) (*schema.Node, error) {
	prefix, local := SplitName(name)

	target, err := targetModule(mod, sub, el, prefix)
	if err != nil {
		return nil, err
	}
	qualifiedToImport := prefix != "" && target != mod

	if !qualifiedToImport {
		for anc := from; anc != nil; anc = anc.Parent {
			for _, g := range groupingChildren(anc) {
				if g.Name != nil && *g.Name == local {
					return g, nil
				}
			}
		}
		for _, g := range moduleGroupingChildren(target) {
			if g.Name != nil && *g.Name == local {
				return g, nil
			}
		}
		for _, inc := range target.Includes {
			for _, g := range inc.Submodule.Children() {
				if g.NodeType == schema.Grouping && g.Name != nil && *g.Name == local {
					return g, nil
				}
			}
		}
		return nil, yerr.InvalidArg(el, name, "grouping")
	}

	for _, g := range moduleGroupingChildren(target) {
		if g.Name != nil && *g.Name == local {
			return g, nil
		}
	}
	return nil, yerr.InvalidArg(el, name, "grouping")
}
