package build

import (
	"strings"

	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// List builds a `list` statement, including the key-resolution pass of
// spec §4.4/§3: grounded on original_source/src/parser/yin.c's
// read_yin_list, whose key-binding tail (existence, pairwise
// distinctness, is-a-leaf, non-empty base type, matching config) is
// followed in the same order here. sub is the submodule directly
// declaring el, or nil when el is declared in mod itself.
func List(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, parent *schema.Node, el *yin.Element) (*schema.Node, error) {
	n := &schema.Node{NodeType: schema.List, Module: mod}

	h, err := header(el, n, parent, true)
	if err != nil {
		return nil, err
	}
	n.Name = ctx.Intern(h.Name)

	dataDefs, tpdfCount := stashDataDefs(el)

	keyEls := el.ChildrenNamed("key")
	if len(keyEls) > 1 {
		return nil, yerr.TooManyStmt(keyEls[1], "key")
	}
	var keyStr string
	var haveKey bool
	if len(keyEls) == 1 {
		v, ok := keyEls[0].Attribute("value")
		if !ok || v == "" {
			return nil, yerr.MissingArg(keyEls[0], "value", "key")
		}
		keyStr = v
		haveKey = true
		keyEls[0].Detach()
	}

	if n.Config == schema.ConfigTrue && !haveKey {
		return nil, yerr.MissingStmt(el, "key", "list")
	}

	if err := buildTypedefs(ctx, mod, sub, n, el, tpdfCount); err != nil {
		return nil, err
	}

	discardRemaining(ctx, el, "list")

	if err := buildChildren(ctx, mod, sub, n, dataDefs); err != nil {
		return nil, err
	}

	if !haveKey {
		return n, nil
	}

	keyNames := strings.Fields(keyStr)
	keys := make([]*schema.Node, 0, len(keyNames))
	for _, keyName := range keyNames {
		var found *schema.Node
		for _, c := range n.Children() {
			if c.Name != nil && *c.Name == keyName {
				found = c
				break
			}
		}
		if found == nil {
			return nil, yerr.KeyMissing(el, keyName, h.Name)
		}
		for _, prior := range keys {
			if prior == found {
				return nil, yerr.KeyDuplicate(el, keyName, h.Name)
			}
		}
		if found.NodeType != schema.Leaf {
			return nil, yerr.KeyNotLeaf(el, keyName, h.Name)
		}
		if found.Type != nil && found.Type.Base == schema.BaseEmpty {
			return nil, yerr.KeyEmptyType(el, keyName, h.Name)
		}
		if found.Config != n.Config {
			return nil, yerr.KeyConfigMismatch(el, keyName, h.Name)
		}
		keys = append(keys, found)
	}

	n.Keys = keys
	n.KeysSize = len(keys)
	return n, nil
}
