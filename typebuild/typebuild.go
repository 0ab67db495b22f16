// Package typebuild implements the Type Builder of spec §4.2: given the
// XML element for a `type` statement and a target schema.Type, resolves
// the named typedef and populates kind-specific payload.
//
// Grounded line-for-line on original_source/src/parser/yin.c's
// fill_yin_type, in particular the enumeration auto-increment algorithm
// and the identityref single-base-child rule (see DESIGN.md).
package typebuild

import (
	"strconv"
	"strings"

	"github.com/openyin/yincore/context"
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/resolve"
	"github.com/openyin/yincore/schema"
)

// knownTypeChildren are substatements this core understands structurally
// for at least one base kind; anything else under a `type` element is
// INSTMT (spec §4.2 step 3's closing sentence).
var knownTypeChildren = map[string]bool{
	"enum": true, "base": true, "bit": true, "range": true, "length": true,
	"pattern": true, "fraction-digits": true, "path": true, "type": true,
	"require-instance": true,
}

// Build populates target from the `type` element el, resolving the
// named typedef in module mod starting from schema node from (nil at
// module top level). sub is the submodule directly declaring el, or
// nil when el is declared in mod itself (see resolve.Typedef).
func Build(ctx *context.Context, mod *schema.Module, sub *schema.Submodule, from *schema.Node, el *yin.Element, target *schema.Type) error {
	name, ok := el.Attribute("name")
	if !ok || name == "" {
		return yerr.MissingArg(el, "name", "type")
	}
	target.Name = name

	prefix, _ := resolve.SplitName(name)
	target.Prefix = prefix

	der, base, err := resolve.Typedef(mod, sub, from, name, el)
	if err != nil {
		return err
	}
	target.Der = der
	target.Base = base

	switch base {
	case schema.BaseEnumeration:
		return buildEnumeration(ctx, el, target, der)
	case schema.BaseIdentityref:
		return buildIdentityref(mod, sub, el, target)
	case schema.BaseInt8, schema.BaseInt16, schema.BaseInt32, schema.BaseInt64,
		schema.BaseUint8, schema.BaseUint16, schema.BaseUint32, schema.BaseUint64,
		schema.BaseDecimal64, schema.BaseString, schema.BaseBinary, schema.BaseBits,
		schema.BaseLeafref, schema.BaseUnion, schema.BaseInstanceIdentifier,
		schema.BaseBoolean, schema.BaseEmpty:
		return rejectUnknownChildren(el)
	default:
		return rejectUnknownChildren(el)
	}
}

// rejectUnknownChildren enforces spec §4.2 step 3's closing requirement
// that "a conforming implementation MUST reject unknown substatements
// with INSTMT", for the base kinds this core otherwise structurally
// acknowledges without building kind-specific payload.
func rejectUnknownChildren(el *yin.Element) error {
	for _, child := range el.Children {
		if !knownTypeChildren[child.Name] {
			return yerr.InvalidStmt(child, child.Name)
		}
	}
	return nil
}

// buildEnumeration implements RFC 6020 §9.6 exactly as
// original_source/src/parser/yin.c's fill_yin_type LY_TYPE_ENUM case
// does: explicit values must be unique and int32-range; omitted values
// auto-increment from the highest-seen-so-far + 1, starting at 0.
func buildEnumeration(ctx *context.Context, el *yin.Element, target *schema.Type, der *schema.Typedef) error {
	enumEls := el.ChildrenNamed("enum")
	for _, child := range el.Children {
		if child.Name != "enum" {
			return yerr.InvalidStmt(child, child.Name)
		}
	}

	if len(enumEls) == 0 {
		// A derived type may omit `enum` entirely if its own typedef
		// chain already carries some (spec §4.2 step 3).
		if der != schema.BuiltinSentinel && der.Type != nil && len(der.Type.Enums) > 0 {
			target.Enums = der.Type.Enums
			return nil
		}
		return yerr.MissingStmt(el, "enum", "type")
	}

	var (
		enums      []*schema.Enum
		highestSet bool
		next       int64
	)

	for _, enumEl := range enumEls {
		name, ok := enumEl.Attribute("name")
		if !ok || name == "" {
			target.Enums = enums
			return yerr.MissingArg(enumEl, "name", "enum")
		}

		if strings.TrimSpace(name) != name {
			target.Enums = enums
			return yerr.EnumWhitespace(enumEl, name)
		}
		for _, e := range enums {
			if e.Name != nil && *e.Name == name {
				target.Enums = enums
				return yerr.EnumDupName(enumEl, name)
			}
		}

		e := &schema.Enum{Name: ctx.Intern(name), Status: schema.StatusCurrent}
		for _, sub := range enumEl.Children {
			switch sub.Name {
			case "description":
				e.Description = yin.ArgText(sub)
			case "reference":
				e.Reference = yin.ArgText(sub)
			case "status":
				v, _ := sub.Attribute("value")
				switch v {
				case "current":
					e.Status = schema.StatusCurrent
				case "deprecated":
					e.Status = schema.StatusDeprecated
				case "obsolete":
					e.Status = schema.StatusObsolete
				default:
					target.Enums = enums
					return yerr.InvalidArg(sub, v, "status")
				}
			case "value":
				// handled below, after appending e, to keep dup/overflow
				// checks against the siblings already accepted.
			default:
				target.Enums = enums
				return yerr.InvalidStmt(sub, sub.Name)
			}
		}

		valueEl := enumEl.ChildNamed("value")
		if valueEl != nil {
			raw, _ := valueEl.Attribute("value")
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v < -2147483648 || v > 2147483647 {
				target.Enums = enums
				return yerr.InvalidArg(valueEl, raw, "enum/value")
			}
			e.Value = int32(v)

			// The auto-increment anchor only ever rises, mirroring
			// original_source's fill_yin_type, which initializes v to 0
			// and overwrites it only when an explicit value exceeds it —
			// an explicit value below the anchor (including a negative
			// first enum) does not pull subsequent auto values down.
			if int64(e.Value) >= next {
				next = int64(e.Value) + 1
			} else {
				for _, prior := range enums {
					if prior.Value == e.Value {
						target.Enums = append(enums, e)
						return yerr.EnumDupVal(valueEl, e.Value, name)
					}
				}
			}
			highestSet = true
		} else {
			if highestSet && next > 2147483647 {
				target.Enums = enums
				return yerr.InvalidArg(enumEl, "2147483648", "enum/value")
			}
			e.Value = int32(next)
			next++
			highestSet = true
		}

		enums = append(enums, e)
	}

	target.Enums = enums
	return nil
}

// buildIdentityref implements RFC 6020 §9.10: exactly one `base` child,
// whose name attribute resolves to an identity via §4.1.
func buildIdentityref(mod *schema.Module, sub *schema.Submodule, el *yin.Element, target *schema.Type) error {
	bases := el.ChildrenNamed("base")
	if len(bases) == 0 {
		return yerr.MissingStmt(el, "base", "type")
	}
	if len(bases) > 1 {
		return yerr.TooManyStmt(bases[1], "base")
	}
	for _, child := range el.Children {
		if child.Name != "base" {
			return yerr.InvalidStmt(child, child.Name)
		}
	}

	baseEl := bases[0]
	name, ok := baseEl.Attribute("name")
	if !ok || name == "" {
		return yerr.MissingArg(baseEl, "name", "base")
	}

	id, err := resolve.Identity(mod, sub, name, baseEl)
	if err != nil {
		return err
	}
	target.IdentityBase = id
	return nil
}
