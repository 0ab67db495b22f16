// Package common implements the Common Statement Parser of spec §4.3:
// extraction of name/description/reference/status/config from any
// statement node, shared by every node builder in package build.
//
// Grounded on original_source/src/parser/yin.c's read_yin_common, which
// every read_yin_* builder delegates to for exactly this header.
package common

import (
	"github.com/openyin/yincore/internal/yerr"
	"github.com/openyin/yincore/internal/yin"
	"github.com/openyin/yincore/schema"
)

// Header holds the fields every schema node shares (spec §3's common
// header, minus the structural fields — parent/children/module — that
// only the node builders themselves can set).
type Header struct {
	Name        string
	Description string
	Reference   string
	Status      schema.Status
	Config      schema.Config // ConfigUnset if the statement had none (to be inherited)
}

// ParseHeader extracts el's `name` attribute and its description,
// reference, status, and (if withConfig) config children, detaching
// each consumed child from el per the three-pass discipline (spec
// §4.4's Pass 1: "children with 0..1 cardinality... are consumed
// immediately"). A grouping's body has withConfig == false, since
// "a grouping has no config of its own until instantiated by uses"
// (spec §4.4).
func ParseHeader(el *yin.Element, withConfig bool) (Header, error) {
	var h Header

	name, ok := el.Attribute("name")
	if !ok || name == "" {
		return h, yerr.MissingArg(el, "name", el.Name)
	}
	h.Name = name

	var (
		sawDescription, sawReference, sawStatus, sawConfig bool
	)

	// Snapshot children before detaching, since Detach mutates el.Children.
	for _, child := range append([]*yin.Element(nil), el.Children...) {
		switch child.Name {
		case "description":
			if sawDescription {
				return h, yerr.TooManyStmt(child, "description")
			}
			sawDescription = true
			h.Description = yin.ArgText(child)
			child.Detach()

		case "reference":
			if sawReference {
				return h, yerr.TooManyStmt(child, "reference")
			}
			sawReference = true
			h.Reference = yin.ArgText(child)
			child.Detach()

		case "status":
			if sawStatus {
				return h, yerr.TooManyStmt(child, "status")
			}
			sawStatus = true
			v, _ := child.Attribute("value")
			switch v {
			case "current":
				h.Status = schema.StatusCurrent
			case "deprecated":
				h.Status = schema.StatusDeprecated
			case "obsolete":
				h.Status = schema.StatusObsolete
			default:
				return h, yerr.InvalidArg(child, v, "status")
			}
			child.Detach()

		case "config":
			if !withConfig {
				continue
			}
			if sawConfig {
				return h, yerr.TooManyStmt(child, "config")
			}
			sawConfig = true
			v, _ := child.Attribute("value")
			// Per spec.md's Open Question (and DESIGN.md): true is
			// read-write, false is read-only. The original C reader's
			// double "false" comparison (both branches testing the same
			// literal, so config=false always lost to config=true's
			// dead branch) is deliberately NOT reproduced.
			switch v {
			case "true":
				h.Config = schema.ConfigTrue
			case "false":
				h.Config = schema.ConfigFalse
			default:
				return h, yerr.InvalidArg(child, v, "config")
			}
			child.Detach()
		}
	}

	if !sawStatus {
		h.Status = schema.StatusCurrent
	}
	if !sawConfig {
		h.Config = schema.ConfigUnset
	}

	return h, nil
}

// Apply copies h onto n's common header fields.
func Apply(n *schema.Node, h Header) {
	n.Description = h.Description
	n.Reference = h.Reference
	n.Status = h.Status
	n.Config = h.Config
}
