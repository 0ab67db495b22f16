// Package yin is the minimal YIN (YANG-as-XML, RFC 6020 §11) element
// tree adapter the core treats as an external collaborator (spec §1):
// it owns XML tokenization only, never YIN vocabulary or semantics.
package yin

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Namespace is the YIN namespace URI; root children outside it are
// ignored by the module loader's Pass 1 (spec §4.5). The node builders
// do not check namespaces.
const Namespace = "urn:ietf:params:xml:ns:yang:yin:1"

// Element is one XML element in the tree handed to the core. Line is
// the 1-based source line the element's start tag appeared on, used to
// stamp every diagnostic (spec §6).
type Element struct {
	Name      string
	Namespace string
	Attr      map[string]string
	Children  []*Element
	Text      string
	Line      int

	parent *Element
}

// Parent returns the enclosing element, or nil for the document root.
func (e *Element) Parent() *Element { return e.parent }

// Attribute returns the named attribute's value and whether it was
// present at all (an empty-but-present attribute and a missing one are
// distinguishable, which spec §4.3's "name present and non-empty" check
// relies on).
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.Attr[name]
	return v, ok
}

// ChildrenNamed returns the direct children with local name == name,
// in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildNamed returns the first direct child with local name == name,
// or nil.
func (e *Element) ChildNamed(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Detach removes e from its parent's Children slice. It is a no-op if
// e has no parent (the document root) or has already been detached.
// Node builders use this to implement the "children are detached from
// the input XML and moved onto a scratch list" step of the three-pass
// discipline (spec §4.4) without needing a second representation of
// "already consumed".
func (e *Element) Detach() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.Children
	for i, c := range siblings {
		if c == e {
			e.parent.Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Read parses an XML document into an Element tree rooted at the
// document element. It performs no YIN-vocabulary validation: any
// well-formed XML document round-trips through Read.
func Read(r io.Reader) (*Element, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yin: read: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(content))
	lineOf := func(off int64) int { return 1 + bytes.Count(content[:off], []byte{'\n'}) }

	var (
		root  *Element
		stack []*Element
	)

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("yin: xml decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:      t.Name.Local,
				Namespace: t.Name.Space,
				Attr:      make(map[string]string, len(t.Attr)),
			}
			el.Line = lineOf(off)
			for _, a := range t.Attr {
				el.Attr[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.parent = parent
				parent.Children = append(parent.Children, el)
			} else {
				root = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("yin: empty document")
	}
	return root, nil
}

// ArgText returns the text argument of a statement whose value is
// carried on a <text> child per the YIN text-argument convention
// (RFC 6020 §14, e.g. <description><text>...</text></description>),
// grounded on original_source/src/parser/yin.c's read_yin_text.
func ArgText(el *Element) string {
	if t := el.ChildNamed("text"); t != nil {
		return t.Text
	}
	return el.Text
}
