// Package yerr implements the diagnostic taxonomy of spec §7, one
// constructor per error kind, each returning an RFC 6241-shaped
// application error built on github.com/danos/mgmterror — the same
// library and constructor-per-diagnostic idiom as the teacher's
// schema/errors.go.
package yerr

import (
	"fmt"

	"github.com/danos/mgmterror"
	"github.com/danos/utils/pathutil"

	"github.com/openyin/yincore/internal/yin"
)

// Kind names the stable taxonomy of spec §7. It is attached to every
// error returned by this package so callers can switch on it without
// string-matching mgmterror's human-readable Message.
type Kind string

const (
	MissArg     Kind = "MISSARG"
	MissStmt2   Kind = "MISSSTMT2"
	TooMany     Kind = "TOOMANY"
	InStmt      Kind = "INSTMT"
	InArg       Kind = "INARG"
	InPrefix    Kind = "INPREFIX"
	EnumDupName Kind = "ENUM_DUPNAME"
	EnumDupVal  Kind = "ENUM_DUPVAL"
	EnumWS      Kind = "ENUM_WS"
	KeyMiss     Kind = "KEY_MISS"
	KeyDup      Kind = "KEY_DUP"
	KeyNLeaf    Kind = "KEY_NLEAF"
	KeyType     Kind = "KEY_TYPE"
	KeyConfig   Kind = "KEY_CONFIG"
	EValid      Kind = "EVALID"
	EFatal      Kind = "EFATAL"
)

// Error is a taxonomy-tagged diagnostic. It wraps the mgmterror value
// that carries the RFC 6241 rpc-error encoding so callers that only
// want the Go error string need do nothing special, while callers
// inspecting the taxonomy can type-assert or call Kind().
type Error struct {
	kind  Kind
	line  int
	inner error
}

func (e *Error) Error() string {
	if e.line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.line, e.kind, e.inner)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.inner)
}

func (e *Error) Unwrap() error { return e.inner }

// Kind returns the taxonomy tag, for callers that branch on it (e.g.
// the property tests of spec §8 asserting a specific failure kind).
func (e *Error) Kind() Kind { return e.kind }

// Line returns the source line of the XML element that triggered the
// diagnostic, or 0 if unknown.
func (e *Error) Line() int { return e.line }

func wrap(kind Kind, el *yin.Element, inner error) *Error {
	line := 0
	if el != nil {
		line = el.Line
	}
	return &Error{kind: kind, line: line, inner: inner}
}

func path(el *yin.Element) string {
	if el == nil {
		return ""
	}
	var names []string
	for cur := el; cur != nil; cur = cur.Parent() {
		names = append([]string{cur.Name}, names...)
	}
	return pathutil.Pathstr(names)
}

// MissingArg reports a required attribute absent from stmt.
func MissingArg(el *yin.Element, attr, stmt string) *Error {
	e := mgmterror.NewMissingElementApplicationError(attr)
	e.Path = path(el)
	e.Message = fmt.Sprintf("statement %q requires attribute %q", stmt, attr)
	return wrap(MissArg, el, e)
}

// MissingStmt reports a required child statement absent from parent.
func MissingStmt(el *yin.Element, child, parent string) *Error {
	e := mgmterror.NewMissingElementApplicationError(child)
	e.Path = path(el)
	e.Message = fmt.Sprintf("statement %q requires child %q", parent, child)
	return wrap(MissStmt2, el, e)
}

// TooManyStmt reports a singleton statement occurring more than once.
func TooManyStmt(el *yin.Element, stmt string) *Error {
	p := path(el)
	e := mgmterror.NewTooManyElementsError(p)
	e.Path = p
	e.Message = fmt.Sprintf("statement %q may occur at most once", stmt)
	return wrap(TooMany, el, e)
}

// InvalidStmt reports an unknown or contextually invalid statement.
func InvalidStmt(el *yin.Element, stmt string) *Error {
	e := mgmterror.NewUnknownElementApplicationError(stmt)
	e.Path = path(el)
	e.Message = fmt.Sprintf("unexpected statement %q", stmt)
	return wrap(InStmt, el, e)
}

// InvalidArg reports an invalid attribute value, including an
// unresolved reference.
func InvalidArg(el *yin.Element, value, context string) *Error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("invalid value %q for %s", value, context)
	return wrap(InArg, el, e)
}

// InvalidPrefix reports a prefix not bound in the current scope.
func InvalidPrefix(el *yin.Element, prefix string) *Error {
	e := mgmterror.NewUnknownElementApplicationError(prefix)
	e.Path = path(el)
	e.Message = fmt.Sprintf("prefix %q is not bound in this module", prefix)
	return wrap(InPrefix, el, e)
}

// EnumDupName reports two enum siblings sharing a name.
func EnumDupName(el *yin.Element, name string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("enum name %q is not unique among siblings", name)
	return wrap(EnumDupName, el, e)
}

// EnumDupVal reports two enum siblings sharing an assigned value.
func EnumDupVal(el *yin.Element, value int32, name string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("enum value %d for %q collides with a prior sibling", value, name)
	return wrap(EnumDupVal, el, e)
}

// EnumWhitespace reports an enum name with leading/trailing whitespace.
func EnumWhitespace(el *yin.Element, name string) *Error {
	e := mgmterror.NewInvalidValueApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("enum name %q has leading or trailing whitespace", name)
	return wrap(EnumWS, el, e)
}

// KeyMissing reports a list key name that doesn't resolve to a leaf child.
func KeyMissing(el *yin.Element, key, list string) *Error {
	e := mgmterror.NewMissingElementApplicationError(key)
	e.Path = path(el)
	e.Message = fmt.Sprintf("list %q has no leaf child named key %q", list, key)
	return wrap(KeyMiss, el, e)
}

// KeyDuplicate reports a key name repeated within one list's key statement.
func KeyDuplicate(el *yin.Element, key, list string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("key %q is repeated in list %q", key, list)
	return wrap(KeyDup, el, e)
}

// KeyNotLeaf reports a key name resolving to a non-leaf child.
func KeyNotLeaf(el *yin.Element, key, list string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("key %q of list %q does not refer to a leaf", key, list)
	return wrap(KeyNLeaf, el, e)
}

// KeyEmptyType reports a key leaf whose type is the built-in empty type.
func KeyEmptyType(el *yin.Element, key, list string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("key %q of list %q must not have type empty", key, list)
	return wrap(KeyType, el, e)
}

// KeyConfigMismatch reports a key leaf whose config flag differs from its list's.
func KeyConfigMismatch(el *yin.Element, key, list string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = fmt.Sprintf("key %q of list %q must share the list's config flag", key, list)
	return wrap(KeyConfig, el, e)
}

// Invalid reports a generic structural error: missing required root
// attributes, or a failed import/include resolution.
func Invalid(el *yin.Element, msg string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Path = path(el)
	e.Message = msg
	return wrap(EValid, el, e)
}

// Fatal reports an allocation failure or programming invariant
// violation — never expected in normal operation.
func Fatal(msg string) *Error {
	e := mgmterror.NewOperationFailedApplicationError()
	e.Message = msg
	return wrap(EFatal, nil, e)
}
