package schema

import "github.com/openyin/yincore/internal/intern"

// BaseType is the built-in leaf kind a type chain ultimately resolves
// to (spec §3's "base" field).
type BaseType int

const (
	BaseUnknown BaseType = iota
	BaseInt8
	BaseInt16
	BaseInt32
	BaseInt64
	BaseUint8
	BaseUint16
	BaseUint32
	BaseUint64
	BaseDecimal64
	BaseString
	BaseBinary
	BaseBoolean
	BaseEmpty
	BaseEnumeration
	BaseBits
	BaseIdentityref
	BaseLeafref
	BaseInstanceIdentifier
	BaseUnion
)

func (b BaseType) String() string {
	names := map[BaseType]string{
		BaseInt8: "int8", BaseInt16: "int16", BaseInt32: "int32", BaseInt64: "int64",
		BaseUint8: "uint8", BaseUint16: "uint16", BaseUint32: "uint32", BaseUint64: "uint64",
		BaseDecimal64: "decimal64", BaseString: "string", BaseBinary: "binary",
		BaseBoolean: "boolean", BaseEmpty: "empty", BaseEnumeration: "enumeration",
		BaseBits: "bits", BaseIdentityref: "identityref", BaseLeafref: "leafref",
		BaseInstanceIdentifier: "instance-identifier", BaseUnion: "union",
	}
	if s, ok := names[b]; ok {
		return s
	}
	return "unknown"
}

// builtinBases maps every RFC 6020 built-in type name to its BaseType,
// used by resolve to short-circuit typedef lookup for unqualified names
// that name a built-in directly (spec §4.1).
var builtinBases = map[string]BaseType{
	"int8": BaseInt8, "int16": BaseInt16, "int32": BaseInt32, "int64": BaseInt64,
	"uint8": BaseUint8, "uint16": BaseUint16, "uint32": BaseUint32, "uint64": BaseUint64,
	"decimal64": BaseDecimal64, "string": BaseString, "binary": BaseBinary,
	"boolean": BaseBoolean, "empty": BaseEmpty, "enumeration": BaseEnumeration,
	"bits": BaseBits, "identityref": BaseIdentityref, "leafref": BaseLeafref,
	"instance-identifier": BaseInstanceIdentifier, "union": BaseUnion,
}

// LookupBuiltin returns the BaseType for a built-in type name, and
// whether name is in fact a built-in.
func LookupBuiltin(name string) (BaseType, bool) {
	b, ok := builtinBases[name]
	return b, ok
}

// Enum is one (name, value, status) triple of an enumeration type
// (spec §3/§4.2).
type Enum struct {
	Name        intern.Symbol
	Value       int32
	Status      Status
	Description string
	Reference   string
}

// Type is the discriminated union over built-in base kinds spec §3/§4.2
// describe. Der and Base are always populated; the kind-specific
// payload fields are populated only for the base kinds that carry one
// (spec §4.2's "structural placeholders" for the remaining kinds are
// simply left at their zero value — der/base are set, nothing else is
// claimed).
type Type struct {
	Name   string // as written in the `name` attribute, possibly prefixed
	Prefix string // retained for diagnostics only (spec §3)

	Der  *Typedef // the immediate typedef this type derives from, or BuiltinSentinel's typedef
	Base BaseType // resolved leaf built-in

	// Enumeration payload.
	Enums []*Enum

	// Identityref payload.
	IdentityBase *Identity
}

// BuiltinSentinel is the Typedef every built-in type's Der field points
// to so that der-chain walking (spec §3's "a type chain terminates at a
// built-in") always bottoms out at a real pointer instead of nil.
var BuiltinSentinel = &Typedef{Name: internBuiltinName()}

func internBuiltinName() intern.Symbol {
	s := "<builtin>"
	return &s
}

// MaxDerChainHops bounds the der-chain walk used to detect typedef
// cycles (spec §8: "walking der eventually reaches a built-in sentinel
// in <= 128 hops").
const MaxDerChainHops = 128
