// Package entity defines the in-memory reflection model produced by the
// file parser: namespaces, classes/structs, fields, methods, enums and
// enum values, plus the shared attributes (qualified name, source
// location, attached properties) every kind carries.
package entity

import "github.com/go-kodgen/kodgen/properties"

// Kind tags the concrete type of an Entity.
type Kind int

const (
	KindNamespace Kind = iota
	KindClass
	KindStruct
	KindField
	KindMethod
	KindFunction
	KindEnum
	KindEnumValue
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "Namespace"
	case KindClass:
		return "Class"
	case KindStruct:
		return "Struct"
	case KindField:
		return "Field"
	case KindMethod:
		return "Method"
	case KindFunction:
		return "Function"
	case KindEnum:
		return "Enum"
	case KindEnumValue:
		return "EnumValue"
	default:
		return "Unknown"
	}
}

// AccessSpecifier mirrors the C++ class member access levels.
type AccessSpecifier int

const (
	AccessUnspecified AccessSpecifier = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// SourceLocation pinpoints a declaration in the original C/C++ text.
type SourceLocation struct {
	File   string
	Line   uint32
	Column uint32
}

// Entity is the common capability set every reflected declaration
// implements. outerEntity back-references are realized by storing a plain
// pointer to the enclosing concrete type (see ParsingResult) rather than an owning
// value - Go's GC makes the arena+index trick from the original C++ design
// unnecessary for memory safety, but entities still live in one arena per
// ParsingResult and are never copied once created, so identity holds.
type Entity interface {
	Kind() Kind
	Name() string
	FullName() string
	Outer() (Entity, bool)
	Location() SourceLocation
	Properties() []properties.Group
}

// base is embedded by every concrete entity and implements the common
// Entity methods. It is never used as a standalone value.
type base struct {
	kind       Kind
	name       string
	fullName   string
	outer      Entity
	location   SourceLocation
	properties []properties.Group
}

func (b *base) Kind() Kind                     { return b.kind }
func (b *base) Name() string                   { return b.name }
func (b *base) FullName() string               { return b.fullName }
func (b *base) Location() SourceLocation       { return b.location }
func (b *base) Properties() []properties.Group { return b.properties }
func (b *base) Outer() (Entity, bool) {
	if b.outer == nil {
		return nil, false
	}
	return b.outer, true
}

// SetProperties attaches the property groups parsed from this entity's
// annotation. Constructors take props upfront for the common case; the
// setter exists because fileparser must pass the half-built entity into
// Rule.IsEntityValid before it knows whether validation will succeed.
func (b *base) SetProperties(props []properties.Group) { b.properties = props }

// newBase builds the qualified FullName from outer.FullName() + "::" + name,
// preserving the invariant that outerEntity is consistent with fullName's
// qualified prefix.
func newBase(kind Kind, name string, outer Entity, loc SourceLocation, props []properties.Group) base {
	full := name
	if outer != nil {
		if of := outer.FullName(); of != "" {
			full = of + "::" + name
		}
	}
	return base{kind: kind, name: name, fullName: full, outer: outer, location: loc, properties: props}
}
