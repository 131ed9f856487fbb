package entity

import "github.com/go-kodgen/kodgen/properties"

// Enum represents an enum declaration and its ordered enumerators.
type Enum struct {
	base
	UnderlyingType TypeRef
	EnumValues     []*EnumValue
}

// NewEnum creates a reflected enum entity.
func NewEnum(name string, underlying TypeRef, outer Entity, loc SourceLocation, props []properties.Group) *Enum {
	return &Enum{base: newBase(KindEnum, name, outer, loc, props), UnderlyingType: underlying}
}

// AddValue appends an enumerator in source-textual order.
func (e *Enum) AddValue(v *EnumValue) { e.EnumValues = append(e.EnumValues, v) }

// EnumValue represents a single enumerator.
type EnumValue struct {
	base
	// Value is the string fileparser passes to NewEnumValue, which is the
	// enumerator's own spelling; neither the constant expression as written
	// nor the resolved integral value is captured.
	Value string
}

// NewEnumValue creates a reflected enumerator entity.
func NewEnumValue(name, value string, outer Entity, loc SourceLocation, props []properties.Group) *EnumValue {
	return &EnumValue{base: newBase(KindEnumValue, name, outer, loc, props), Value: value}
}
