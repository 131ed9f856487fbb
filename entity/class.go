package entity

import "github.com/go-kodgen/kodgen/properties"

// Class represents a class or struct declaration. Struct-ness is tracked
// via IsStruct rather than a separate Go type, mirroring the original
// ClassParser's handling of both CXCursor_ClassDecl and
// CXCursor_StructDecl through one code path (FileParser.parseClass).
type Class struct {
	base
	IsStruct bool
	IsFinal  bool
	Bases    []Base
	Fields   []*Field
	Methods  []*Method
	Nested   []Entity

	// SizeHint / AlignHint are populated only when the AstSource surfaces
	// them (libclang can report sizeof/alignof for complete types); zero
	// means "unavailable", not "zero-sized".
	SizeHint  int64
	AlignHint int64
}

// NewClass creates a reflected class or struct entity.
func NewClass(name string, isStruct bool, outer Entity, loc SourceLocation, props []properties.Group) *Class {
	return &Class{base: newBase(kindFor(isStruct), name, outer, loc, props), IsStruct: isStruct}
}

func kindFor(isStruct bool) Kind {
	if isStruct {
		return KindStruct
	}
	return KindClass
}

// Field represents a class/struct data member or a static variable scoped
// to it.
type Field struct {
	base
	Type      TypeRef
	Access    AccessSpecifier
	IsStatic  bool
	IsMutable bool
}

// NewField creates a reflected field entity.
func NewField(name string, typ TypeRef, access AccessSpecifier, isStatic, isMutable bool, outer Entity, loc SourceLocation, props []properties.Group) *Field {
	return &Field{
		base:      newBase(KindField, name, outer, loc, props),
		Type:      typ,
		Access:    access,
		IsStatic:  isStatic,
		IsMutable: isMutable,
	}
}

// Param is a single method/function parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Method represents a class/struct member function.
type Method struct {
	base
	ReturnType TypeRef
	Params     []Param
	Access     AccessSpecifier
	IsStatic   bool
	IsConst    bool
	IsVirtual  bool
}

// NewMethod creates a reflected method entity.
func NewMethod(name string, ret TypeRef, params []Param, access AccessSpecifier, isStatic, isConst, isVirtual bool, outer Entity, loc SourceLocation, props []properties.Group) *Method {
	return &Method{
		base:       newBase(KindMethod, name, outer, loc, props),
		ReturnType: ret,
		Params:     params,
		Access:     access,
		IsStatic:   isStatic,
		IsConst:    isConst,
		IsVirtual:  isVirtual,
	}
}

// Function represents a free (non-member) function.
type Function struct {
	base
	ReturnType TypeRef
	Params     []Param
}

// NewFunction creates a reflected free-function entity.
func NewFunction(name string, ret TypeRef, params []Param, outer Entity, loc SourceLocation, props []properties.Group) *Function {
	return &Function{base: newBase(KindFunction, name, outer, loc, props), ReturnType: ret, Params: params}
}

// AddField/AddMethod/AddNested append in source-textual order.
func (c *Class) AddField(f *Field)   { c.Fields = append(c.Fields, f) }
func (c *Class) AddMethod(m *Method) { c.Methods = append(c.Methods, m) }
func (c *Class) AddNested(e Entity)  { c.Nested = append(c.Nested, e) }
