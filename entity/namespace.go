package entity

import "github.com/go-kodgen/kodgen/properties"

// Namespace is an ordered container of child entities. A namespace cursor
// that carries no annotation still contributes a scope prefix to its
// children's FullName even though it is not itself present in a
// ParsingResult's top-level entity list (see fileparser).
type Namespace struct {
	base
	Children []Entity
}

// NewNamespace creates a reflected namespace entity.
func NewNamespace(name string, outer Entity, loc SourceLocation, props []properties.Group) *Namespace {
	return &Namespace{base: newBase(KindNamespace, name, outer, loc, props)}
}

// AddChild appends a child entity in source-textual order.
func (n *Namespace) AddChild(e Entity) {
	n.Children = append(n.Children, e)
}
