package fileparser

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// visitNamespace mirrors the original NamespaceParser.cpp: a namespace
// always contributes a scope prefix to its children's qualified names, but
// only becomes a reflected entity - present in its container's child list -
// when it carries a KGN annotation.
func (w *walker) visitNamespace(cur astsource.Cursor, s scope) {
	loc := cur.Location()
	ns := entity.NewNamespace(cur.Spelling(), s.outer, loc, nil)

	childScope := scope{outer: ns, addChild: s.addChild}

	if tag, payload, ok := cur.AnnotateAttr(); ok && tag == "KGN" {
		group, valid := w.parseAndValidate(tag, payload, loc, ns)
		if valid {
			ns.SetProperties([]properties.Group{group})
			w.place(s, ns)
			childScope = scope{outer: ns, addChild: ns.AddChild}
		}
	}

	w.walkChildren(cur, childScope)
}
