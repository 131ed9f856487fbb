package fileparser

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// visitEnum captures an enum declaration and its enumerators; like classes,
// an enum only becomes a reflected entity - and only has its values
// captured - when it carries a KGE annotation.
func (w *walker) visitEnum(cur astsource.Cursor, s scope) {
	loc := cur.Location()
	e := entity.NewEnum(cur.Spelling(), toEntityTypeRef(cur.Type()), s.outer, loc, nil)

	reflected := false
	if tag, payload, ok := cur.AnnotateAttr(); ok {
		group, valid := w.parseAndValidate(tag, payload, loc, e)
		if valid {
			e.SetProperties([]properties.Group{group})
			w.place(s, e)
			reflected = true
		}
	}

	if !reflected {
		return
	}

	cur.VisitChildren(func(child astsource.Cursor) astsource.VisitResult {
		if child.Kind() != astsource.CursorEnumConstantDecl {
			return astsource.VisitContinue
		}

		valueLoc := child.Location()
		value := entity.NewEnumValue(child.Spelling(), child.Spelling(), e, valueLoc, nil)

		tag, payload, ok := child.AnnotateAttr()
		if !ok {
			// Symmetric with fields/methods: an enumerator only becomes a
			// reflected EnumValue entity when it carries its own KGEV
			// annotation; a KGEnum-reflected enum's un-annotated constants
			// are traversed but not added.
			return astsource.VisitContinue
		}
		group, valid := w.parseAndValidate(tag, payload, valueLoc, value)
		if !valid {
			return astsource.VisitContinue
		}
		value.SetProperties([]properties.Group{group})
		e.AddValue(value)
		return astsource.VisitContinue
	})
}
