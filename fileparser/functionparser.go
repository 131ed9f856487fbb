package fileparser

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// visitFunction captures a free (non-member) function, requiring its own
// KGFN annotation to become a reflected Function entity.
func (w *walker) visitFunction(cur astsource.Cursor, s scope) {
	loc := cur.Location()

	var params []entity.Param
	cur.VisitChildren(func(child astsource.Cursor) astsource.VisitResult {
		if child.Kind() == astsource.CursorParmDecl {
			params = append(params, entity.Param{Name: child.Spelling(), Type: toEntityTypeRef(child.Type())})
		}
		return astsource.VisitContinue
	})

	fn := entity.NewFunction(cur.Spelling(), toEntityTypeRef(cur.Type()), params, s.outer, loc, nil)

	tag, payload, ok := cur.AnnotateAttr()
	if !ok {
		return
	}
	group, valid := w.parseAndValidate(tag, payload, loc, fn)
	if !valid {
		return
	}
	fn.SetProperties([]properties.Group{group})
	w.place(s, fn)
}
