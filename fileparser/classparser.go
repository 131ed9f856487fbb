package fileparser

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// visitClass mirrors the original Source/Parsing/FileParser.cpp's class
// sub-parser: it reads the base list, fields, methods and nested types. A
// field or method takes the access its own cursor reports, or the class's
// default (private for class, public for struct) when the cursor reports
// none; access-specifier label cursors are not tracked, so a label does not
// change the access of the members after it. A class/struct only becomes a reflected entity -
// and only has its fields/methods captured - when it carries a KGC/KGS
// annotation; an unannotated class still has its nested types surfaced (so
// a KGClass buried inside an unannotated wrapper struct is still found),
// but its own members are not, since a field/method's properties are
// meaningless without a reflected owning class.
func (w *walker) visitClass(cur astsource.Cursor, s scope) {
	loc := cur.Location()
	isStruct := cur.Kind() == astsource.CursorStructDecl
	class := entity.NewClass(cur.Spelling(), isStruct, s.outer, loc, nil)

	reflected := false
	if tag, payload, ok := cur.AnnotateAttr(); ok {
		group, valid := w.parseAndValidate(tag, payload, loc, class)
		if valid {
			class.SetProperties([]properties.Group{group})
			w.place(s, class)
			reflected = true
		}
	}

	// Default access: private for `class`, public for `struct`, per C++.
	access := entity.AccessPrivate
	if isStruct {
		access = entity.AccessPublic
	}

	nestedScope := scope{outer: class, addChild: s.addChild}
	if reflected {
		nestedScope = scope{outer: class, addChild: func(e entity.Entity) { class.AddNested(e) }}
	}

	cur.VisitChildren(func(child astsource.Cursor) astsource.VisitResult {
		if w.aborted {
			return astsource.VisitBreak
		}

		switch child.Kind() {
		case astsource.CursorCXXBaseSpecifier:
			class.Bases = append(class.Bases, entity.Base{Name: child.Spelling(), Access: child.Access()})
			return astsource.VisitContinue

		case astsource.CursorFieldDecl:
			if reflected {
				w.visitField(child, class, access)
			}
			return astsource.VisitContinue

		case astsource.CursorCXXMethod:
			if reflected {
				w.visitMethod(child, class, access)
			}
			return astsource.VisitContinue

		case astsource.CursorClassDecl, astsource.CursorStructDecl:
			w.visitClass(child, nestedScope)
			return astsource.VisitContinue

		case astsource.CursorEnumDecl:
			w.visitEnum(child, nestedScope)
			return astsource.VisitContinue

		default:
			// Adapters that surface an explicit access-specifier label as
			// its own cursor (clangsource does not; astsourcetest folds
			// access into each member cursor directly) would update the
			// running `access` state here.
			return astsource.VisitContinue
		}
	})
}

func (w *walker) visitField(cur astsource.Cursor, owner *entity.Class, defaultAccess entity.AccessSpecifier) {
	loc := cur.Location()
	access := cur.Access()
	if access == entity.AccessUnspecified {
		access = defaultAccess
	}

	field := entity.NewField(cur.Spelling(), toEntityTypeRef(cur.Type()), access, cur.IsStatic(), false, owner, loc, nil)

	tag, payload, ok := cur.AnnotateAttr()
	if !ok {
		return
	}
	group, valid := w.parseAndValidate(tag, payload, loc, field)
	if !valid {
		return
	}
	field.SetProperties([]properties.Group{group})
	owner.AddField(field)
}

func (w *walker) visitMethod(cur astsource.Cursor, owner *entity.Class, defaultAccess entity.AccessSpecifier) {
	loc := cur.Location()
	access := cur.Access()
	if access == entity.AccessUnspecified {
		access = defaultAccess
	}

	var params []entity.Param
	cur.VisitChildren(func(child astsource.Cursor) astsource.VisitResult {
		if child.Kind() == astsource.CursorParmDecl {
			params = append(params, entity.Param{Name: child.Spelling(), Type: toEntityTypeRef(child.Type())})
		}
		return astsource.VisitContinue
	})

	method := entity.NewMethod(cur.Spelling(), toEntityTypeRef(cur.Type()), params, access, cur.IsStatic(), cur.IsConst(), cur.IsVirtual(), owner, loc, nil)

	tag, payload, ok := cur.AnnotateAttr()
	if !ok {
		return
	}
	group, valid := w.parseAndValidate(tag, payload, loc, method)
	if !valid {
		return
	}
	method.SetProperties([]properties.Group{group})
	owner.AddMethod(method)
}
