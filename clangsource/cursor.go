//go:build clang

package clangsource

import (
	"strings"

	"github.com/go-clang/v14/clang"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
)

type cursorAdapter struct {
	cursor   clang.Cursor
	mainFile string
}

func (c *cursorAdapter) Kind() astsource.CursorKind {
	return cursorKind(c.cursor.Kind())
}

func cursorKind(k clang.CursorKind) astsource.CursorKind {
	switch k {
	case clang.Cursor_Namespace:
		return astsource.CursorNamespace
	case clang.Cursor_ClassDecl:
		return astsource.CursorClassDecl
	case clang.Cursor_StructDecl:
		return astsource.CursorStructDecl
	case clang.Cursor_FieldDecl:
		return astsource.CursorFieldDecl
	case clang.Cursor_CXXMethod:
		return astsource.CursorCXXMethod
	case clang.Cursor_FunctionDecl:
		return astsource.CursorFunctionDecl
	case clang.Cursor_EnumDecl:
		return astsource.CursorEnumDecl
	case clang.Cursor_EnumConstantDecl:
		return astsource.CursorEnumConstantDecl
	case clang.Cursor_ParmDecl:
		return astsource.CursorParmDecl
	case clang.Cursor_AnnotateAttr:
		return astsource.CursorAnnotateAttr
	case clang.Cursor_CXXBaseSpecifier:
		return astsource.CursorCXXBaseSpecifier
	case clang.Cursor_TranslationUnit:
		return astsource.CursorTranslationUnit
	default:
		return astsource.CursorOther
	}
}

func (c *cursorAdapter) Spelling() string {
	return c.cursor.Spelling()
}

func (c *cursorAdapter) FullyQualifiedName() string {
	var parts []string
	cur := c.cursor
	for {
		if cur.IsNull() || cursorKind(cur.Kind()) == astsource.CursorTranslationUnit {
			break
		}
		name := cur.Spelling()
		if name != "" {
			parts = append([]string{name}, parts...)
		}
		cur = cur.SemanticParent()
	}
	return strings.Join(parts, "::")
}

func (c *cursorAdapter) Location() entity.SourceLocation {
	file, line, column, _ := c.cursor.Location().FileLocation()
	return entity.SourceLocation{File: file.Name(), Line: uint32(line), Column: uint32(column)}
}

func (c *cursorAdapter) IsFromMainFile() bool {
	file, _, _, _ := c.cursor.Location().FileLocation()
	return file.Name() == c.mainFile
}

func (c *cursorAdapter) VisitChildren(fn func(astsource.Cursor) astsource.VisitResult) {
	c.cursor.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		child := &cursorAdapter{cursor: cursor, mainFile: c.mainFile}
		switch fn(child) {
		case astsource.VisitBreak:
			return clang.ChildVisit_Break
		case astsource.VisitRecurse:
			return clang.ChildVisit_Recurse
		default:
			return clang.ChildVisit_Continue
		}
	})
}

func (c *cursorAdapter) Type() astsource.TypeRef {
	t := c.cursor.Type()
	canonical := t.CanonicalType()
	return astsource.TypeRef{
		CanonicalName: canonical.Spelling(),
		Name:          t.Spelling(),
		IsConst:       t.IsConstQualifiedType(),
		IsPointer:     t.Kind() == clang.Type_Pointer,
		IsLValueRef:   t.Kind() == clang.Type_LValueReference,
	}
}

func (c *cursorAdapter) IsStatic() bool {
	return c.cursor.CXXMethod_IsStatic() || c.cursor.StorageClass() == clang.SC_Static
}

func (c *cursorAdapter) IsConst() bool {
	return c.cursor.CXXMethod_IsConst()
}

func (c *cursorAdapter) IsVirtual() bool {
	return c.cursor.CXXMethod_IsVirtual()
}

func (c *cursorAdapter) Access() entity.AccessSpecifier {
	switch c.cursor.CXXAccessSpecifier() {
	case clang.CXXPublic:
		return entity.AccessPublic
	case clang.CXXProtected:
		return entity.AccessProtected
	case clang.CXXPrivate:
		return entity.AccessPrivate
	default:
		return entity.AccessUnspecified
	}
}

// AnnotateAttr finds the first AnnotateAttr child and splits its spelling
// "KGx:payload" into tag and payload. The attribute text comes from the -D
// macro rewrites (config.MacroNames.CompilerArgsMacroDefs) that
// fileparser.Parser.Parse passes to ParseFile, which turn each annotation
// macro into an annotate attribute.
func (c *cursorAdapter) AnnotateAttr() (tag string, payload string, ok bool) {
	var found string
	c.cursor.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		if found != "" {
			return clang.ChildVisit_Break
		}
		if cursorKind(cursor.Kind()) == astsource.CursorAnnotateAttr {
			found = cursor.Spelling()
			return clang.ChildVisit_Break
		}
		return clang.ChildVisit_Continue
	})
	if found == "" {
		return "", "", false
	}
	tag, payload, ok = strings.Cut(found, ":")
	if !ok {
		return found, "", true
	}
	return tag, payload, true
}
