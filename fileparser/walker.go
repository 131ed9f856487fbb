package fileparser

import (
	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// scope carries the two pieces of context a recursive-descent visit needs:
// outer is the nearest enclosing entity (reflected or not) used to build
// FullName/Outer chains, and addChild places a newly reflected top-level
// entity in the right container. addChild == nil means "top-level": append
// directly to the walker's ParsingResult.
type scope struct {
	outer    entity.Entity
	addChild func(entity.Entity)
}

// walker holds per-Parse mutable state; a fresh one is created for every
// Parser.Parse call so concurrent clones never share it.
type walker struct {
	parser  *Parser
	result  *entity.ParsingResult
	syntax  properties.Syntax
	aborted bool
}

func (w *walker) place(s scope, e entity.Entity) {
	if s.addChild != nil {
		s.addChild(e)
		return
	}
	w.result.AddEntity(e)
}

// addError records a parsing error and, under shouldAbortOnFirstError,
// marks the walk as aborted so walkChildren stops at the next opportunity -
// "no later than the cursor immediately following the offending
// annotation" per §8.
func (w *walker) addError(err entity.ParsingError) {
	w.result.AddError(err)
	if w.parser.Settings.ShouldAbortOnFirstError {
		w.aborted = true
	}
}

// parseAndValidate decodes an annotation payload and runs it through the
// rule registry against ent. ok is false if the property was malformed or
// rejected, in which case an error has already been recorded and the
// caller must not add ent to its container.
func (w *walker) parseAndValidate(tag, payload string, loc entity.SourceLocation, ent entity.Entity) (properties.Group, bool) {
	kind, known := tagToKind(tag)
	if !known {
		return properties.Group{}, false
	}

	group, err := properties.Parse(payload, kind, w.syntax)
	if err != nil {
		w.addError(entity.ParsingError{Kind: entity.ErrMalformedProperty, Location: loc, Message: err.Error()})
		return properties.Group{}, false
	}

	if registry := w.parser.Settings.Registry; registry != nil {
		if verr := registry.Validate(group, ent); verr != nil {
			if asValidation, ok := verr.(*properties.ValidationError); ok {
				w.addError(entity.ParsingError{Kind: errKindFor(asValidation), Location: loc, Message: asValidation.Error()})
			} else {
				w.addError(entity.ParsingError{Kind: entity.ErrRuleRejected, Location: loc, Message: verr.Error()})
			}
			return group, false
		}
	}

	return group, true
}

// walkChildren visits cur's direct children, dispatching on kind. It is
// called once for the translation unit root and recursively for every
// namespace cursor (visitClass and visitEnum walk their own children).
func (w *walker) walkChildren(cur astsource.Cursor, s scope) {
	cur.VisitChildren(func(child astsource.Cursor) astsource.VisitResult {
		if w.aborted {
			return astsource.VisitBreak
		}
		if !child.IsFromMainFile() {
			return astsource.VisitContinue
		}

		// visitNamespace/visitClass/visitEnum/visitFunction each perform
		// their own explicit recursion into child's children (with the
		// correctly narrowed scope: visitNamespace calls w.walkChildren
		// itself, visitClass/visitEnum call child.VisitChildren
		// themselves), so dispatching to one of them must be followed by
		// VisitContinue, never VisitRecurse - VisitRecurse would make the
		// indexer ALSO auto-descend into child's children using this same
		// top-level closure, re-entering it with the stale outer scope s
		// instead of the sub-parser's own narrowed scope, double-visiting
		// and mis-scoping any namespace containing a class or any class
		// containing a nested class/enum.
		recursed := false
		switch child.Kind() {
		case astsource.CursorNamespace:
			w.visitNamespace(child, s)
			recursed = true
		case astsource.CursorClassDecl, astsource.CursorStructDecl:
			w.visitClass(child, s)
			recursed = true
		case astsource.CursorEnumDecl:
			w.visitEnum(child, s)
			recursed = true
		case astsource.CursorFunctionDecl:
			w.visitFunction(child, s)
			recursed = true
		default:
			// FieldDecl/CXXMethod/ParmDecl/CXXBaseSpecifier/EnumConstantDecl
			// are only meaningful as direct children of a class/enum and are
			// consumed by visitClass/visitEnum, never seen at this level.
			// Anything else (linkage-spec blocks, unexposed wrapper
			// cursors, ...) falls through to VisitRecurse below so a
			// namespace/class nested inside one is still found.
		}

		if w.aborted {
			return astsource.VisitBreak
		}
		if recursed {
			return astsource.VisitContinue
		}
		return astsource.VisitRecurse
	})
}
