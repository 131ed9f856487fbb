// Package astsource declares the capability-set interfaces fileparser
// traverses to reflect entities out of a translation unit, without binding
// to any particular indexer. clangsource implements this against
// github.com/go-clang/v14/clang (grounded on
// other_examples/3b0313b0_abduld-clang-server__parser-parser.go.go's
// idx.ParseTranslationUnit2/Cursor.Visit usage); astsourcetest implements it
// as an in-memory fake cursor tree for tests that never touch libclang.
package astsource

import (
	"context"

	"github.com/go-kodgen/kodgen/entity"
)

// Source is the top-level indexer entry point - one Source per compiler
// identity/version.
type Source interface {
	// CreateIndex opens a new indexing session. Callers must Dispose it.
	CreateIndex() (Index, error)
}

// Index parses translation units sharing compilation settings.
type Index interface {
	// ParseFile parses the file at path with the given compiler arguments
	// (include paths, defined macros, language standard flags, ...).
	ParseFile(ctx context.Context, path string, args []string) (TranslationUnit, error)

	// Dispose releases the index and every TranslationUnit it produced.
	Dispose()
}

// TranslationUnit is one parsed file plus everything it transitively
// included.
type TranslationUnit interface {
	// Cursor returns the root cursor, covering the entire file.
	Cursor() Cursor

	// Diagnostics reports compiler diagnostics collected while parsing;
	// fileparser logs those of Error severity or above as warnings and does
	// not record them as parsing errors.
	Diagnostics() []Diagnostic

	// Dispose releases the translation unit's resources.
	Dispose()
}

// Diagnostic is a single compiler diagnostic message.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Location entity.SourceLocation
	Message  string
}

// DiagnosticSeverity mirrors libclang's CXDiagnosticSeverity ordering.
type DiagnosticSeverity int

const (
	DiagnosticIgnored DiagnosticSeverity = iota
	DiagnosticNote
	DiagnosticWarning
	DiagnosticError
	DiagnosticFatal
)

// CursorKind identifies the declaration/statement kind a Cursor points at.
// Only the subset fileparser switches on is named; anything else reports
// CursorOther.
type CursorKind int

const (
	CursorOther CursorKind = iota
	CursorNamespace
	CursorClassDecl
	CursorStructDecl
	CursorFieldDecl
	CursorCXXMethod
	CursorFunctionDecl
	CursorEnumDecl
	CursorEnumConstantDecl
	CursorParmDecl
	CursorAnnotateAttr
	CursorCXXBaseSpecifier
	CursorTranslationUnit
)

func (k CursorKind) String() string {
	switch k {
	case CursorNamespace:
		return "Namespace"
	case CursorClassDecl:
		return "ClassDecl"
	case CursorStructDecl:
		return "StructDecl"
	case CursorFieldDecl:
		return "FieldDecl"
	case CursorCXXMethod:
		return "CXXMethod"
	case CursorFunctionDecl:
		return "FunctionDecl"
	case CursorEnumDecl:
		return "EnumDecl"
	case CursorEnumConstantDecl:
		return "EnumConstantDecl"
	case CursorParmDecl:
		return "ParmDecl"
	case CursorAnnotateAttr:
		return "AnnotateAttr"
	case CursorCXXBaseSpecifier:
		return "CXXBaseSpecifier"
	case CursorTranslationUnit:
		return "TranslationUnit"
	default:
		return "Other"
	}
}

// VisitResult steers Cursor.VisitChildren, mirroring libclang's
// CXChildVisitResult (clang.ChildVisit_{Break,Continue,Recurse} in the
// clang-server reference).
type VisitResult int

const (
	VisitBreak VisitResult = iota
	VisitContinue
	VisitRecurse
)

// TypeRef is the subset of a resolved clang type fileparser needs to build
// entity.TypeRef; kept here (rather than importing entity.TypeRef directly)
// so astsource has no dependency the other direction either.
type TypeRef struct {
	CanonicalName string
	Name          string
	IsConst       bool
	IsPointer     bool
	IsLValueRef   bool
}

// Cursor is one AST node. Every field/method mirrors the handful of
// clang.Cursor accessors fileparser actually consumes.
type Cursor interface {
	Kind() CursorKind

	// Spelling is the cursor's bare name ("foo"); FullyQualifiedName
	// includes enclosing namespaces/classes ("ns::Outer::foo").
	Spelling() string
	FullyQualifiedName() string

	Location() entity.SourceLocation

	// IsFromMainFile reports whether the cursor originates in the file
	// passed to Index.ParseFile, as opposed to an #include.
	IsFromMainFile() bool

	// VisitChildren walks direct children in source-textual order, calling
	// fn for each; VisitBreak stops the whole walk, VisitContinue skips the
	// subtree, VisitRecurse descends into it first.
	VisitChildren(fn func(Cursor) VisitResult)

	Type() TypeRef

	Access() entity.AccessSpecifier

	// IsStatic/IsConst/IsVirtual report member-function (or static data
	// member, for IsStatic) qualifiers; meaningless, and always false, on
	// cursor kinds that don't carry them.
	IsStatic() bool
	IsConst() bool
	IsVirtual() bool

	// AnnotateAttr reports the first __attribute__((annotate(...))) child
	// of this cursor, split into its KGx tag and raw property payload
	// (e.g. tag "KGC", payload "Data,Get[const]"). ok is false when the
	// cursor carries no annotation.
	AnnotateAttr() (tag string, payload string, ok bool)
}
