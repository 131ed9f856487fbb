// Package astsourcetest is an in-memory astsource.Source fake: it builds
// Cursor trees from a small struct-literal DSL so fileparser can be unit
// tested without libclang. Grounded on the same capability-set shape as
// clangsource, substituting a plain tree walk for libclang's cursor
// traversal.
package astsourcetest

import (
	"context"
	"fmt"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
)

// Node is one fake AST node, built up as a Go struct literal in test files,
// e.g.:
//
//	Node{Kind: astsource.CursorStructDecl, Name: "Foo", Annotation: "KGS", Payload: "Data",
//	    Children: []Node{
//	        {Kind: astsource.CursorFieldDecl, Name: "bar", Annotation: "KGF", Payload: "Get"},
//	    },
//	}
type Node struct {
	Kind   astsource.CursorKind
	Name   string // Spelling; FullyQualifiedName is computed from nesting
	Line   uint32
	Column uint32
	// ExternalFile marks a node as originating outside the main file (e.g.
	// an #include'd declaration), so IsFromMainFile() reports false for it
	// and its descendants. Zero value means "in the main file", which is
	// what every node in a typical fake tree is.
	ExternalFile bool

	// Annotation/Payload populate AnnotateAttr: Annotation is the KGx tag,
	// Payload is the raw property group text. Annotation == "" means no
	// annotation attribute is present on this node.
	Annotation string
	Payload    string

	Type   astsource.TypeRef
	Access entity.AccessSpecifier

	Static  bool
	Const   bool
	Virtual bool

	Children []Node
}

// Source is the fake astsource.Source. Files maps a path to the root node's
// children (the translation unit's top-level declarations).
type Source struct {
	Files map[string][]Node
}

// New creates a fake Source from a path -> top-level-declarations map.
func New(files map[string][]Node) *Source {
	return &Source{Files: files}
}

func (s *Source) CreateIndex() (astsource.Index, error) {
	return &index{source: s}, nil
}

type index struct {
	source *Source
}

func (idx *index) ParseFile(_ context.Context, path string, _ []string) (astsource.TranslationUnit, error) {
	children, ok := idx.source.Files[path]
	if !ok {
		return nil, fmt.Errorf("astsourcetest: no fake file registered for %q", path)
	}
	root := &cursor{
		node:     Node{Kind: astsource.CursorTranslationUnit, Children: children},
		path:     path,
		mainFile: true,
	}
	return &translationUnit{root: root}, nil
}

func (idx *index) Dispose() {}

type translationUnit struct {
	root *cursor
}

func (tu *translationUnit) Cursor() astsource.Cursor            { return tu.root }
func (tu *translationUnit) Diagnostics() []astsource.Diagnostic { return nil }
func (tu *translationUnit) Dispose()                            {}

// cursor is the fake astsource.Cursor: a Node plus the fully-qualified name
// prefix inherited from its parent.
type cursor struct {
	node       Node
	path       string
	qualPrefix string
	mainFile   bool
}

func (c *cursor) Kind() astsource.CursorKind { return c.node.Kind }
func (c *cursor) Spelling() string           { return c.node.Name }

func (c *cursor) FullyQualifiedName() string {
	if c.qualPrefix == "" {
		return c.node.Name
	}
	if c.node.Name == "" {
		return c.qualPrefix
	}
	return c.qualPrefix + "::" + c.node.Name
}

func (c *cursor) Location() entity.SourceLocation {
	return entity.SourceLocation{File: c.path, Line: c.node.Line, Column: c.node.Column}
}

func (c *cursor) IsFromMainFile() bool { return c.mainFile }

func (c *cursor) VisitChildren(fn func(astsource.Cursor) astsource.VisitResult) {
	prefix := c.FullyQualifiedName()
	if c.node.Kind == astsource.CursorTranslationUnit {
		prefix = ""
	}
	for _, child := range c.node.Children {
		childCursor := &cursor{node: child, path: c.path, qualPrefix: prefix, mainFile: c.mainFile && !child.ExternalFile}
		result := fn(childCursor)
		if result == astsource.VisitBreak {
			return
		}
	}
}

func (c *cursor) Type() astsource.TypeRef { return c.node.Type }

func (c *cursor) Access() entity.AccessSpecifier { return c.node.Access }

func (c *cursor) IsStatic() bool  { return c.node.Static }
func (c *cursor) IsConst() bool   { return c.node.Const }
func (c *cursor) IsVirtual() bool { return c.node.Virtual }

func (c *cursor) AnnotateAttr() (tag string, payload string, ok bool) {
	if c.node.Annotation == "" {
		return "", "", false
	}
	return c.node.Annotation, c.node.Payload, true
}
