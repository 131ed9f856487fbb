package fileparser

import (
	"context"
	"testing"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/astsource/astsourcetest"
	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

func newSettings(strict bool) config.ParsingSettings {
	registry := properties.NewRegistry(strict)
	registry.Register(properties.KindClass, "Data", properties.BaseRule{})
	registry.Register(properties.KindField, "Get", properties.BaseRule{})
	return config.ParsingSettings{
		Macros:   config.DefaultMacroNames(),
		Syntax:   config.Syntax{},
		Strict:   strict,
		Registry: registry,
	}
}

func TestParseSingleClassWithDataProperty(t *testing.T) {
	src := astsourcetest.New(map[string][]astsourcetest.Node{
		"SomeClass.h": {
			{
				Kind: astsource.CursorClassDecl, Name: "SomeClass", Annotation: "KGC", Payload: "Data",
				Children: []astsourcetest.Node{
					{
						Kind: astsource.CursorFieldDecl, Name: "_someFloat", Annotation: "KGF", Payload: "Get[const,*]",
						Type:   astsource.TypeRef{Name: "float", CanonicalName: "float"},
						Access: entity.AccessPrivate,
					},
				},
			},
		},
	})

	parser := New(src, newSettings(true), nil)
	result, err := parser.Parse(context.Background(), "SomeClass.h")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected 1 top-level entity, got %d", len(result.Entities))
	}

	class, ok := result.Entities[0].(*entity.Class)
	if !ok {
		t.Fatalf("expected *entity.Class, got %T", result.Entities[0])
	}
	if class.Name() != "SomeClass" {
		t.Errorf("class.Name() = %q, want SomeClass", class.Name())
	}
	if len(class.Properties()) != 1 || class.Properties()[0].Properties[0].Name != "Data" {
		t.Errorf("expected class to carry Data property, got %+v", class.Properties())
	}
	if len(class.Fields) != 1 {
		t.Fatalf("expected 1 reflected field, got %d", len(class.Fields))
	}
	field := class.Fields[0]
	if field.FullName() != "SomeClass::_someFloat" {
		t.Errorf("field.FullName() = %q, want SomeClass::_someFloat", field.FullName())
	}
	outer, ok := field.Outer()
	if !ok || outer != entity.Entity(class) {
		t.Errorf("field.Outer() should be the owning class")
	}
}

func TestUnknownPropertyStrictModeRecordsErrorAndDropsEntity(t *testing.T) {
	src := astsourcetest.New(map[string][]astsourcetest.Node{
		"Foo.h": {
			{
				Kind: astsource.CursorClassDecl, Name: "Foo", Annotation: "KGC", Payload: "Data",
				Children: []astsourcetest.Node{
					{Kind: astsource.CursorFieldDecl, Name: "bar", Annotation: "KGF", Payload: "NotARule", Line: 5},
				},
			},
		},
	})

	parser := New(src, newSettings(true), nil)
	result, err := parser.Parse(context.Background(), "Foo.h")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Kind != entity.ErrUnknownProperty {
		t.Errorf("error kind = %v, want UnknownProperty", result.Errors[0].Kind)
	}

	class := result.Entities[0].(*entity.Class)
	if len(class.Fields) != 0 {
		t.Fatalf("expected the rejected field to be dropped, got %d fields", len(class.Fields))
	}
}

func TestUnannotatedClassStillSurfacesNestedAnnotatedClass(t *testing.T) {
	src := astsourcetest.New(map[string][]astsourcetest.Node{
		"Wrapper.h": {
			{
				Kind: astsource.CursorClassDecl, Name: "Wrapper",
				Children: []astsourcetest.Node{
					{Kind: astsource.CursorClassDecl, Name: "Inner", Annotation: "KGC", Payload: "Data"},
				},
			},
		},
	})

	parser := New(src, newSettings(true), nil)
	result, err := parser.Parse(context.Background(), "Wrapper.h")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Entities) != 1 {
		t.Fatalf("expected the nested annotated class to surface at top level, got %d entities", len(result.Entities))
	}
	inner, ok := result.Entities[0].(*entity.Class)
	if !ok || inner.Name() != "Inner" {
		t.Fatalf("expected Inner class, got %+v", result.Entities[0])
	}
	if inner.FullName() != "Wrapper::Inner" {
		t.Errorf("inner.FullName() = %q, want Wrapper::Inner", inner.FullName())
	}
}

func TestAbortOnFirstErrorStopsTraversal(t *testing.T) {
	src := astsourcetest.New(map[string][]astsourcetest.Node{
		"Two.h": {
			{
				Kind: astsource.CursorClassDecl, Name: "A", Annotation: "KGC", Payload: "NotARule",
			},
			{
				Kind: astsource.CursorClassDecl, Name: "B", Annotation: "KGC", Payload: "Data",
			},
		},
	})

	settings := newSettings(true)
	settings.ShouldAbortOnFirstError = true
	parser := New(src, settings, nil)
	result, err := parser.Parse(context.Background(), "Two.h")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(result.Errors))
	}
	if len(result.Entities) != 0 {
		t.Fatalf("expected traversal to abort before reaching B, got %d entities", len(result.Entities))
	}
}
