package examplegen_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/astsource/astsourcetest"
	"github.com/go-kodgen/kodgen/codegen"
	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/examplegen"
	"github.com/go-kodgen/kodgen/fileparser"
	"github.com/go-kodgen/kodgen/logging"
	"github.com/go-kodgen/kodgen/properties"
)

func dataModule() *codegen.BaseModule {
	return &codegen.BaseModule{
		ModuleName: "data",
		CodeGens:   []codegen.PropertyCodeGen{examplegen.NewDataPropertyCodeGen()},
	}
}

func getModule() *codegen.BaseModule {
	return &codegen.BaseModule{
		ModuleName: "get",
		CodeGens:   []codegen.PropertyCodeGen{examplegen.NewGetPropertyCodeGen()},
	}
}

// TestDataPropertyCodeGenSingleClass drives §8 scenario 1: one Data-tagged
// class produces an #include, a vector member, and an enumerator, plus a
// terminal DataType_COUNT.
func TestDataPropertyCodeGenSingleClass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SomeClass.h")
	group := properties.Group{EntityKind: properties.KindClass, Properties: []properties.Simple{{Name: "Data"}}}
	cls := entity.NewClass("SomeClass", false, nil, entity.SourceLocation{File: path, Line: 1}, []properties.Group{group})

	env := codegen.NewEnvironment(dir, config.NamingPatterns{}, logging.Nop())
	unit := &codegen.AggregatedUnit{UnitModules: []codegen.Module{dataModule()}, Iterations: 1, OutputPath: filepath.Join(dir, "AllData.h")}

	if err := unit.PreGenerateCode(env); err != nil {
		t.Fatalf("PreGenerateCode: %v", err)
	}
	result := entity.NewParsingResult(path)
	result.AddEntity(cls)
	if err := unit.GenerateCode(env, result); err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if err := unit.PostGenerateCode(env); err != nil {
		t.Fatalf("PostGenerateCode: %v", err)
	}

	includes := env.Section("Includes").String()
	vectors := env.Section("Vectors").String()
	enumValues := env.Section("EnumValues").String()

	if includes != "#include \"SomeClass.h\"\n" {
		t.Fatalf("unexpected Includes section: %q", includes)
	}
	if vectors != "std::vector<SomeClass> data_SomeClass;\n" {
		t.Fatalf("unexpected Vectors section: %q", vectors)
	}
	if !strings.Contains(enumValues, "DataType_SomeClass,\n") || !strings.HasSuffix(enumValues, "DataType_COUNT\n") {
		t.Fatalf("unexpected EnumValues section: %q", enumValues)
	}
}

// TestDataPropertyCodeGenTwoClasses drives §8 scenario 2: enumerators and
// function-pointer entries preserve input-iteration order, with no
// trailing separator on the function-pointer array.
func TestDataPropertyCodeGenTwoClasses(t *testing.T) {
	dir := t.TempDir()
	group := properties.Group{EntityKind: properties.KindClass, Properties: []properties.Simple{{Name: "Data"}}}

	aPath := filepath.Join(dir, "A.h")
	bPath := filepath.Join(dir, "B.h")
	a := entity.NewClass("A", false, nil, entity.SourceLocation{File: aPath, Line: 1}, []properties.Group{group})
	b := entity.NewClass("B", false, nil, entity.SourceLocation{File: bPath, Line: 1}, []properties.Group{group})

	env := codegen.NewEnvironment(dir, config.NamingPatterns{}, logging.Nop())
	unit := &codegen.AggregatedUnit{UnitModules: []codegen.Module{dataModule()}, Iterations: 1, OutputPath: filepath.Join(dir, "AllData.h")}

	if err := unit.PreGenerateCode(env); err != nil {
		t.Fatalf("PreGenerateCode: %v", err)
	}
	resultA := entity.NewParsingResult(aPath)
	resultA.AddEntity(a)
	resultB := entity.NewParsingResult(bPath)
	resultB.AddEntity(b)
	if err := unit.GenerateCode(env, resultA); err != nil {
		t.Fatalf("GenerateCode(A): %v", err)
	}
	if err := unit.GenerateCode(env, resultB); err != nil {
		t.Fatalf("GenerateCode(B): %v", err)
	}
	if err := unit.PostGenerateCode(env); err != nil {
		t.Fatalf("PostGenerateCode: %v", err)
	}

	enumValues := env.Section("EnumValues").String()
	wantEnum := "DataType_A,\nDataType_B,\nDataType_COUNT\n"
	if enumValues != wantEnum {
		t.Fatalf("enum order/terminal wrong: got %q want %q", enumValues, wantEnum)
	}

	funcPtrArr := env.Section("FuncPtrArr").String()
	wantFuncPtr := "&GetData_A,\n&GetData_B"
	if funcPtrArr != wantFuncPtr {
		t.Fatalf("function-pointer array wrong: got %q want %q (exactly two entries, no trailing comma)", funcPtrArr, wantFuncPtr)
	}
}

// TestGetPropertyCodeGenConstPointer drives §8 scenario 3.
func TestGetPropertyCodeGenConstPointer(t *testing.T) {
	cls := entity.NewClass("SomeClass", false, nil, entity.SourceLocation{}, nil)
	field := entity.NewField("_someFloat", entity.TypeRef{CanonicalName: "float"}, entity.AccessPrivate, false, false, cls, entity.SourceLocation{}, nil)

	env := codegen.NewEnvironment("", config.NamingPatterns{}, logging.Nop())
	gen := examplegen.NewGetPropertyCodeGen()

	var out strings.Builder
	prop := properties.Simple{Name: "Get", Arguments: []string{"const", "*"}}
	if !gen.GenerateCodeForEntity(field, prop, 0, env, &out) {
		t.Fatalf("GenerateCodeForEntity reported failure")
	}

	want := "float  const *  getSomeFloat() const;\n"
	if out.String() != want {
		t.Fatalf("unexpected class-footer declaration: got %q want %q", out.String(), want)
	}

	def := env.Section(codegen.SectionSourceFileFooter).String()
	if !strings.Contains(def, "SomeClass::getSomeFloat() const") || !strings.Contains(def, "return _someFloat;") {
		t.Fatalf("expected an out-of-line definition, got %q", def)
	}
}

// TestGetPropertyCodeGenExplicitSuppressesDefinition drives §8 scenario 4.
func TestGetPropertyCodeGenExplicitSuppressesDefinition(t *testing.T) {
	cls := entity.NewClass("SomeClass", false, nil, entity.SourceLocation{}, nil)
	field := entity.NewField("_someFloat", entity.TypeRef{CanonicalName: "float"}, entity.AccessPrivate, false, false, cls, entity.SourceLocation{}, nil)

	env := codegen.NewEnvironment("", config.NamingPatterns{}, logging.Nop())
	gen := examplegen.NewGetPropertyCodeGen()

	var out strings.Builder
	prop := properties.Simple{Name: "Get", Arguments: []string{"explicit"}}
	if !gen.GenerateCodeForEntity(field, prop, 0, env, &out) {
		t.Fatalf("GenerateCodeForEntity reported failure")
	}

	if !strings.Contains(out.String(), "getSomeFloat() const;") {
		t.Fatalf("expected declaration in class footer, got %q", out.String())
	}
	if def := env.Section(codegen.SectionSourceFileFooter).String(); def != "" {
		t.Fatalf("explicit getter must not emit an out-of-line definition, got %q", def)
	}
}

// TestManagerGetPropertyEndToEnd wires GetPropertyCodeGen through a full
// Manager run over a fake AstSource, confirming Field entities (not just
// top-level classes) are reachable by Traverse.
func TestManagerGetPropertyEndToEnd(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "Generated")
	path := filepath.Join(dir, "SomeClass.h")
	if err := os.WriteFile(path, []byte("class SomeClass { float _someFloat; };"), 0o644); err != nil {
		t.Fatalf("seeding input: %v", err)
	}

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		path: {{
			Kind: astsource.CursorClassDecl, Name: "SomeClass", Annotation: "KGC", Payload: "",
			Children: []astsourcetest.Node{
				{
					Kind: astsource.CursorFieldDecl, Name: "_someFloat", Annotation: "KGF", Payload: "Get[const,*]",
					Type: astsource.TypeRef{CanonicalName: "float"},
				},
			},
		}},
	})

	parser := fileparser.New(fake, config.ParsingSettings{Macros: config.DefaultMacroNames()}, logging.Nop())

	unit := &codegen.MacroUnit{
		UnitModules:     []codegen.Module{getModule()},
		Iterations:      1,
		OutputDirectory: outDir,
		Naming: codegen.ScopedNamingPatterns{
			GeneratedHeaderFileNamePattern: "##FILENAME##.kodgen.h",
			GeneratedSourceFileNamePattern: "##FILENAME##.kodgen.cpp",
			ClassFooterMacroPattern:        "##CLASSFULLNAME##_GENERATED",
			HeaderFileFooterMacroPattern:   "File_##FILENAME##_GENERATED",
		},
	}

	settings := config.DefaultManagerSettings()
	settings.Strategy = config.StrategyOneGenerateForEachFile
	settings.SupportedFileExtensions = []string{".h"}
	settings.OutputDirectory = outDir

	mgr, err := codegen.New(parser, []codegen.Unit{unit}, settings, logging.Nop())
	if err != nil {
		t.Fatalf("codegen.New: %v", err)
	}

	result, err := mgr.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Completed {
		t.Fatalf("expected run to complete, got errors: %v", result.Errors)
	}

	header, err := os.ReadFile(filepath.Join(outDir, "SomeClass.kodgen.h"))
	if err != nil {
		t.Fatalf("reading generated header: %v", err)
	}
	if !strings.Contains(string(header), "getSomeFloat() const;") {
		t.Fatalf("expected getter declaration in generated header, got %q", string(header))
	}

	source, err := os.ReadFile(filepath.Join(outDir, "SomeClass.kodgen.cpp"))
	if err != nil {
		t.Fatalf("reading generated source: %v", err)
	}
	if !strings.Contains(string(source), "SomeClass::getSomeFloat() const") {
		t.Fatalf("expected getter definition in generated source, got %q", string(source))
	}
}

// TestManagerSkipsEmissionOnUnknownProperty drives §8 scenario 5: a field
// carrying an unknown property under strict mode produces exactly one
// UnknownProperty error and no reflected field, and the run-wide
// completed flag goes false without any generated file being written for
// that unit - the Generate stage must skip emission entirely rather than
// emit a partial artifact.
func TestManagerSkipsEmissionOnUnknownProperty(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "Generated")
	path := filepath.Join(dir, "Foo.h")
	if err := os.WriteFile(path, []byte("class Foo { int bar; };"), 0o644); err != nil {
		t.Fatalf("seeding input: %v", err)
	}

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		path: {{
			Kind: astsource.CursorClassDecl, Name: "Foo", Annotation: "KGC", Payload: "",
			Children: []astsourcetest.Node{
				{Kind: astsource.CursorFieldDecl, Name: "bar", Annotation: "KGF", Payload: "NotARule"},
			},
		}},
	})

	registry := properties.NewRegistry(true)
	parsingSettings := config.ParsingSettings{Macros: config.DefaultMacroNames(), Strict: true, Registry: registry}
	parser := fileparser.New(fake, parsingSettings, logging.Nop())

	unit := &codegen.MacroUnit{
		UnitModules:     []codegen.Module{getModule()},
		Iterations:      1,
		OutputDirectory: outDir,
		Naming: codegen.ScopedNamingPatterns{
			GeneratedHeaderFileNamePattern: "##FILENAME##.kodgen.h",
			GeneratedSourceFileNamePattern: "##FILENAME##.kodgen.cpp",
			ClassFooterMacroPattern:        "##CLASSFULLNAME##_GENERATED",
			HeaderFileFooterMacroPattern:   "File_##FILENAME##_GENERATED",
		},
	}

	settings := config.DefaultManagerSettings()
	settings.Strategy = config.StrategyOneGenerateForEachFile
	settings.SupportedFileExtensions = []string{".h"}
	settings.OutputDirectory = outDir

	mgr, err := codegen.New(parser, []codegen.Unit{unit}, settings, logging.Nop())
	if err != nil {
		t.Fatalf("codegen.New: %v", err)
	}

	result, err := mgr.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Completed {
		t.Fatalf("expected completed=false when a file carries a parse-stage error")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	var asParsingErr entity.ParsingError
	if !errors.As(result.Errors[0], &asParsingErr) || asParsingErr.Kind != entity.ErrUnknownProperty {
		t.Fatalf("expected an UnknownProperty error, got %v", result.Errors[0])
	}

	if _, err := os.Stat(filepath.Join(outDir, "Foo.kodgen.h")); !os.IsNotExist(err) {
		t.Fatalf("expected no generated header for a file with parse errors, stat returned: %v", err)
	}
}

// TestManagerTwoIterationsIdenticalFileSet drives §8 scenario 6: a
// two-iteration Unit processes the same file twice; since Aggregated
// Unit.IsUpToDate always reports stale, both iterations reprocess every
// discovered file, so the merged ParsedFiles set must equal the discovered
// file set exactly (not double-counted, by Merge's set-union semantics),
// and the recorded Duration must be a non-negative measurement.
func TestManagerTwoIterationsIdenticalFileSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SomeClass.h")
	if err := os.WriteFile(path, []byte("struct SomeClass {};"), 0o644); err != nil {
		t.Fatalf("seeding input: %v", err)
	}

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		path: {{Kind: astsource.CursorStructDecl, Name: "SomeClass", Annotation: "KGS", Payload: "Data"}},
	})
	parser := fileparser.New(fake, config.ParsingSettings{Macros: config.DefaultMacroNames()}, logging.Nop())

	unit := &codegen.AggregatedUnit{
		UnitModules: []codegen.Module{dataModule()},
		Iterations:  2,
		OutputPath:  filepath.Join(dir, "AllData.h"),
	}

	settings := config.DefaultManagerSettings()
	settings.Strategy = config.StrategyOneGenerateForAllFiles
	settings.SupportedFileExtensions = []string{".h"}
	settings.IterationCount = 2

	mgr, err := codegen.New(parser, []codegen.Unit{unit}, settings, logging.Nop())
	if err != nil {
		t.Fatalf("codegen.New: %v", err)
	}

	result, err := mgr.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Completed {
		t.Fatalf("expected run to complete, got errors: %v", result.Errors)
	}
	if len(result.ParsedFiles) != 1 || result.ParsedFiles[0] != path {
		t.Fatalf("expected the file set to stay identical across iterations, got %v", result.ParsedFiles)
	}
	if result.Duration < 0 {
		t.Fatalf("expected a non-negative duration, got %v", result.Duration)
	}
}
