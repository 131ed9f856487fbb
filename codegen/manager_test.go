package codegen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/astsource/astsourcetest"
	"github.com/go-kodgen/kodgen/codegen"
	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/fileparser"
	"github.com/go-kodgen/kodgen/logging"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestManagerOneGenerateForAllFilesProducesSingleAggregatedArtifact(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "A.h")
	bPath := filepath.Join(dir, "B.h")
	writeFile(t, aPath, "struct A {};")
	writeFile(t, bPath, "struct B {};")

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		aPath: {{Kind: astsource.CursorStructDecl, Name: "A", Annotation: "KGS", Payload: "Data"}},
		bPath: {{Kind: astsource.CursorStructDecl, Name: "B", Annotation: "KGS", Payload: "Data"}},
	})

	parser := fileparser.New(fake, config.ParsingSettings{Macros: config.DefaultMacroNames()}, logging.Nop())

	outputPath := filepath.Join(dir, "AllData.h")
	unit := &codegen.AggregatedUnit{
		UnitModules: []codegen.Module{testModule()},
		Iterations:  1,
		OutputPath:  outputPath,
	}

	settings := config.DefaultManagerSettings()
	settings.Strategy = config.StrategyOneGenerateForAllFiles
	settings.SupportedFileExtensions = []string{".h"}

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
	if len(result.ParsedFiles) != 2 {
		t.Fatalf("expected 2 parsed files, got %d: %v", len(result.ParsedFiles), result.ParsedFiles)
	}

	contents, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading aggregated artifact: %v", err)
	}
	got := string(contents)
	if !strings.Contains(got, "DATA:A") || !strings.Contains(got, "DATA:B") {
		t.Fatalf("aggregated artifact missing expected entries: %q", got)
	}
}

func TestManagerOneGenerateForEachFileProducesPerFileArtifacts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "Generated")
	aPath := filepath.Join(dir, "A.h")
	bPath := filepath.Join(dir, "B.h")
	writeFile(t, aPath, "struct A {};")
	writeFile(t, bPath, "struct B {};")

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		aPath: {{Kind: astsource.CursorStructDecl, Name: "A", Annotation: "KGS", Payload: "Data"}},
		bPath: {{Kind: astsource.CursorStructDecl, Name: "B", Annotation: "KGS", Payload: "Data"}},
	})

	parser := fileparser.New(fake, config.ParsingSettings{Macros: config.DefaultMacroNames()}, logging.Nop())

	unit := &codegen.MacroUnit{
		UnitModules:     []codegen.Module{testModule()},
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

	for _, stem := range []string{"A", "B"} {
		headerPath := filepath.Join(outDir, stem+".kodgen.h")
		contents, err := os.ReadFile(headerPath)
		if err != nil {
			t.Fatalf("reading %s: %v", headerPath, err)
		}
		if !strings.Contains(string(contents), "DATA:"+stem) {
			t.Fatalf("expected %s's header to contain its own data entry, got %q", stem, string(contents))
		}
	}
}

// TestManagerOneFailingFileDoesNotDiscardOtherFilesResults drives §5's "no
// task-level interruption" / §7's "errors set completed=false for the
// failing task only" / §8's "union of per-task parsedFiles equals the
// manager's filesToProcess": one file that fails to parse
// (TranslationUnitInitFailed, simulated here by a file astsourcetest has no
// fake registered for) must not cancel or discard the sibling file's
// legitimate, successful result.
func TestManagerOneFailingFileDoesNotDiscardOtherFilesResults(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "Good.h")
	badPath := filepath.Join(dir, "Bad.h")
	writeFile(t, goodPath, "struct Good {};")
	writeFile(t, badPath, "this file has no fake AST registered")

	fake := astsourcetest.New(map[string][]astsourcetest.Node{
		goodPath: {{Kind: astsource.CursorStructDecl, Name: "Good", Annotation: "KGS", Payload: "Data"}},
		// badPath intentionally absent: ParseFile returns an error for it.
	})

	parser := fileparser.New(fake, config.ParsingSettings{Macros: config.DefaultMacroNames()}, logging.Nop())

	outDir := filepath.Join(dir, "Generated")
	unit := &codegen.MacroUnit{
		UnitModules:     []codegen.Module{testModule()},
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
		t.Fatalf("Run: %v (one bad file must not fail the whole run)", err)
	}
	if result.Completed {
		t.Fatalf("expected completed=false: one file failed to parse")
	}
	if len(result.ParsedFiles) != 2 {
		t.Fatalf("expected both files counted in ParsedFiles (union of per-task parsedFiles), got %v", result.ParsedFiles)
	}

	contents, err := os.ReadFile(filepath.Join(outDir, "Good.kodgen.h"))
	if err != nil {
		t.Fatalf("expected Good.h's artifact to still be emitted despite Bad.h failing: %v", err)
	}
	if !strings.Contains(string(contents), "DATA:Good") {
		t.Fatalf("unexpected Good.h artifact contents: %q", string(contents))
	}
}

func TestManagerRejectsZeroIterationCount(t *testing.T) {
	fake := astsourcetest.New(nil)
	parser := fileparser.New(fake, config.ParsingSettings{}, logging.Nop())
	_, err := codegen.New(parser, []codegen.Unit{&codegen.AggregatedUnit{}}, config.ManagerSettings{IterationCount: 0}, logging.Nop())
	if err == nil {
		t.Fatalf("expected an error for IterationCount=0")
	}
}

func TestManagerDiscoverFilesSkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Keep.h"), "")
	genDir := filepath.Join(dir, "Generated")
	if err := os.Mkdir(genDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(genDir, "Skip.h"), "")

	fake := astsourcetest.New(nil)
	parser := fileparser.New(fake, config.ParsingSettings{}, logging.Nop())
	settings := config.DefaultManagerSettings()
	settings.SupportedFileExtensions = []string{".h"}
	settings.IgnoredDirectories = []string{"Generated"}

	mgr, err := codegen.New(parser, []codegen.Unit{&codegen.AggregatedUnit{}}, settings, logging.Nop())
	if err != nil {
		t.Fatalf("codegen.New: %v", err)
	}

	files, err := mgr.DiscoverFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	for _, f := range files {
		if strings.Contains(f, "Generated") {
			t.Fatalf("expected Generated/ to be excluded, found %s", f)
		}
	}
	if len(files) != 1 {
		t.Fatalf("expected exactly 1 discovered file, got %v", files)
	}
}
