//go:build clang

// Package clangsource implements astsource against
// github.com/go-clang/v14/clang, libclang's cgo binding. It is excluded from
// default builds/tests (build tag "clang") because it requires libclang to
// be installed and discoverable by cgo; astsourcetest exercises fileparser
// without it.
//
// Grounded on
// other_examples/3b0313b0_abduld-clang-server__parser-parser.go.go's use of
// clang.Index/ParseTranslationUnit2/Cursor.Visit, adapted from clang-server's
// fire-and-forget indexing-service shape to kodgen's synchronous
// astsource.Index/TranslationUnit/Cursor capability set.
package clangsource

import (
	"context"
	"fmt"

	"github.com/go-clang/v14/clang"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/entity"
)

// Source opens libclang indexes. ExcludeDeclarationsFromPCH and
// DisplayDiagnostics map directly onto clang.NewIndex's two flags.
type Source struct {
	ExcludeDeclarationsFromPCH bool
	DisplayDiagnostics         bool
}

// New creates a Source with libclang's conservative defaults (nothing
// excluded, diagnostics silenced - fileparser surfaces them itself via
// TranslationUnit.Diagnostics).
func New() *Source {
	return &Source{}
}

func (s *Source) CreateIndex() (astsource.Index, error) {
	idx := clang.NewIndex(boolToInt(s.ExcludeDeclarationsFromPCH), boolToInt(s.DisplayDiagnostics))
	return &index{idx: idx}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type index struct {
	idx clang.Index
}

func (i *index) ParseFile(ctx context.Context, path string, args []string) (astsource.TranslationUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := clang.DefaultEditingTranslationUnitOptions() | uint32(clang.TranslationUnit_KeepGoing)
	tu, err := i.idx.ParseTranslationUnit(path, args, nil, options)
	if err != nil {
		return nil, fmt.Errorf("clangsource: parsing %s: %w", path, err)
	}

	return &translationUnit{tu: tu, mainFile: path}, nil
}

func (i *index) Dispose() {
	i.idx.Dispose()
}

type translationUnit struct {
	tu       clang.TranslationUnit
	mainFile string
}

func (t *translationUnit) Cursor() astsource.Cursor {
	return &cursorAdapter{cursor: t.tu.TranslationUnitCursor(), mainFile: t.mainFile}
}

func (t *translationUnit) Diagnostics() []astsource.Diagnostic {
	diags := t.tu.Diagnostics()
	out := make([]astsource.Diagnostic, 0, len(diags))
	for _, d := range diags {
		loc := d.Location()
		file, line, column, _ := loc.FileLocation()
		out = append(out, astsource.Diagnostic{
			Severity: diagnosticSeverity(d.Severity()),
			Location: entity.SourceLocation{File: file.Name(), Line: uint32(line), Column: uint32(column)},
			Message:  d.Spelling(),
		})
	}
	return out
}

func diagnosticSeverity(s clang.DiagnosticSeverity) astsource.DiagnosticSeverity {
	switch s {
	case clang.Diagnostic_Note:
		return astsource.DiagnosticNote
	case clang.Diagnostic_Warning:
		return astsource.DiagnosticWarning
	case clang.Diagnostic_Error:
		return astsource.DiagnosticError
	case clang.Diagnostic_Fatal:
		return astsource.DiagnosticFatal
	default:
		return astsource.DiagnosticIgnored
	}
}

func (t *translationUnit) Dispose() {
	t.tu.Dispose()
}
