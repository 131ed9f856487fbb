// Package fileparser walks one AstSource translation unit and reflects its
// annotated declarations into an entity.ParsingResult, dispatching on
// cursor kind to class/enum/namespace sub-parsers, grounded on
// pablor21-gonnotation/parser/orchestrator.go's clone-per-worker pattern
// (each Manager worker gets its own Parser.Clone()) and the original
// Source/Parsing/FileParser.cpp, NamespaceParser.cpp traversal shape.
package fileparser

import (
	"context"
	"os"

	"github.com/go-kodgen/kodgen/astsource"
	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/logging"
	"github.com/go-kodgen/kodgen/properties"
)

// Parser reflects annotated C/C++ declarations out of one translation unit
// at a time. It is cloneable (§9 "Polymorphism": the Manager duplicates a
// FileParser template into each worker) - Clone returns an independent copy
// safe to use concurrently with the original and with other clones.
type Parser struct {
	Source   astsource.Source
	Settings config.ParsingSettings
	Logger   logging.Logger
}

// New creates a Parser bound to a source and its settings.
func New(source astsource.Source, settings config.ParsingSettings, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Parser{Source: source, Settings: settings, Logger: logger}
}

// Clone returns a copy of p; Parser carries no mutable per-parse state (all
// of that lives in the walker created by Parse), so Clone is a plain value
// copy.
func (p *Parser) Clone() *Parser {
	clone := *p
	return &clone
}

// Parse reflects the file at path into a ParsingResult. Every failure this
// method can encounter - NonexistentFile/TranslationUnitInitFailed as much
// as a malformed/unknown/rejected property - is collected into the
// returned result's Errors rather than returned as a Go error (§4.D groups
// them together as the same per-file error taxonomy). This matters beyond
// bookkeeping: Parse runs inside an errgroup-backed taskpool.Pool
// (codegen/strategies.go), where a non-nil returned error cancels the
// shared context and aborts every sibling file's in-flight task too - one
// unreadable file must not be able to do that (§5 "no task-level
// interruption", §7 "errors set completed=false for the failing task
// only"). The returned error is always nil: a cancelled context reported by
// Index.ParseFile is recorded as TranslationUnitInitFailed like any other
// ParseFile failure.
func (p *Parser) Parse(ctx context.Context, path string) (*entity.ParsingResult, error) {
	result := entity.NewParsingResult(path)

	if _, err := os.Stat(path); err != nil {
		result.AddError(entity.ParsingError{Kind: entity.ErrNonexistentFile, Message: err.Error()})
		return result, nil
	}

	idx, err := p.Source.CreateIndex()
	if err != nil {
		result.AddError(entity.ParsingError{Kind: entity.ErrTranslationUnitInitFailed, Message: err.Error()})
		return result, nil
	}
	defer idx.Dispose()

	args := append([]string{}, p.Settings.Macros.CompilerArgsMacroDefs()...)
	for _, root := range p.Settings.IncludeSearchRoots {
		args = append(args, "-I"+root)
	}

	tu, err := idx.ParseFile(ctx, path, args)
	if err != nil {
		result.AddError(entity.ParsingError{Kind: entity.ErrTranslationUnitInitFailed, Message: err.Error(), Location: entity.SourceLocation{File: path}})
		return result, nil
	}
	defer tu.Dispose()

	for _, diag := range tu.Diagnostics() {
		if diag.Severity >= astsource.DiagnosticError {
			p.Logger.Warn("compiler diagnostic", "file", path, "message", diag.Message)
		}
	}

	w := &walker{parser: p, result: result, syntax: p.Settings.Syntax.ToProperties()}
	w.walkChildren(tu.Cursor(), scope{})

	return result, nil
}

// tagToKind maps a KGx annotation tag to the properties/entity kind it
// reflects, per §6's tag alphabet KGN, KGC, KGS, KGF, KGM, KGE, KGEV, KGFN.
func tagToKind(tag string) (properties.Kind, bool) {
	switch tag {
	case "KGN":
		return properties.KindNamespace, true
	case "KGC":
		return properties.KindClass, true
	case "KGS":
		return properties.KindStruct, true
	case "KGF":
		return properties.KindField, true
	case "KGM":
		return properties.KindMethod, true
	case "KGE":
		return properties.KindEnum, true
	case "KGEV":
		return properties.KindEnumValue, true
	case "KGFN":
		return properties.KindFunction, true
	default:
		return 0, false
	}
}

func toEntityTypeRef(t astsource.TypeRef) entity.TypeRef {
	return entity.TypeRef{
		CanonicalName: t.CanonicalName,
		Name:          t.Name,
		IsConst:       t.IsConst,
		IsPointer:     t.IsPointer,
		IsRef:         t.IsLValueRef,
	}
}

func errKindFor(verr *properties.ValidationError) entity.ErrorKind {
	if verr.Unknown {
		return entity.ErrUnknownProperty
	}
	return entity.ErrRuleRejected
}
