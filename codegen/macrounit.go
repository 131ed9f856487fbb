package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/go-kodgen/kodgen/entity"
)

// MacroUnit produces one generated {header, source} pair per input file
// (§4.G "Macro Unit"). Its section buffers are keyed by macro-insertion
// site: the file-scoped sites ("headerFileFooter", "sourceFileHeader",
// "sourceFileFooter") plus one "classFooter:<ClassFullName>" site per
// reflected class, since the macro a class splices its generated members
// into is itself keyed by the class's fully qualified name.
type MacroUnit struct {
	UnitModules     []Module
	Iterations      int
	Naming          ScopedNamingPatterns
	OutputDirectory string
}

// ScopedNamingPatterns holds the four naming templates MacroUnit reads: the
// generated header/source file names and the class-footer/header-footer
// macro names.
type ScopedNamingPatterns struct {
	GeneratedHeaderFileNamePattern string
	GeneratedSourceFileNamePattern string
	ClassFooterMacroPattern        string
	HeaderFileFooterMacroPattern   string
}

// ClassFooterSection returns the composite section key for a class's
// classFooter macro site, exported so PropertyCodeGens outside this package
// can target a specific class's footer directly instead of relying solely on
// Traverse's automatic out-buffer routing.
func ClassFooterSection(classFullName string) string {
	return "classFooter:" + classFullName
}

// The file-scoped Macro Unit section names, exported for the same reason as
// ClassFooterSection.
const (
	SectionHeaderFileFooter = "headerFileFooter"
	SectionSourceFileHeader = "sourceFileHeader"
	SectionSourceFileFooter = "sourceFileFooter"
)

func (u *MacroUnit) Modules() []Module   { return u.UnitModules }
func (u *MacroUnit) IterationCount() int { return u.Iterations }

// IsUpToDate compares the input file's mtime against both generated
// outputs' mtimes (§4.G "Freshness: Macro units compare timestamps between
// input and expected outputs"): if either output is missing or older than
// the input, the file needs regenerating.
func (u *MacroUnit) IsUpToDate(inputPath string) bool {
	in, err := os.Stat(inputPath)
	if err != nil {
		return false
	}
	for _, out := range u.outputPaths(inputPath) {
		outInfo, err := os.Stat(out)
		if err != nil {
			return false
		}
		if outInfo.ModTime().Before(in.ModTime()) {
			return false
		}
	}
	return true
}

func (u *MacroUnit) outputPaths(inputPath string) []string {
	_, stem := filepath.Split(inputPath)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return []string{
		filepath.Join(u.OutputDirectory, renderPattern(u.Naming.GeneratedHeaderFileNamePattern, stem, "")),
		filepath.Join(u.OutputDirectory, renderPattern(u.Naming.GeneratedSourceFileNamePattern, stem, "")),
	}
}

func renderPattern(pattern, fileName, classFullName string) string {
	out := strings.ReplaceAll(pattern, "##FILENAME##", fileName)
	out = strings.ReplaceAll(out, "##CLASSFULLNAME##", classFullName)
	return out
}

func (u *MacroUnit) PreGenerateCode(env *Environment) error {
	return runInitial(u.UnitModules, env)
}

func (u *MacroUnit) PostGenerateCode(env *Environment) error {
	return runFinal(u.UnitModules, env)
}

// GenerateCode traverses result's entities once, routing each entity's
// generated code to the classFooter section of its nearest enclosing class
// (falling back to sourceFileHeader for non-class-scoped entities), then
// assembles and emits the {header, source} pair.
func (u *MacroUnit) GenerateCode(env *Environment, result *entity.ParsingResult) error {
	resolve := func(ent entity.Entity) *strings.Builder {
		if owner, ok := nearestClass(ent); ok {
			return env.Section(ClassFooterSection(owner.FullName()))
		}
		return env.Section(SectionSourceFileHeader)
	}

	ok, errs := Traverse(u.UnitModules, result.Entities, env, resolve)
	for _, err := range errs {
		env.Logger.Error("traversal error", "file", result.FilePath, "error", err.Error())
	}
	if !ok {
		errs = append(errs, &entity.KodgenError{
			Kind:     entity.ErrModuleRejectedEntity,
			Location: entity.SourceLocation{File: result.FilePath},
			Message:  "module signaled Break, aborting traversal",
		})
	}
	if len(errs) > 0 {
		return multierr.Combine(errs...)
	}

	return u.emit(env, result.FilePath)
}

// nearestClass walks Outer() until it finds a *entity.Class, the anchor
// whose classFooter macro receives this entity's generated code.
func nearestClass(ent entity.Entity) (entity.Entity, bool) {
	cur := ent
	for {
		if _, ok := cur.(*entity.Class); ok {
			return cur, true
		}
		outer, ok := cur.Outer()
		if !ok {
			return nil, false
		}
		cur = outer
	}
}

func (u *MacroUnit) emit(env *Environment, inputPath string) error {
	_, stem := filepath.Split(inputPath)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	var header, source strings.Builder

	header.WriteString(env.Section(SectionSourceFileHeader).String())
	for key, buf := range env.Sections {
		if strings.HasPrefix(key, "classFooter:") {
			className := strings.TrimPrefix(key, "classFooter:")
			fmt.Fprintf(&header, "\n#define %s %s\n", renderPattern(u.Naming.ClassFooterMacroPattern, stem, className), buf.String())
		}
	}
	fmt.Fprintf(&header, "\n#define %s %s\n", renderPattern(u.Naming.HeaderFileFooterMacroPattern, stem, ""), env.Section(SectionHeaderFileFooter).String())

	source.WriteString(env.Section(SectionSourceFileFooter).String())

	headerPath := filepath.Join(u.OutputDirectory, renderPattern(u.Naming.GeneratedHeaderFileNamePattern, stem, ""))
	sourcePath := filepath.Join(u.OutputDirectory, renderPattern(u.Naming.GeneratedSourceFileNamePattern, stem, ""))

	if err := emitFile(headerPath, []byte(header.String())); err != nil {
		return err
	}
	return emitFile(sourcePath, []byte(source.String()))
}

func (u *MacroUnit) Clone() Unit {
	mods := make([]Module, len(u.UnitModules))
	for i, m := range u.UnitModules {
		mods[i] = m.Clone()
	}
	return &MacroUnit{UnitModules: mods, Iterations: u.Iterations, Naming: u.Naming, OutputDirectory: u.OutputDirectory}
}
