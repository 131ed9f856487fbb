package codegen

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/go-kodgen/kodgen/entity"
)

// AggregatedUnit produces a single artifact file covering every input file
// in the run (§4.G "Aggregated Unit"), used by the examplegen "Data"
// property to assemble one reflection table across all annotated classes.
// Its section buffers are keyed by logical code-section identifier rather
// than by insertion site, selected through env.CurrentSection as the
// traversal visits each entity, and concatenated in SectionOrder when the
// artifact is finally assembled.
type AggregatedUnit struct {
	UnitModules  []Module
	Iterations   int
	OutputPath   string
	SectionOrder []string
}

// DefaultSectionOrder matches the original example generator's aggregated
// artifact layout: includes first, then the per-entity data declared in
// source-textual order, then the enum that indexes it, then the function
// table(s) that dispatch on that enum.
func DefaultSectionOrder() []string {
	return []string{"Includes", "Vectors", "EnumValues", "FuncDefs", "FuncPtrArr", "TemplateInsts"}
}

func (u *AggregatedUnit) Modules() []Module   { return u.UnitModules }
func (u *AggregatedUnit) IterationCount() int { return u.Iterations }

// IsUpToDate always reports false: an Aggregated Unit's single artifact
// depends on every input file together, so there is no single input/output
// timestamp pair to compare - the Manager always regenerates it when any
// input needed reparsing (§4.G "Aggregated units typically return false").
func (u *AggregatedUnit) IsUpToDate(string) bool {
	return false
}

func (u *AggregatedUnit) PreGenerateCode(env *Environment) error {
	return runInitial(u.UnitModules, env)
}

// GenerateCode is called once per input file against the same Environment
// (the Manager's OneGenerateForAllFiles strategy reuses one Environment
// across the whole run), so every call's output lands in the shared section
// buffers rather than a per-file one. Per §4.G, an Aggregated Unit's
// sections are independent passes over the same entity tree: every declared
// section gets its own full Traverse, with env.CurrentSection set to that
// section for the pass's duration so a PropertyCodeGen addressing out/
// env.Current() writes into the right buffer and can tell, via
// CurrentSection, which of its section(s) is currently being assembled.
func (u *AggregatedUnit) GenerateCode(env *Environment, result *entity.ParsingResult) error {
	resolve := func(entity.Entity) *strings.Builder {
		return env.Current()
	}

	order := u.SectionOrder
	if len(order) == 0 {
		order = DefaultSectionOrder()
	}

	var errs []error
	for _, section := range order {
		env.CurrentSection = section
		ok, sectionErrs := Traverse(u.UnitModules, result.Entities, env, resolve)
		errs = append(errs, sectionErrs...)
		if !ok {
			errs = append(errs, &entity.KodgenError{
				Kind:     entity.ErrModuleRejectedEntity,
				Location: entity.SourceLocation{File: result.FilePath},
				Message:  fmt.Sprintf("module signaled Break, aborting traversal in section %q", section),
			})
			break
		}
	}
	env.CurrentSection = ""

	for _, err := range errs {
		env.Logger.Error("traversal error", "file", result.FilePath, "error", err.Error())
	}
	if len(errs) > 0 {
		return multierr.Combine(errs...)
	}
	return nil
}

// PostGenerateCode runs every module's finalGenerateCode hook, then
// concatenates the section buffers in SectionOrder (falling back to
// DefaultSectionOrder if unset) into the single aggregated artifact.
func (u *AggregatedUnit) PostGenerateCode(env *Environment) error {
	if err := runFinal(u.UnitModules, env); err != nil {
		return err
	}

	order := u.SectionOrder
	if len(order) == 0 {
		order = DefaultSectionOrder()
	}

	var out strings.Builder
	for _, name := range order {
		buf, ok := env.Sections[name]
		if !ok {
			continue
		}
		out.WriteString(buf.String())
	}

	return emitFile(u.OutputPath, []byte(out.String()))
}

func (u *AggregatedUnit) Clone() Unit {
	mods := make([]Module, len(u.UnitModules))
	for i, m := range u.UnitModules {
		mods[i] = m.Clone()
	}
	order := append([]string{}, u.SectionOrder...)
	return &AggregatedUnit{UnitModules: mods, Iterations: u.Iterations, OutputPath: u.OutputPath, SectionOrder: order}
}
