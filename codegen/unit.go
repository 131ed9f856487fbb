package codegen

import (
	"fmt"

	"github.com/go-kodgen/kodgen/entity"
)

// moduleRejected builds the KodgenError a Unit's PreGenerateCode/
// PostGenerateCode returns when a PropertyCodeGen's whole-run
// initial/final hook reports failure (§7's ModuleRejectedEntity kind
// covers this too - it is the module, not a parse-stage rule, rejecting
// something).
func moduleRejected(moduleName, propertyName, hook string) error {
	return &entity.KodgenError{
		Kind:    entity.ErrModuleRejectedEntity,
		Message: fmt.Sprintf("module %q property %q rejected %s", moduleName, propertyName, hook),
	}
}

// Unit is an orchestrator around one or more Modules plus an
// output-emission policy (§4.G). The three-phase split - PreGenerateCode /
// GenerateCode / PostGenerateCode - mirrors §5's "preGenerateCode ->
// generateCode -> postGenerateCode" sequence exactly, so both dispatch
// strategies can drive a Unit identically: OneGenerateForEachFile calls all
// three once per file against a fresh clone; OneGenerateForAllFiles calls
// PreGenerateCode once, GenerateCode once per file (sequentially, same
// Environment, so an Aggregated Unit's shared section buffers accumulate
// across files), then PostGenerateCode once at the end.
type Unit interface {
	Modules() []Module
	IterationCount() int

	// IsUpToDate reports whether inputPath's previously generated output is
	// still current, letting the Manager skip reparsing/regenerating it.
	IsUpToDate(inputPath string) bool

	PreGenerateCode(env *Environment) error
	GenerateCode(env *Environment, result *entity.ParsingResult) error
	PostGenerateCode(env *Environment) error

	// Clone returns an independent copy for per-worker duplication (§9).
	Clone() Unit
}

func runInitial(modules []Module, env *Environment) error {
	for _, mod := range modules {
		for _, pcg := range mod.PropertyCodeGens() {
			if !pcg.InitialGenerateCode(env) {
				return moduleRejected(mod.Name(), pcg.PropertyName(), "initialGenerateCode")
			}
		}
	}
	return nil
}

func runFinal(modules []Module, env *Environment) error {
	for _, mod := range modules {
		for _, pcg := range mod.PropertyCodeGens() {
			if !pcg.FinalGenerateCode(env) {
				return moduleRejected(mod.Name(), pcg.PropertyName(), "finalGenerateCode")
			}
		}
	}
	return nil
}
