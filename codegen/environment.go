// Package codegen implements the code-generation engine (§4.E-H): the
// Environment generators write into, the PropertyCodeGen/Module interfaces
// they implement, the two CodeGen Unit variants (Macro, Aggregated), and
// the Manager that orchestrates a run end-to-end over the worker pool.
package codegen

import (
	"strings"

	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/logging"
)

// Environment is the per-generate-call context threaded through every
// hook; §9's "Shared global state" design note reframes the original's
// module-level loggers/singletons as an explicit context object instead -
// a fresh Environment is created for every Parse/Generate task pair so
// nothing here is shared across workers. Per spec.md §3's CodeGenEnv
// contract it carries the current input file's ParsingResult, a logger
// handle, and a free-form user-extension slot, in addition to the section
// buffers a PropertyCodeGen writes generated code into.
type Environment struct {
	OutputDirectory string
	Naming          config.NamingPatterns

	// Result is the ParsingResult this generate call is reflecting
	// entities from. For a Macro Unit this is fixed for the Environment's
	// whole lifetime (one file per Environment); for an Aggregated Unit,
	// generateForAllFiles updates it once per constituent file as it
	// iterates them against the one shared Environment.
	Result *entity.ParsingResult

	// Logger lets a PropertyCodeGen log through the same structured
	// Logger every other package uses (§7: "every error is logged via the
	// logger with severity Error"), instead of only being able to signal
	// failure by returning false from GenerateCodeForEntity.
	Logger logging.Logger

	// Extensions is a free-form slot a PropertyCodeGen can use to carry
	// state across entities/files within one generate pass without
	// codegen needing to know its shape.
	Extensions map[string]any

	// Sections holds named text buffers keyed by macro-insertion-site
	// (Macro Unit: "classFooter:<ClassFullName>", "headerFileFooter",
	// "sourceFileHeader", "sourceFileFooter") or by logical code-section
	// identifier (Aggregated Unit: "Includes", "Vectors", "EnumValues",
	// "FuncDefs", "FuncPtrArr", "TemplateInsts"). CurrentSection is the
	// Aggregated Unit's section selector (§4.G); Macro Unit callers address
	// a section directly by name instead.
	Sections       map[string]*strings.Builder
	CurrentSection string
}

// NewEnvironment creates an empty Environment ready for one generate call.
// A nil logger defaults to logging.Nop(), matching Parser.New/Manager.New's
// own nil-logger handling.
func NewEnvironment(outputDirectory string, naming config.NamingPatterns, logger logging.Logger) *Environment {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Environment{
		OutputDirectory: outputDirectory,
		Naming:          naming,
		Logger:          logger,
		Extensions:      make(map[string]any),
		Sections:        make(map[string]*strings.Builder),
	}
}

// Section returns the named buffer, creating it empty on first use.
func (e *Environment) Section(name string) *strings.Builder {
	if b, ok := e.Sections[name]; ok {
		return b
	}
	b := &strings.Builder{}
	e.Sections[name] = b
	return b
}

// Current returns the buffer for CurrentSection, for Aggregated Unit hooks
// that address "whichever section is active right now".
func (e *Environment) Current() *strings.Builder {
	return e.Section(e.CurrentSection)
}
