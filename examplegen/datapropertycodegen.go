// Package examplegen provides the two PropertyCodeGens named in §6's worked
// examples: "Data" (an Aggregated Unit generator assembling a struct of
// vectors plus an enum over every Data-tagged class/struct) and "Get" (a
// Macro Unit generator emitting a getter declaration/definition pair per
// Get-tagged field). They exist to exercise the codegen package end to end
// and to drive the §8 scenario tests; a real caller would write its own
// PropertyCodeGens the same way.
package examplegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-kodgen/kodgen/codegen"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// DataPropertyCodeGen implements the "Data" property (§8 scenarios 1-2):
// every Data-tagged class/struct contributes an #include, a
// std::vector<T> data member, and an enumerator to a run-wide aggregated
// artifact, plus a terminal DataType_COUNT enumerator and a
// function-pointer array once the whole run has been traversed.
//
// It is stateful across one generate call (the accumulated entries slice
// backs the function-pointer array written in FinalGenerateCode), so every
// clone must start with an empty slice - Clone and InitialGenerateCode both
// reset it, covering both the per-worker duplication path and plain reuse
// across iterations of the same Unit.
type DataPropertyCodeGen struct {
	codegen.BasePropertyCodeGen
	entries []string
}

func NewDataPropertyCodeGen() *DataPropertyCodeGen {
	return &DataPropertyCodeGen{}
}

func (d *DataPropertyCodeGen) PropertyName() string { return "Data" }

func (d *DataPropertyCodeGen) AcceptedEntityKinds() []entity.Kind {
	return []entity.Kind{entity.KindClass, entity.KindStruct}
}

func (d *DataPropertyCodeGen) Clone() codegen.PropertyCodeGen {
	return &DataPropertyCodeGen{}
}

func (d *DataPropertyCodeGen) InitialGenerateCode(env *codegen.Environment) bool {
	d.entries = nil
	return true
}

// GenerateCodeForEntity contributes to whichever of "Includes", "Vectors"
// or "EnumValues" is currently active (the Aggregated Unit runs one full
// Traverse pass per declared section - §4.G - calling this once per
// section per entity with out already resolved to that section's buffer);
// it is a no-op for every other section (FuncDefs/FuncPtrArr/
// TemplateInsts don't carry per-entity content for this property).
func (d *DataPropertyCodeGen) GenerateCodeForEntity(ent entity.Entity, prop properties.Simple, indexInGroup int, env *codegen.Environment, out *strings.Builder) bool {
	name := ent.Name()

	switch env.CurrentSection {
	case "Includes":
		fmt.Fprintf(out, "#include \"%s\"\n", filepath.Base(ent.Location().File))
	case "Vectors":
		fmt.Fprintf(out, "std::vector<%s> data_%s;\n", name, name)
	case "EnumValues":
		fmt.Fprintf(out, "DataType_%s,\n", name)
		d.entries = append(d.entries, name)
	}
	return true
}

// FinalGenerateCode appends the terminal DataType_COUNT enumerator and
// assembles the function-pointer array: exactly one entry per Data-tagged
// class, in input-iteration order, with no trailing separator (§8 scenario
// 2: "function-pointer array has exactly two entries, no trailing comma").
func (d *DataPropertyCodeGen) FinalGenerateCode(env *codegen.Environment) bool {
	env.Section("EnumValues").WriteString("DataType_COUNT\n")

	entries := make([]string, len(d.entries))
	for i, name := range d.entries {
		entries[i] = fmt.Sprintf("&GetData_%s", name)
	}
	env.Section("FuncPtrArr").WriteString(strings.Join(entries, ",\n"))
	return true
}
