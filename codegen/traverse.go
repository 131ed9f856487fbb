package codegen

import (
	"fmt"
	"strings"

	"github.com/go-kodgen/kodgen/entity"
)

// outFor resolves the buffer a given entity's generated code should land
// in; Macro Unit and Aggregated Unit supply different strategies (see
// macrounit.go / aggregatedunit.go).
type outFor func(ent entity.Entity) *strings.Builder

// Traverse implements §4.G step 2: for every entity in traversal order, for
// every module, call module.GenerateCodeForEntity and fan out to matching
// PropertyCodeGen.GenerateCodeForEntity for each property occurrence
// attached to that entity, in property-group textual order (§5 "Ordering
// guarantees"). It returns false (stopping immediately) if any module
// signals Break. A PropertyCodeGen.GenerateCodeForEntity returning false
// does not stop the traversal - it is recorded as a ModuleRejectedEntity
// KodgenError in the returned slice (§7) and the remaining properties/
// entities still run.
func Traverse(modules []Module, entities []entity.Entity, env *Environment, resolve outFor) (bool, []error) {
	var errs []error
	for _, ent := range entities {
		ok, entErrs := traverseOne(modules, ent, env, resolve)
		errs = append(errs, entErrs...)
		if !ok {
			return false, errs
		}
	}
	return true, errs
}

func traverseOne(modules []Module, ent entity.Entity, env *Environment, resolve outFor) (bool, []error) {
	out := resolve(ent)
	var errs []error

	for _, mod := range modules {
		switch mod.GenerateCodeForEntity(ent, env, out) {
		case Break:
			return false, errs
		case Continue:
			return true, errs
		default: // Recurse
		}

		errs = append(errs, fanOutProperties(mod, ent, env, out)...)
	}

	for _, child := range children(ent) {
		ok, childErrs := traverseOne(modules, child, env, resolve)
		errs = append(errs, childErrs...)
		if !ok {
			return false, errs
		}
	}
	return true, errs
}

// fanOutProperties invokes every PropertyCodeGen registered on mod whose
// PropertyName matches a property attached to ent and whose
// AcceptedEntityKinds includes ent.Kind, once per occurrence, with
// indexInGroup reflecting the occurrence's position in its group. A
// GenerateCodeForEntity call that returns false is recorded as a
// ModuleRejectedEntity error rather than silently dropped.
func fanOutProperties(mod Module, ent entity.Entity, env *Environment, out *strings.Builder) []error {
	var errs []error
	for _, group := range ent.Properties() {
		for i, prop := range group.Properties {
			for _, pcg := range mod.PropertyCodeGens() {
				if pcg.PropertyName() != prop.Name || !acceptsKind(pcg, ent.Kind()) {
					continue
				}
				if ok, msg := pcg.PreGenerateCodeForEntity(ent, prop, i, env); !ok {
					errs = append(errs, &entity.KodgenError{
						Kind:     entity.ErrModuleRejectedEntity,
						Location: ent.Location(),
						Message:  fmt.Sprintf("module %q property %q rejected %q before generation: %s", mod.Name(), pcg.PropertyName(), ent.FullName(), msg),
					})
					continue
				}
				if !pcg.GenerateCodeForEntity(ent, prop, i, env, out) {
					errs = append(errs, &entity.KodgenError{
						Kind:     entity.ErrModuleRejectedEntity,
						Location: ent.Location(),
						Message:  fmt.Sprintf("module %q property %q rejected %q", mod.Name(), pcg.PropertyName(), ent.FullName()),
					})
				}
			}
		}
	}
	return errs
}

func acceptsKind(pcg PropertyCodeGen, kind entity.Kind) bool {
	for _, k := range pcg.AcceptedEntityKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// children returns ent's nested reflected entities, if its concrete type
// carries any (Namespace.Children, Class's Fields/Methods/Nested); leaf
// kinds return nil. Fields and Methods must be included here - not just
// Nested - or a Field/Method-scoped PropertyCodeGen (e.g. examplegen's
// "Get") would never be reached by Traverse at all.
func children(ent entity.Entity) []entity.Entity {
	switch e := ent.(type) {
	case *entity.Namespace:
		return e.Children
	case *entity.Class:
		kids := make([]entity.Entity, 0, len(e.Fields)+len(e.Methods)+len(e.Nested))
		for _, f := range e.Fields {
			kids = append(kids, f)
		}
		for _, m := range e.Methods {
			kids = append(kids, m)
		}
		kids = append(kids, e.Nested...)
		return kids
	default:
		return nil
	}
}
