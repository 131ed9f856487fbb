package codegen

import (
	"strings"

	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// TraversalBehavior steers the Unit's entity traversal, mirroring
// astsource.VisitResult but kept as an independent type so codegen has no
// dependency on astsource (the Unit traverses a ParsingResult's already
// materialized entity tree, not a live cursor tree).
type TraversalBehavior int

const (
	Break TraversalBehavior = iota
	Continue
	Recurse
)

// PropertyCodeGen is a user-provided generator keyed on a property name
// and the entity kinds it applies to (§4.E-F). The `out` buffer belongs to
// the caller (the Unit); a hook appends to it and reports success.
type PropertyCodeGen interface {
	PropertyName() string
	AcceptedEntityKinds() []entity.Kind

	InitialGenerateCode(env *Environment) bool

	// PreGenerateCodeForEntity is an optional validator run before
	// GenerateCodeForEntity; returning false with a message rejects the
	// property occurrence (recorded by Traverse as an
	// entity.ErrModuleRejectedEntity KodgenError, without aborting the rest
	// of the entity's properties).
	PreGenerateCodeForEntity(ent entity.Entity, prop properties.Simple, indexInGroup int, env *Environment) (ok bool, message string)

	GenerateCodeForEntity(ent entity.Entity, prop properties.Simple, indexInGroup int, env *Environment, out *strings.Builder) bool

	FinalGenerateCode(env *Environment) bool

	// Clone returns an independent copy for per-worker duplication (§9
	// "Polymorphism": cloneable is essential so the Manager can give every
	// worker its own copy instead of sharing mutable state).
	Clone() PropertyCodeGen
}

// BasePropertyCodeGen is embeddable by concrete PropertyCodeGens that don't
// need InitialGenerateCode/FinalGenerateCode/PreGenerateCodeForEntity hooks.
type BasePropertyCodeGen struct{}

func (BasePropertyCodeGen) InitialGenerateCode(*Environment) bool { return true }
func (BasePropertyCodeGen) FinalGenerateCode(*Environment) bool   { return true }
func (BasePropertyCodeGen) PreGenerateCodeForEntity(entity.Entity, properties.Simple, int, *Environment) (bool, string) {
	return true, ""
}

// Module aggregates PropertyCodeGens and, optionally, its own whole-entity
// hooks (§4.E-F). It is cloneable for the same reason PropertyCodeGen is.
type Module interface {
	Name() string
	PropertyCodeGens() []PropertyCodeGen

	// GenerateCodeForEntity runs the module's own whole-entity hook (if
	// any) before its PropertyCodeGens fan out over the entity's
	// properties; returning Continue skips the subtree, Break stops the
	// whole traversal, Recurse (the common case) continues normally.
	GenerateCodeForEntity(ent entity.Entity, env *Environment, out *strings.Builder) TraversalBehavior

	Clone() Module
}

// BaseModule is embeddable by modules with no whole-entity hook of their
// own - just a PropertyCodeGen bag.
type BaseModule struct {
	ModuleName string
	CodeGens   []PropertyCodeGen
}

func (m BaseModule) Name() string                        { return m.ModuleName }
func (m BaseModule) PropertyCodeGens() []PropertyCodeGen { return m.CodeGens }
func (m BaseModule) GenerateCodeForEntity(entity.Entity, *Environment, *strings.Builder) TraversalBehavior {
	return Recurse
}

// Clone deep-copies CodeGens so per-worker duplication never shares a
// PropertyCodeGen's mutable state; embedders with their own fields should
// shadow this with a Clone that also copies those fields.
func (m BaseModule) Clone() Module {
	cloned := make([]PropertyCodeGen, len(m.CodeGens))
	for i, pcg := range m.CodeGens {
		cloned[i] = pcg.Clone()
	}
	return BaseModule{ModuleName: m.ModuleName, CodeGens: cloned}
}
