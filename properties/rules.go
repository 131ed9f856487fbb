package properties

import "fmt"

// Rule validates a single simple property once it has been parsed,
// mirroring pablor21-gonnotation/parser/validator.go's per-(kind,name)
// rule lookup and Kodgen/Include/.../ParseAllNestedPropertyRule.h's
// permissive pass-through rule.
type Rule interface {
	// IsMainSyntaxValid reports whether this rule accepts the raw
	// argument count/shape before any semantic check (e.g. a rule that
	// takes no arguments can reject a non-empty argument list outright).
	IsMainSyntaxValid(prop Simple) (ok bool, errMessage string)

	// IsGroupValid is called once the property is known to belong to a
	// group; indexInGroup is its 0-based position, letting a rule enforce
	// e.g. "must be the first property".
	IsGroupValid(group Group, indexInGroup int) (ok bool, errMessage string)

	// IsEntityValid is a hook for rules that need to inspect the entity
	// the property is attached to; entity is passed as `any` to avoid an
	// import cycle with package entity (fileparser is the only caller and
	// always passes a concrete *entity.X).
	IsEntityValid(ent any, indexInGroup int) (ok bool, errMessage string)
}

// BaseRule is embeddable by concrete rules that only care about one of
// the three hooks; it accepts everything by default.
type BaseRule struct{}

func (BaseRule) IsMainSyntaxValid(Simple) (bool, string) { return true, "" }
func (BaseRule) IsGroupValid(Group, int) (bool, string)  { return true, "" }
func (BaseRule) IsEntityValid(any, int) (bool, string)   { return true, "" }

// ParseAllNestedRule is the permissive pass-through rule used in
// non-strict mode for unrecognized property names - it accepts any
// arguments without validation, mirroring
// Kodgen/Include/.../ParseAllNestedPropertyRule.h.
type ParseAllNestedRule struct{ BaseRule }

// Registry maps (entity kind, property name) to the Rule that governs it.
type Registry struct {
	rules  map[Kind]map[string]Rule
	strict bool
}

// NewRegistry creates an empty registry. strict controls the behaviour for
// properties with no registered rule: true rejects them as UnknownProperty,
// false passes them through ParseAllNestedRule.
func NewRegistry(strict bool) *Registry {
	return &Registry{rules: make(map[Kind]map[string]Rule), strict: strict}
}

// Register associates a rule with a (kind, propertyName) pair.
func (r *Registry) Register(kind Kind, propertyName string, rule Rule) {
	if r.rules[kind] == nil {
		r.rules[kind] = make(map[string]Rule)
	}
	r.rules[kind][propertyName] = rule
}

// Lookup returns the rule for (kind, name), falling back to
// ParseAllNestedRule when not strict and nothing is registered.
func (r *Registry) Lookup(kind Kind, name string) (Rule, bool) {
	if byName, ok := r.rules[kind]; ok {
		if rule, ok := byName[name]; ok {
			return rule, true
		}
	}
	if !r.strict {
		return ParseAllNestedRule{}, true
	}
	return nil, false
}

// ValidationError reports a rule rejecting a property, or a property name
// with no matching rule under strict mode.
type ValidationError struct {
	PropertyName string
	Unknown      bool
	Message      string
}

func (e *ValidationError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown property %q", e.PropertyName)
	}
	return fmt.Sprintf("property %q rejected: %s", e.PropertyName, e.Message)
}

// Validate runs every rule hook (main syntax, group, entity) for every
// simple property in group, in group order, returning the first failure.
// ent is forwarded to Rule.IsEntityValid untyped; fileparser always
// supplies the concrete entity pointer the group is attached to.
func (r *Registry) Validate(group Group, ent any) error {
	for i, prop := range group.Properties {
		rule, ok := r.Lookup(group.EntityKind, prop.Name)
		if !ok {
			return &ValidationError{PropertyName: prop.Name, Unknown: true}
		}

		if ok, msg := rule.IsMainSyntaxValid(prop); !ok {
			return &ValidationError{PropertyName: prop.Name, Message: msg}
		}
		if ok, msg := rule.IsGroupValid(group, i); !ok {
			return &ValidationError{PropertyName: prop.Name, Message: msg}
		}
		if ok, msg := rule.IsEntityValid(ent, i); !ok {
			return &ValidationError{PropertyName: prop.Name, Message: msg}
		}
	}
	return nil
}
