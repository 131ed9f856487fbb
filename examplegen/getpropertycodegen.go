package examplegen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-kodgen/kodgen/codegen"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/properties"
)

// GetPropertyCodeGen implements the "Get" property (§8 scenarios 3-4):
// every Get-tagged field gets a getter, named by dropping a leading
// underscore and capitalizing the first letter ("_someFloat" ->
// "getSomeFloat"). The property's arguments qualify the getter's return
// type and, in the "explicit" case, suppress the out-of-line definition:
//
//   - "const": return type gains a trailing " const"
//   - "*":     return type gains a trailing " *"
//   - "&":     return type gains a trailing " &"
//   - "explicit": only the class-footer declaration is emitted, no
//     out-of-line definition is written to the source file.
type GetPropertyCodeGen struct {
	codegen.BasePropertyCodeGen
}

func NewGetPropertyCodeGen() *GetPropertyCodeGen {
	return &GetPropertyCodeGen{}
}

func (g *GetPropertyCodeGen) PropertyName() string { return "Get" }

func (g *GetPropertyCodeGen) AcceptedEntityKinds() []entity.Kind {
	return []entity.Kind{entity.KindField}
}

func (g *GetPropertyCodeGen) Clone() codegen.PropertyCodeGen {
	return &GetPropertyCodeGen{}
}

func (g *GetPropertyCodeGen) GenerateCodeForEntity(ent entity.Entity, prop properties.Simple, indexInGroup int, env *codegen.Environment, out *strings.Builder) bool {
	field, ok := ent.(*entity.Field)
	if !ok {
		return false
	}

	methodName := getterName(field.Name())

	var quals []string
	explicit := false
	for _, arg := range prop.Arguments {
		switch strings.TrimSpace(arg) {
		case "const", "*", "&":
			quals = append(quals, strings.TrimSpace(arg))
		case "explicit":
			explicit = true
		}
	}

	returnType := field.Type.CanonicalName
	if returnType == "" {
		returnType = field.Type.Name
	}

	var decl string
	if len(quals) > 0 {
		decl = fmt.Sprintf("%s  %s  %s() const;\n", returnType, strings.Join(quals, " "), methodName)
	} else {
		decl = fmt.Sprintf("%s  %s() const;\n", returnType, methodName)
	}

	// out is already resolved to this field's nearest enclosing class's
	// classFooter section by MacroUnit.GenerateCode.
	out.WriteString(decl)

	if !explicit {
		className := ""
		if owner, ok := field.Outer(); ok {
			className = owner.FullName()
		}
		fmt.Fprintf(env.Section(codegen.SectionSourceFileFooter),
			"%s %s::%s() const\n{\n\treturn %s;\n}\n\n",
			qualifiedReturnType(returnType, quals), className, methodName, field.Name())
	}

	return true
}

func qualifiedReturnType(base string, quals []string) string {
	if len(quals) == 0 {
		return base
	}
	return base + " " + strings.Join(quals, " ")
}

// getterName derives "getSomeFloat" from "_someFloat": strip a leading
// underscore, if any, then capitalize the first rune and prefix "get".
func getterName(fieldName string) string {
	trimmed := strings.TrimPrefix(fieldName, "_")
	if trimmed == "" {
		return "get"
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	return "get" + string(unicode.ToUpper(r)) + trimmed[size:]
}
