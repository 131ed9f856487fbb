// Package properties decodes annotation payload strings into structured
// property groups and validates them against entity-kind-scoped rules.
//
// Grammar (characters configurable via Syntax):
//
//	group      ::= property (PROP_SEP property)*
//	property   ::= NAME ( ENC_OPEN arg (ARG_SEP arg)* ENC_CLOSE )?
//	arg        ::= any characters except ARG_SEP, ENC_CLOSE (trimmed)
//
// This mirrors pablor21-gonnotation/annotations/parser.go's annotation
// payload grammar (there: @name(key:value,...) / @name key="value"); here
// the payload has no leading '@' and no key:value pairs, only an ordered
// argument list, per the C++ source's KGX(...) macro payload shape.
package properties

import (
	"fmt"
	"strings"
)

// Syntax carries the four configurable separator/encloser characters.
type Syntax struct {
	PropertySeparator rune // typical ','
	ArgumentEncloserL rune // typical '['
	ArgumentEncloserR rune // typical ']'
	ArgumentSeparator rune // typical ','
}

// DefaultSyntax matches the original Kodgen defaults.
func DefaultSyntax() Syntax {
	return Syntax{
		PropertySeparator: ',',
		ArgumentEncloserL: '[',
		ArgumentEncloserR: ']',
		ArgumentSeparator: ',',
	}
}

// Simple is a single property occurrence: a name plus its ordered,
// untyped textual arguments. Arguments are raw fragments - no type
// inference is performed here, generators interpret them (e.g. the
// "Get" property's "const"/"*"/"&"/"explicit" arguments in examplegen).
type Simple struct {
	Name      string
	Arguments []string
}

// Kind identifies the entity kind a Group/Rule is scoped to. It mirrors
// entity.Kind's values without importing package entity (which itself
// imports properties for Group) - fileparser bridges the two with
// identical underlying values.
type Kind int

const (
	KindNamespace Kind = iota
	KindClass
	KindStruct
	KindField
	KindMethod
	KindFunction
	KindEnum
	KindEnumValue
)

// Group is an ordered sequence of simple properties parsed from one
// annotation payload, tagged with the entity kind it was parsed for.
type Group struct {
	EntityKind Kind
	Properties []Simple
}

// ParseError reports a malformed-syntax failure at a specific rune offset
// within the payload text.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed property syntax at offset %d: %s", e.Offset, e.Message)
}

// Parse decodes an annotation payload string into a Group for the given
// entity kind tag. It performs no rule validation; see Registry.Validate
// for that.
func Parse(text string, entityKind Kind, syntax Syntax) (Group, error) {
	group := Group{EntityKind: entityKind}

	text = strings.TrimSpace(text)
	if text == "" {
		return group, nil
	}

	for _, propText := range splitOutsideArgs(text, syntax.PropertySeparator, syntax.ArgumentEncloserL, syntax.ArgumentEncloserR) {
		propText = strings.TrimSpace(propText)
		if propText == "" {
			continue
		}
		simple, err := parseSimple(propText, syntax)
		if err != nil {
			return Group{}, err
		}
		group.Properties = append(group.Properties, simple)
	}

	return group, nil
}

// parseSimple decodes one "NAME" or "NAME[arg,arg,...]" occurrence. The
// grammar defines arg as "any characters except ARG_SEP, ENC_CLOSE" - it
// does NOT support nested enclosers, so the argument list closes at the
// FIRST ENC_CLOSE; anything left over is trailing garbage and a malformed
// nested encloser (§8: "argument containing the argument-separator inside
// a nested encloser - forbidden") surfaces as trailing, unconsumed text.
func parseSimple(text string, syntax Syntax) (Simple, error) {
	openIdx := strings.IndexRune(text, syntax.ArgumentEncloserL)
	if openIdx == -1 {
		if strings.ContainsRune(text, syntax.ArgumentEncloserR) {
			return Simple{}, &ParseError{Offset: strings.IndexRune(text, syntax.ArgumentEncloserR), Message: "unexpected argument encloser close without a matching open"}
		}
		return Simple{Name: strings.TrimSpace(text)}, nil
	}

	name := strings.TrimSpace(text[:openIdx])

	rest := []rune(text[openIdx+1:])
	closeOffset := -1
	for i, r := range rest {
		if r == syntax.ArgumentEncloserR {
			closeOffset = i
			break
		}
	}
	if closeOffset == -1 {
		return Simple{}, &ParseError{Offset: openIdx, Message: "unterminated argument list"}
	}

	argsText := string(rest[:closeOffset])
	trailing := strings.TrimSpace(string(rest[closeOffset+1:]))
	if trailing != "" {
		return Simple{}, &ParseError{Offset: openIdx + 2 + closeOffset, Message: "unexpected characters after argument list close (nested enclosers are not supported)"}
	}

	var args []string
	if strings.TrimSpace(argsText) != "" {
		for _, a := range strings.Split(argsText, string(syntax.ArgumentSeparator)) {
			a = strings.TrimSpace(a)
			if strings.ContainsRune(a, syntax.ArgumentEncloserL) || strings.ContainsRune(a, syntax.ArgumentEncloserR) {
				return Simple{}, &ParseError{Offset: openIdx, Message: "nested argument enclosers are not supported"}
			}
			args = append(args, a)
		}
	}

	return Simple{Name: name, Arguments: args}, nil
}

// splitOutsideArgs splits s on sep, except while inside a single
// (non-nestable) encloserL..encloserR span - so "Get[const,*],Set" splits
// into ["Get[const,*]", "Set"] at the PROP_SEP comma, while the ARG_SEP
// commas inside "[...]" are left alone for parseSimple to split instead.
// Extra encloserL runes encountered while already inside a span are NOT
// treated as nesting (the grammar has none); they're just part of the
// span's raw text, and parseSimple below is what ultimately rejects a
// nested encloser as malformed.
func splitOutsideArgs(s string, sep, encloserL, encloserR rune) []string {
	var parts []string
	var current strings.Builder
	insideArgs := false

	for _, r := range s {
		switch {
		case r == encloserL && !insideArgs:
			insideArgs = true
			current.WriteRune(r)
		case r == encloserR && insideArgs:
			insideArgs = false
			current.WriteRune(r)
		case r == sep && !insideArgs:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// Serialize re-renders a Group using the given syntax, the inverse of
// Parse; used by the round-trip property test in §8.
func Serialize(g Group, syntax Syntax) string {
	parts := make([]string, 0, len(g.Properties))
	for _, p := range g.Properties {
		if len(p.Arguments) == 0 {
			parts = append(parts, p.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%c%s%c", p.Name, syntax.ArgumentEncloserL, strings.Join(p.Arguments, string(syntax.ArgumentSeparator)), syntax.ArgumentEncloserR))
	}
	return strings.Join(parts, string(syntax.PropertySeparator))
}
