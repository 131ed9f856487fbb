package properties

import (
	"testing"
)

func TestParseSimpleProperties(t *testing.T) {
	syntax := DefaultSyntax()

	cases := []struct {
		name string
		in   string
		want Group
	}{
		{
			name: "no arguments",
			in:   "Data",
			want: Group{Properties: []Simple{{Name: "Data"}}},
		},
		{
			name: "single argument",
			in:   "Get[explicit]",
			want: Group{Properties: []Simple{{Name: "Get", Arguments: []string{"explicit"}}}},
		},
		{
			name: "multiple properties and arguments",
			in:   "Get[const,*],Set",
			want: Group{Properties: []Simple{
				{Name: "Get", Arguments: []string{"const", "*"}},
				{Name: "Set"},
			}},
		},
		{
			name: "empty property group",
			in:   "",
			want: Group{},
		},
		{
			name: "property with zero arguments but present enclosers",
			in:   "Foo[]",
			want: Group{Properties: []Simple{{Name: "Foo"}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in, KindField, syntax)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.in, err)
			}
			if len(got.Properties) != len(tc.want.Properties) {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
			for i := range got.Properties {
				if got.Properties[i].Name != tc.want.Properties[i].Name {
					t.Errorf("property %d name = %q, want %q", i, got.Properties[i].Name, tc.want.Properties[i].Name)
				}
				if len(got.Properties[i].Arguments) != len(tc.want.Properties[i].Arguments) {
					t.Errorf("property %d arguments = %v, want %v", i, got.Properties[i].Arguments, tc.want.Properties[i].Arguments)
				}
			}
		})
	}
}

func TestParseRejectsNestedEncloser(t *testing.T) {
	syntax := DefaultSyntax()

	// An argument cannot itself contain the argument separator or a
	// nested encloser: "a[1,2]" is not a valid single argument.
	_, err := Parse("Prop[a[1,2]]", KindField, syntax)
	if err == nil {
		t.Fatal("expected a MalformedProperty-equivalent error for a nested encloser, got nil")
	}
}

func TestRoundTrip(t *testing.T) {
	syntax := DefaultSyntax()

	inputs := []string{
		"Data",
		"Get[explicit]",
		"Get[const,*],Set",
		"Foo,Bar[1,2,3],Baz",
	}

	for _, in := range inputs {
		g1, err := Parse(in, KindField, syntax)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		serialized := Serialize(g1, syntax)
		g2, err := Parse(serialized, KindField, syntax)
		if err != nil {
			t.Fatalf("re-Parse(%q) failed: %v", serialized, err)
		}
		if len(g1.Properties) != len(g2.Properties) {
			t.Fatalf("round trip mismatch for %q: %+v vs %+v", in, g1, g2)
		}
		for i := range g1.Properties {
			if g1.Properties[i].Name != g2.Properties[i].Name {
				t.Errorf("round trip name mismatch for %q: %q vs %q", in, g1.Properties[i].Name, g2.Properties[i].Name)
			}
		}
	}
}

func TestRegistryStrictUnknownProperty(t *testing.T) {
	reg := NewRegistry(true)
	reg.Register(KindField, "Get", BaseRule{})

	group := Group{EntityKind: KindField, Properties: []Simple{{Name: "NotARule"}}}
	err := reg.Validate(group, nil)
	if err == nil {
		t.Fatal("expected UnknownProperty validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok || !verr.Unknown {
		t.Fatalf("expected an Unknown ValidationError, got %#v", err)
	}
}

func TestRegistryPermissiveUnknownProperty(t *testing.T) {
	reg := NewRegistry(false)
	group := Group{EntityKind: KindField, Properties: []Simple{{Name: "Whatever"}}}
	if err := reg.Validate(group, nil); err != nil {
		t.Fatalf("expected permissive registry to accept unknown property, got %v", err)
	}
}
