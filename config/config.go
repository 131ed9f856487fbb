// Package config holds every tunable surface of a kodgen run: parsing
// settings (annotation macros, property syntax, rule registry), manager/unit
// settings (output directory, naming patterns, strategy flags) and the
// watcher configuration, loaded from a YAML file via gopkg.in/yaml.v3,
// grounded on pablor21-gonnotation/parser/core_config.go's CoreConfig/
// WatcherConfig shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-kodgen/kodgen/properties"
)

// CompilerIdentity names the compiler whose include conventions and
// built-in macros the AstSource adapter should emulate.
type CompilerIdentity string

const (
	CompilerGCC   CompilerIdentity = "gcc"
	CompilerClang CompilerIdentity = "clang"
	CompilerMSVC  CompilerIdentity = "msvc"
)

// Syntax is the YAML-serializable form of properties.Syntax.
type Syntax struct {
	PropertySeparator string `yaml:"property_separator,omitempty"`
	ArgumentEncloserL string `yaml:"argument_encloser_open,omitempty"`
	ArgumentEncloserR string `yaml:"argument_encloser_close,omitempty"`
	ArgumentSeparator string `yaml:"argument_separator,omitempty"`
}

// ToProperties converts to properties.Syntax, falling back to
// properties.DefaultSyntax() for any unset field.
func (s Syntax) ToProperties() properties.Syntax {
	def := properties.DefaultSyntax()
	out := def
	if r, ok := firstRune(s.PropertySeparator); ok {
		out.PropertySeparator = r
	}
	if r, ok := firstRune(s.ArgumentEncloserL); ok {
		out.ArgumentEncloserL = r
	}
	if r, ok := firstRune(s.ArgumentEncloserR); ok {
		out.ArgumentEncloserR = r
	}
	if r, ok := firstRune(s.ArgumentSeparator); ok {
		out.ArgumentSeparator = r
	}
	return out
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// MacroNames are the per-kind annotation macro identifiers
// (namespaceMacroName, classMacroName, ...) whose compiler-arg rewrites
// cause annotations to survive as KGx-tagged attribute payloads.
type MacroNames struct {
	Namespace string `yaml:"namespace,omitempty"`
	Class     string `yaml:"class,omitempty"`
	Struct    string `yaml:"struct,omitempty"`
	Field     string `yaml:"field,omitempty"`
	Method    string `yaml:"method,omitempty"`
	Enum      string `yaml:"enum,omitempty"`
	EnumValue string `yaml:"enum_value,omitempty"`
	Function  string `yaml:"function,omitempty"`
}

// DefaultMacroNames matches the original Kodgen macro identifiers.
func DefaultMacroNames() MacroNames {
	return MacroNames{
		Namespace: "KGNamespace",
		Class:     "KGClass",
		Struct:    "KGStruct",
		Field:     "KGField",
		Method:    "KGMethod",
		Enum:      "KGEnum",
		EnumValue: "KGEnumVal",
		Function:  "KGFunction",
	}
}

// ParsingSettings drives the File Parser (§4.D) and Property Parser (§4.B).
type ParsingSettings struct {
	Macros                  MacroNames       `yaml:"macros,omitempty"`
	Syntax                  Syntax           `yaml:"syntax,omitempty"`
	ShouldAbortOnFirstError bool             `yaml:"abort_on_first_error,omitempty"`
	CompilerIdentity        CompilerIdentity `yaml:"compiler,omitempty"`
	IncludeSearchRoots      []string         `yaml:"include_search_roots,omitempty"`

	// Strict toggles the rule Registry's unknown-property behavior: true
	// rejects, false passes through properties.ParseAllNestedRule.
	Strict bool `yaml:"strict,omitempty"`

	// Registry is not YAML-serializable (Rule is a capability set); it is
	// populated by the embedding program (cmd/kodgen or examplegen) after
	// loading the rest of this struct from YAML.
	Registry *properties.Registry `yaml:"-"`
}

// TagForKind returns the KGx tag a recognized macro name expands to for the
// given entity kind (e.g. Macros.Class -> "KGC"), per §6's tag alphabet
// KGN, KGC, KGS, KGF, KGM, KGE, KGEV, KGFN.
func (m MacroNames) TagForKind(kind properties.Kind) (string, bool) {
	switch kind {
	case properties.KindNamespace:
		return "KGN", true
	case properties.KindClass:
		return "KGC", true
	case properties.KindStruct:
		return "KGS", true
	case properties.KindField:
		return "KGF", true
	case properties.KindMethod:
		return "KGM", true
	case properties.KindEnum:
		return "KGE", true
	case properties.KindEnumValue:
		return "KGEV", true
	case properties.KindFunction:
		return "KGFN", true
	default:
		return "", false
	}
}

// CompilerArgsMacroDefs renders the `-D MACRO(...)=__attribute__((annotate("TAG:" #__VA_ARGS__)))`
// rewrites §4.C requires every AstSource.Index.ParseFile call to pass, so
// that each annotation macro survives indexing as a KGx-tagged attribute.
func (m MacroNames) CompilerArgsMacroDefs() []string {
	defs := []struct{ name, tag string }{
		{m.Namespace, "KGN"},
		{m.Class, "KGC"},
		{m.Struct, "KGS"},
		{m.Field, "KGF"},
		{m.Method, "KGM"},
		{m.Enum, "KGE"},
		{m.EnumValue, "KGEV"},
		{m.Function, "KGFN"},
	}
	args := make([]string, 0, len(defs))
	for _, d := range defs {
		if d.name == "" {
			continue
		}
		args = append(args, fmt.Sprintf(`-D%s(...)=__attribute__((annotate("%s:" #__VA_ARGS__)))`, d.name, d.tag))
	}
	return args
}

// NamingPatterns are the Manager/Unit filename and macro templates (§6),
// using the ##FILENAME## / ##CLASSFULLNAME## substitution tokens.
type NamingPatterns struct {
	GeneratedHeaderFileNamePattern string `yaml:"generated_header_file_name_pattern,omitempty"`
	GeneratedSourceFileNamePattern string `yaml:"generated_source_file_name_pattern,omitempty"`
	ClassFooterMacroPattern        string `yaml:"class_footer_macro_pattern,omitempty"`
	HeaderFileFooterMacroPattern   string `yaml:"header_file_footer_macro_pattern,omitempty"`
}

// DefaultNamingPatterns matches the original Kodgen example generator.
func DefaultNamingPatterns() NamingPatterns {
	return NamingPatterns{
		GeneratedHeaderFileNamePattern: "##FILENAME##.kodgen.h",
		GeneratedSourceFileNamePattern: "##FILENAME##.kodgen.cpp",
		ClassFooterMacroPattern:        "##CLASSFULLNAME##_GENERATED",
		HeaderFileFooterMacroPattern:   "File_##FILENAME##_GENERATED",
	}
}

// Strategy selects one of the two Manager dispatch strategies (§5); the
// flag enum exists only at this configuration boundary per §9's "Strategy
// coupling" design note - codegen.Manager exposes two distinct entry points,
// not a single branching method.
type Strategy string

const (
	StrategyOneGenerateForEachFile Strategy = "one_generate_for_each_file"
	StrategyOneGenerateForAllFiles Strategy = "one_generate_for_all_files"
)

// WatcherConfig controls the supplemented --watch mode (fsnotify-driven),
// grounded verbatim on pablor21-gonnotation/parser/core_config.go's
// WatcherConfig, which the teacher declared but never wired into its CLI.
type WatcherConfig struct {
	Enabled         bool     `yaml:"enabled,omitempty"`
	DebounceMs      int      `yaml:"debounce_ms,omitempty"`
	AdditionalPaths []string `yaml:"additional_paths,omitempty"`
	IgnorePatterns  []string `yaml:"ignore_patterns,omitempty"`
}

// ManagerSettings is the Manager & Unit configuration surface (§6).
type ManagerSettings struct {
	OutputDirectory         string         `yaml:"output_directory"`
	Naming                  NamingPatterns `yaml:"naming,omitempty"`
	SupportedFileExtensions []string       `yaml:"supported_file_extensions,omitempty"`
	IgnoredDirectories      []string       `yaml:"ignored_directories,omitempty"`
	Strategy                Strategy       `yaml:"strategy,omitempty"`
	IterationCount          int            `yaml:"iteration_count,omitempty"`
	ForceReparseAll         bool           `yaml:"force_reparse_all,omitempty"`
	ForceRegenerateAll      bool           `yaml:"force_regenerate_all,omitempty"`
	Watcher                 *WatcherConfig `yaml:"watcher,omitempty"`
}

// DefaultManagerSettings fills in the non-zero Kodgen defaults.
func DefaultManagerSettings() ManagerSettings {
	return ManagerSettings{
		OutputDirectory:         "Include/Generated",
		Naming:                  DefaultNamingPatterns(),
		SupportedFileExtensions: []string{".h", ".hpp"},
		Strategy:                StrategyOneGenerateForEachFile,
		IterationCount:          1,
	}
}

// Config is the root of kodgen.yml.
type Config struct {
	Parsing ParsingSettings `yaml:"parsing,omitempty"`
	Manager ManagerSettings `yaml:"manager,omitempty"`
}

// Default returns a Config with every documented default applied; Load
// overlays it with whatever the YAML file specifies.
func Default() Config {
	return Config{
		Parsing: ParsingSettings{Macros: DefaultMacroNames(), Strict: true},
		Manager: DefaultManagerSettings(),
	}
}

// Load reads and parses a kodgen.yml file at path, starting from Default()
// so an absent or partial file still yields a usable configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Manager.IterationCount == 0 {
		cfg.Manager.IterationCount = 1
	}

	return cfg, nil
}

// Validate enforces the setup-time invariants from §6/§8 ("iterationCount=0
// is rejected at setup").
func (c Config) Validate() error {
	if c.Manager.IterationCount < 1 {
		return fmt.Errorf("config: manager.iteration_count must be >= 1, got %d", c.Manager.IterationCount)
	}
	if c.Manager.Strategy != StrategyOneGenerateForEachFile && c.Manager.Strategy != StrategyOneGenerateForAllFiles {
		return fmt.Errorf("config: manager.strategy must be %q or %q, got %q", StrategyOneGenerateForEachFile, StrategyOneGenerateForAllFiles, c.Manager.Strategy)
	}
	switch c.Parsing.CompilerIdentity {
	case "", CompilerGCC, CompilerClang, CompilerMSVC:
	default:
		return fmt.Errorf("config: unsupported compiler identity %q", c.Parsing.CompilerIdentity)
	}
	return nil
}
