package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kodgen/kodgen/properties"
)

func TestLoadAbsentFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "kodgen.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Manager.IterationCount != 1 {
		t.Errorf("IterationCount = %d, want 1", cfg.Manager.IterationCount)
	}
	if cfg.Manager.Strategy != StrategyOneGenerateForEachFile {
		t.Errorf("Strategy = %q, want %q", cfg.Manager.Strategy, StrategyOneGenerateForEachFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kodgen.yml")
	contents := []byte(`
manager:
  output_directory: Include/Generated
  iteration_count: 2
  strategy: one_generate_for_all_files
parsing:
  compiler: clang
  strict: true
`)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Manager.IterationCount != 2 {
		t.Errorf("IterationCount = %d, want 2", cfg.Manager.IterationCount)
	}
	if cfg.Manager.Strategy != StrategyOneGenerateForAllFiles {
		t.Errorf("Strategy = %q, want one_generate_for_all_files", cfg.Manager.Strategy)
	}
	if cfg.Parsing.CompilerIdentity != CompilerClang {
		t.Errorf("CompilerIdentity = %q, want clang", cfg.Parsing.CompilerIdentity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate, got %v", err)
	}
}

func TestValidateRejectsZeroIterationCount(t *testing.T) {
	cfg := Default()
	cfg.Manager.IterationCount = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected iterationCount=0 to be rejected at setup")
	}
}

func TestMacroNamesTagForKind(t *testing.T) {
	m := DefaultMacroNames()
	tag, ok := m.TagForKind(properties.KindClass)
	if !ok || tag != "KGC" {
		t.Errorf("TagForKind(KindClass) = %q, %v, want KGC, true", tag, ok)
	}
}

func TestCompilerArgsMacroDefs(t *testing.T) {
	m := DefaultMacroNames()
	args := m.CompilerArgsMacroDefs()
	if len(args) != 8 {
		t.Fatalf("expected 8 macro defs, got %d: %v", len(args), args)
	}
}
