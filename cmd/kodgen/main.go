// Package main implements the kodgen CLI: `kodgen <workingDirectory>`
// loads <workingDirectory>/kodgen.yml, runs one codegen.Manager pass (or,
// with --watch, re-runs on every filesystem change under Include/), and
// translates the run's outcome into a process exit code.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/go-kodgen/kodgen/codegen"
	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/examplegen"
	"github.com/go-kodgen/kodgen/fileparser"
	"github.com/go-kodgen/kodgen/logging"
	"github.com/go-kodgen/kodgen/properties"
)

var (
	verbose bool
	watch   bool
)

var rootCmd = &cobra.Command{
	Use:   "kodgen <workingDirectory>",
	Short: "kodgen reflects annotated C/C++ declarations into generated code",
	Args:  cobra.ExactArgs(1),
	RunE:  runKodgen,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "re-run on every change under <workingDirectory>/Include")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runKodgen validates the working directory, loads configuration, builds
// the Manager and runs it once (or, under --watch, repeatedly). A non-nil
// return always becomes a non-zero exit code (§6: "exits non-zero on
// missing/invalid argument"; §7: "exit code is non-zero iff any task set
// completed=false or setup failed").
func runKodgen(cmd *cobra.Command, args []string) error {
	workingDirectory, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("kodgen: resolving working directory: %w", err)
	}

	includeDir := filepath.Join(workingDirectory, "Include")
	info, err := os.Stat(includeDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("kodgen: %s must contain an Include subdirectory", workingDirectory)
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("kodgen: building logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(filepath.Join(workingDirectory, "kodgen.yml"))
	if err != nil {
		return fmt.Errorf("kodgen: loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Parsing.Registry = properties.NewRegistry(cfg.Parsing.Strict)
	if cfg.Manager.IgnoredDirectories == nil {
		cfg.Manager.IgnoredDirectories = []string{"Generated"}
	}
	if cfg.Manager.OutputDirectory == "" {
		cfg.Manager.OutputDirectory = filepath.Join(includeDir, "Generated")
	} else if !filepath.IsAbs(cfg.Manager.OutputDirectory) {
		cfg.Manager.OutputDirectory = filepath.Join(workingDirectory, cfg.Manager.OutputDirectory)
	}

	mgr, err := buildManager(cfg, logger)
	if err != nil {
		return err
	}

	runOnce := func() error {
		result, err := mgr.Run(context.Background(), includeDir)
		if err != nil {
			return fmt.Errorf("kodgen: run failed: %w", err)
		}
		if combined := result.CombinedError(); combined != nil {
			logger.Error("generation errors", "error", combined.Error())
		}
		if !result.Completed {
			return fmt.Errorf("kodgen: run completed with errors")
		}
		logger.Info("run completed", "parsed_files", len(result.ParsedFiles), "duration", result.Duration.String())
		return nil
	}

	if !watch {
		return runOnce()
	}
	return watchAndRun(workingDirectory, includeDir, cfg.Manager.Watcher, logger, runOnce)
}

// buildManager assembles the Parser around newSource(), whose
// implementation is chosen at compile time by the "clang" build tag (see
// source_clang.go / source_default.go) - this mirrors how the teacher's own
// plugin loader (pablor21-gonnotation/parser/orchestrator.go) resolves its
// Source capability at a single seam rather than scattering the choice.
func buildManager(cfg config.Config, logger logging.Logger) (*codegen.Manager, error) {
	source, err := newSource()
	if err != nil {
		return nil, err
	}
	parser := fileparser.New(source, cfg.Parsing, logger)

	units := []codegen.Unit{
		&codegen.AggregatedUnit{
			UnitModules: []codegen.Module{dataModule()},
			Iterations:  cfg.Manager.IterationCount,
			OutputPath:  filepath.Join(cfg.Manager.OutputDirectory, "AllData.h"),
		},
		&codegen.MacroUnit{
			UnitModules:     []codegen.Module{getModule()},
			Iterations:      cfg.Manager.IterationCount,
			OutputDirectory: cfg.Manager.OutputDirectory,
			Naming: codegen.ScopedNamingPatterns{
				GeneratedHeaderFileNamePattern: cfg.Manager.Naming.GeneratedHeaderFileNamePattern,
				GeneratedSourceFileNamePattern: cfg.Manager.Naming.GeneratedSourceFileNamePattern,
				ClassFooterMacroPattern:        cfg.Manager.Naming.ClassFooterMacroPattern,
				HeaderFileFooterMacroPattern:   cfg.Manager.Naming.HeaderFileFooterMacroPattern,
			},
		},
	}

	return codegen.New(parser, units, cfg.Manager, logger)
}

func dataModule() *codegen.BaseModule {
	return &codegen.BaseModule{ModuleName: "data", CodeGens: []codegen.PropertyCodeGen{examplegen.NewDataPropertyCodeGen()}}
}

func getModule() *codegen.BaseModule {
	return &codegen.BaseModule{ModuleName: "get", CodeGens: []codegen.PropertyCodeGen{examplegen.NewGetPropertyCodeGen()}}
}

// watchAndRun wires fsnotify over includeDir (plus any AdditionalPaths),
// debouncing bursts of events via time.AfterFunc per cfg.DebounceMs before
// invoking runOnce again - grounded on config.WatcherConfig's fields, which
// pablor21-gonnotation/parser/core_config.go declares but never reads.
func watchAndRun(workingDirectory, includeDir string, watcherCfg *config.WatcherConfig, logger logging.Logger, runOnce func() error) error {
	if watcherCfg == nil {
		watcherCfg = &config.WatcherConfig{DebounceMs: 300}
	}
	debounce := time.Duration(watcherCfg.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("kodgen: starting watcher: %w", err)
	}
	defer w.Close()

	roots := append([]string{includeDir}, watcherCfg.AdditionalPaths...)
	for _, root := range roots {
		if err := addRecursive(w, root); err != nil {
			return fmt.Errorf("kodgen: watching %s: %w", root, err)
		}
	}

	if err := runOnce(); err != nil {
		logger.Error("initial run failed", "error", err.Error())
	}

	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignoredEvent(event, watcherCfg.IgnorePatterns) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				if err := runOnce(); err != nil {
					logger.Error("re-run failed", "error", err.Error())
				}
			})
		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", watchErr.Error())
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func ignoredEvent(event fsnotify.Event, patterns []string) bool {
	base := filepath.Base(event.Name)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
