package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/fileparser"
	"github.com/go-kodgen/kodgen/logging"
)

// Manager coordinates one run end-to-end (§4.H): validate setup, walk the
// configured directories for candidate files, and dispatch Parse/Generate
// across the worker pool per the configured Strategy. It mirrors
// pablor21-gonnotation/parser/orchestrator.go's Orchestrator shape - a
// cloneable template (Parser, Units) plus static Settings, coordinating the
// run rather than doing the parsing/generating itself.
type Manager struct {
	Parser   *fileparser.Parser
	Units    []Unit
	Settings config.ManagerSettings
	Logger   logging.Logger
}

// New validates setup (§6/§8: a nil Parser, zero Units, or IterationCount<1
// are all rejected before any file touches disk) and returns a ready
// Manager.
func New(parser *fileparser.Parser, units []Unit, settings config.ManagerSettings, logger logging.Logger) (*Manager, error) {
	if parser == nil {
		return nil, &entity.KodgenError{Kind: entity.ErrSetupInvalid, Message: "manager requires a non-nil Parser"}
	}
	if len(units) == 0 {
		return nil, &entity.KodgenError{Kind: entity.ErrSetupInvalid, Message: "manager requires at least one Unit"}
	}
	if settings.IterationCount < 1 {
		return nil, &entity.KodgenError{Kind: entity.ErrSetupInvalid, Message: fmt.Sprintf("manager.iteration_count must be >= 1, got %d", settings.IterationCount)}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{Parser: parser, Units: units, Settings: settings, Logger: logger}, nil
}

// DiscoverFiles walks root, keeping files whose extension is in
// SupportedFileExtensions, dropping any path under an IgnoredDirectories
// entry (matched by directory-name component, not full path, so
// "Generated" excludes every "Generated" subdirectory wherever it appears -
// §6's "Include/Generated exclusion"), sorted by walk order for
// deterministic dispatch.
func (m *Manager) DiscoverFiles(root string) ([]string, error) {
	ignored := make(map[string]struct{}, len(m.Settings.IgnoredDirectories))
	for _, d := range m.Settings.IgnoredDirectories {
		ignored[d] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := ignored[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if m.hasSupportedExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("codegen: discovering files under %s: %w", root, err)
	}
	return files, nil
}

func (m *Manager) hasSupportedExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, supported := range m.Settings.SupportedFileExtensions {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}

// filesToProcess narrows a discovered file list down to the ones this run
// actually needs to touch (§6 "Incremental runs"): every file if
// ForceReparseAll or ForceRegenerateAll is set, otherwise only files where
// at least one Unit reports stale.
func (m *Manager) filesToProcess(files []string) []string {
	if m.Settings.ForceReparseAll || m.Settings.ForceRegenerateAll {
		return files
	}

	var stale []string
	for _, f := range files {
		for _, u := range m.Units {
			if !u.IsUpToDate(f) {
				stale = append(stale, f)
				break
			}
		}
	}
	return stale
}

// Run executes IterationCount passes over root's discovered files, using
// whichever strategy Settings.Strategy names. Each iteration's Result is
// merged into the run-wide total via Result.Merge.
//
// Every log line emitted during the run carries a run_id (a fresh
// google/uuid per call to Run), so a log aggregator can group one run's
// iterations together even when several Managers log to the same stream
// concurrently - mirrors pablor21-gonnotation/parser/orchestrator.go's
// request-scoped logger, generalized from a per-HTTP-request ID to a
// per-codegen-run one.
func (m *Manager) Run(ctx context.Context, root string) (Result, error) {
	runLogger := m.Logger.With("run_id", uuid.NewString())

	all, err := m.DiscoverFiles(root)
	if err != nil {
		return Result{}, err
	}

	total := Result{Completed: true}
	for i := 0; i < m.Settings.IterationCount; i++ {
		start := time.Now()

		files := m.filesToProcess(all)
		if len(files) == 0 {
			runLogger.Info("no stale files, skipping iteration", "iteration", i)
			continue
		}

		var iterResult Result
		switch m.Settings.Strategy {
		case config.StrategyOneGenerateForAllFiles:
			iterResult, err = OneGenerateForAllFiles(ctx, m, files)
		default:
			iterResult, err = OneGenerateForEachFile(ctx, m, files)
		}
		if err != nil {
			return total, fmt.Errorf("codegen: iteration %d: %w", i, err)
		}

		iterResult.Duration = time.Since(start)
		runLogger.Info("iteration finished", "iteration", i, "parsed_files", len(iterResult.ParsedFiles), "completed", iterResult.Completed)
		total = total.Merge(iterResult)
	}

	return total, nil
}
