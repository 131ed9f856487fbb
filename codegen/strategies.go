package codegen

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-kodgen/kodgen/config"
	"github.com/go-kodgen/kodgen/entity"
	"github.com/go-kodgen/kodgen/logging"
	"github.com/go-kodgen/kodgen/taskpool"
)

func workerCount() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// OneGenerateForEachFile dispatches one parse task and one generate task per
// file (§5): the generate task depends on its own parse task only, so files
// pipeline independently through the pool - file B's generate can run while
// file A is still parsing. Each file gets its own Parser.Clone() and, per
// Unit, its own Unit.Clone() and Environment, so no mutable state crosses
// goroutines.
func OneGenerateForEachFile(ctx context.Context, m *Manager, files []string) (Result, error) {
	pool := taskpool.New(ctx, workerCount())
	pool.Pause()

	type parseTask = *taskpool.Task[*entity.ParsingResult]
	type genTask = *taskpool.Task[Result]

	parseTasks := make([]parseTask, len(files))
	genTasks := make([]genTask, len(files))

	for i, f := range files {
		file := f
		parser := m.Parser.Clone()

		pt := taskpool.NewTask(func() (*entity.ParsingResult, error) {
			return parser.Parse(ctx, file)
		})
		parseTasks[i] = pt
		taskpool.Submit(pool, pt)

		units := cloneUnits(m.Units)
		settings := m.Settings
		gt := taskpool.NewTask(func() (Result, error) {
			result, err := pt.Result()
			if err != nil {
				return Result{}, err
			}
			return generateForFile(units, settings, m.Logger, result)
		}, pt)
		genTasks[i] = gt
		taskpool.Submit(pool, gt)
	}

	pool.Resume()

	if err := pool.Join(); err != nil {
		return Result{}, err
	}

	results := make([]Result, 0, len(genTasks))
	for i, gt := range genTasks {
		r, err := gt.Result()
		if err != nil {
			return Result{}, fmt.Errorf("codegen: generating %s: %w", files[i], err)
		}
		results = append(results, r)
	}
	return MergeAll(results...), nil
}

// OneGenerateForAllFiles parses every file in parallel, then runs a single,
// single-threaded generate phase over the aggregated results in file order
// (§5). The original Kodgen's C++ equivalent
// (CodeGenManager.inl::oneGenerateForAllParsedFiles) captured the loop
// variable from its last iteration instead of iterating the parsingTasks
// collection, so every file's results after the first were silently
// skipped; tracking every parse task in its own slice slot here and
// indexing it explicitly avoids that bug by construction.
func OneGenerateForAllFiles(ctx context.Context, m *Manager, files []string) (Result, error) {
	pool := taskpool.New(ctx, workerCount())
	pool.Pause()

	type parseTask = *taskpool.Task[*entity.ParsingResult]
	parseTasks := make([]parseTask, len(files))

	for i, f := range files {
		file := f
		parser := m.Parser.Clone()
		pt := taskpool.NewTask(func() (*entity.ParsingResult, error) {
			return parser.Parse(ctx, file)
		})
		parseTasks[i] = pt
		taskpool.Submit(pool, pt)
	}

	pool.Resume()

	if err := pool.Join(); err != nil {
		return Result{}, err
	}

	parsedResults := make([]*entity.ParsingResult, len(parseTasks))
	for i, pt := range parseTasks {
		r, err := pt.Result()
		if err != nil {
			return Result{}, fmt.Errorf("codegen: parsing %s: %w", files[i], err)
		}
		parsedResults[i] = r
	}

	units := cloneUnits(m.Units)
	return generateForAllFiles(units, m.Settings, m.Logger, parsedResults)
}

func cloneUnits(units []Unit) []Unit {
	cloned := make([]Unit, len(units))
	for i, u := range units {
		cloned[i] = u.Clone()
	}
	return cloned
}

// generateForFile runs the full preGenerateCode -> generateCode ->
// postGenerateCode cycle for one file against a fresh Environment per unit
// (OneGenerateForEachFile: every file gets its own independent pass, which
// is what lets a Macro Unit's per-file artifact pair be emitted as soon as
// that one file's generation completes). logger is threaded into every
// Environment this file's units run against, so a PropertyCodeGen can log
// through the same Logger the rest of the run uses (§7).
func generateForFile(units []Unit, settings config.ManagerSettings, logger logging.Logger, result *entity.ParsingResult) (Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	res := Result{Completed: true, ParsedFiles: []string{result.FilePath}}
	for _, err := range result.Errors {
		res.Errors = append(res.Errors, err)
	}

	// §7 "Propagation policy": parse-stage errors make the Generate stage
	// refuse to emit for this file, without poisoning other files.
	if result.HasErrors() {
		res.Completed = false
		return res, nil
	}

	for _, u := range units {
		env := NewEnvironment(settings.OutputDirectory, settings.Naming, logger)
		env.Result = result
		if err := u.PreGenerateCode(env); err != nil {
			res.Completed = false
			res.Errors = append(res.Errors, err)
			logger.Error("preGenerateCode failed", "file", result.FilePath, "error", err.Error())
			continue
		}
		if err := u.GenerateCode(env, result); err != nil {
			res.Completed = false
			res.Errors = append(res.Errors, err)
			logger.Error("generateCode failed", "file", result.FilePath, "error", err.Error())
			continue
		}
		if err := u.PostGenerateCode(env); err != nil {
			res.Completed = false
			res.Errors = append(res.Errors, err)
			logger.Error("postGenerateCode failed", "file", result.FilePath, "error", err.Error())
		}
	}
	return res, nil
}

// generateForAllFiles runs preGenerateCode once per unit, then generateCode
// once per file against that SAME Environment (so an Aggregated Unit's
// section buffers accumulate across every file), then postGenerateCode once
// per unit to assemble and emit the combined artifact. logger is threaded
// into every Environment, and env.Result is repointed at each file's
// ParsingResult in turn as generateCode iterates them (§7, §3's CodeGenEnv
// contract).
func generateForAllFiles(units []Unit, settings config.ManagerSettings, logger logging.Logger, results []*entity.ParsingResult) (Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	res := Result{Completed: true}
	for _, r := range results {
		res.ParsedFiles = append(res.ParsedFiles, r.FilePath)
		for _, err := range r.Errors {
			res.Errors = append(res.Errors, err)
		}
		// §7 "Propagation policy": a file with parse-stage errors makes the
		// run report completed=false without poisoning the other files'
		// contribution to the aggregated artifact.
		if r.HasErrors() {
			res.Completed = false
		}
	}

	for _, u := range units {
		env := NewEnvironment(settings.OutputDirectory, settings.Naming, logger)
		if err := u.PreGenerateCode(env); err != nil {
			res.Completed = false
			res.Errors = append(res.Errors, err)
			logger.Error("preGenerateCode failed", "error", err.Error())
			continue
		}

		unitFailed := false
		for _, r := range results {
			if r.HasErrors() {
				continue
			}
			env.Result = r
			if err := u.GenerateCode(env, r); err != nil {
				res.Completed = false
				res.Errors = append(res.Errors, err)
				logger.Error("generateCode failed", "file", r.FilePath, "error", err.Error())
				unitFailed = true
				break
			}
		}
		if unitFailed {
			continue
		}

		if err := u.PostGenerateCode(env); err != nil {
			res.Completed = false
			res.Errors = append(res.Errors, err)
			logger.Error("postGenerateCode failed", "error", err.Error())
		}
	}
	return res, nil
}
