package codegen

import (
	"time"

	"go.uber.org/multierr"
)

// Result is the per-task (and, merged, per-run) outcome (§4.H, §7).
type Result struct {
	Completed   bool
	ParsedFiles []string
	Duration    time.Duration
	Errors      []error
}

// Merge combines r and other into a new Result: Completed is the AND of
// both, ParsedFiles is their set-union (order-independent - §8 requires
// Merge be associative and commutative on ParsedFiles), Duration is the
// larger of the two (wall-clock from run start to join, so merging
// concurrent tasks' durations takes the max, not the sum), and Errors is
// concatenated.
func (r Result) Merge(other Result) Result {
	seen := make(map[string]struct{}, len(r.ParsedFiles)+len(other.ParsedFiles))
	var union []string
	for _, list := range [][]string{r.ParsedFiles, other.ParsedFiles} {
		for _, f := range list {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			union = append(union, f)
		}
	}

	duration := r.Duration
	if other.Duration > duration {
		duration = other.Duration
	}

	return Result{
		Completed:   r.Completed && other.Completed,
		ParsedFiles: union,
		Duration:    duration,
		Errors:      append(append([]error{}, r.Errors...), other.Errors...),
	}
}

// MergeAll folds Merge over results, starting from an empty, Completed=true
// identity Result (the identity for AND and set-union).
func MergeAll(results ...Result) Result {
	agg := Result{Completed: true}
	for _, r := range results {
		agg = agg.Merge(r)
	}
	return agg
}

// CombinedError folds r.Errors into one error via multierr, so a caller
// that only wants "was there a problem, and what" (cmd/kodgen's exit path)
// can still errors.As into a specific entity.ParsingError out of the
// combined value - multierr preserves that, a naive strings.Join would not.
func (r Result) CombinedError() error {
	return multierr.Combine(r.Errors...)
}
