// Package taskpool implements the small task-with-dependencies DAG
// scheduler from §5/§9: tasks are closures with typed results and an
// explicit dependency list, run across a bounded worker pool built on
// golang.org/x/sync's semaphore and errgroup, with a pause-submission flag
// so a Manager can bulk-submit an iteration's tasks before any worker
// starts consuming them.
package taskpool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TaskHandle is the untyped half of a Task, letting a dependent wait on a
// dependency of a different result type without importing its type
// parameter; retrieving the actual result is still type-checked, via
// Task[T].Result on the concrete handle the submitter already holds.
type TaskHandle interface {
	// Done is closed once the task has run (successfully or not).
	Done() <-chan struct{}

	// Err reports the task's failure, if any, once Done is closed.
	Err() error
}

// Task is one closure plus its typed result slot and dependency list.
type Task[T any] struct {
	fn   func() (T, error)
	deps []TaskHandle

	done   chan struct{}
	result T
	err    error
}

// NewTask creates a task that runs fn only after every dep's Done channel
// has closed.
func NewTask[T any](fn func() (T, error), deps ...TaskHandle) *Task[T] {
	return &Task[T]{fn: fn, deps: deps, done: make(chan struct{})}
}

func (t *Task[T]) Done() <-chan struct{} { return t.done }
func (t *Task[T]) Err() error            { return t.err }

// Result blocks until the task has run and returns its typed result.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.result, t.err
}

// Pool is a bounded worker pool that runs submitted Tasks, respecting their
// dependency lists. A dependency wait never consumes a worker slot - only
// the task's own fn() does - so a batch of interdependent tasks can never
// deadlock on pool capacity.
type Pool struct {
	sem *semaphore.Weighted
	eg  *errgroup.Group
	ctx context.Context

	mu     sync.Mutex
	paused bool
	queued []func()
}

// New creates a Pool with the given worker concurrency limit, running under
// ctx (cancelled if any task's fn returns a non-nil error, per
// errgroup.WithContext).
func New(ctx context.Context, workers int) *Pool {
	eg, egCtx := errgroup.WithContext(ctx)
	return &Pool{
		sem: semaphore.NewWeighted(int64(workers)),
		eg:  eg,
		ctx: egCtx,
	}
}

// Pause defers every subsequent Submit until Resume is called, letting a
// caller queue a whole iteration's Parse/Generate tasks atomically.
func (p *Pool) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

// Resume releases every task queued since the matching Pause.
func (p *Pool) Resume() {
	p.mu.Lock()
	p.paused = false
	pending := p.queued
	p.queued = nil
	p.mu.Unlock()

	for _, start := range pending {
		start()
	}
}

// Submit registers t with the pool. If the pool is currently paused, t is
// held in the ready-queue until Resume.
func Submit[T any](p *Pool, t *Task[T]) {
	start := func() {
		p.eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("taskpool: task panicked: %v", r)
					t.err = err
				}
				close(t.done)
			}()

			for _, dep := range t.deps {
				select {
				case <-dep.Done():
				case <-p.ctx.Done():
					t.err = p.ctx.Err()
					return t.err
				}
			}

			if acquireErr := p.sem.Acquire(p.ctx, 1); acquireErr != nil {
				t.err = acquireErr
				return acquireErr
			}
			defer p.sem.Release(1)

			t.result, t.err = t.fn()
			return t.err
		})
	}

	p.mu.Lock()
	if p.paused {
		p.queued = append(p.queued, start)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	start()
}

// Join waits for every submitted task to finish and returns the first
// non-nil error returned by any of them, if any.
func (p *Pool) Join() error {
	return p.eg.Wait()
}
