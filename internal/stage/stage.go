// Package stage sequences the setup phases of an LFS build.
//
// A Runner holds stages in registration order and runs them one after the
// other. New build phases plug in by implementing Stage.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
)

// Stage is one independently runnable phase of the setup pipeline.
// A non-nil error aborts the pipeline.
type Stage interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to Stage.
type Func func(ctx context.Context) error

// Run implements Stage.
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// Runner runs stages strictly in the order they were added.
type Runner struct {
	stages []Stage
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Add appends a stage. Duplicates are allowed.
func (r *Runner) Add(s Stage) {
	r.stages = append(r.stages, s)
}

// Len returns the number of registered stages.
func (r *Runner) Len() int {
	return len(r.stages)
}

// RunAll runs every stage synchronously. It stops at the first stage that
// fails and returns that error; later stages do not run. Errors without a
// code are wrapped as ERR_502_STAGE_FAILED.
func (r *Runner) RunAll(ctx context.Context) error {
	for i, s := range r.stages {
		name := fmt.Sprintf("%T", s)
		slog.Debug("stage started", slog.Int("stage", i+1), slog.String("type", name))

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %d (%s): %w", i+1, name, alfserrors.Interrupted(err))
		}
		if err := s.Run(ctx); err != nil {
			err = stageError(i+1, name, err)
			slog.Debug("stage failed", append([]any{slog.Int("stage", i+1)}, alfserrors.FormatForLog(err)...)...)
			return err
		}

		slog.Debug("stage completed", slog.Int("stage", i+1), slog.String("type", name))
	}
	return nil
}

func stageError(n int, name string, err error) error {
	var ae *alfserrors.AlfsError
	if errors.As(err, &ae) {
		return fmt.Errorf("stage %d (%s): %w", n, name, err)
	}
	return alfserrors.New(alfserrors.ErrCodeStageFailed, fmt.Sprintf("stage %d (%s) failed: %v", n, name, err), err)
}
