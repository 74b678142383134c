package stage

import (
	"context"
	"fmt"
	"log/slog"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
	"github.com/DrMatrix007/matrix-alfs/internal/partition"
	"github.com/DrMatrix007/matrix-alfs/internal/preflight"
)

// Verifier checks the host before anything is built.
type Verifier interface {
	RunAll(ctx context.Context) []preflight.CheckResult
	HasCriticalFailures(results []preflight.CheckResult) bool
	PrintSummary(results []preflight.CheckResult)
}

// PartitionSelector asks the operator for the boot and main partitions.
type PartitionSelector interface {
	SelectAll(ctx context.Context) (partition.Selection, bool, error)
}

// Stage2 verifies the host environment, then has the operator choose the
// partitions the build will use.
type Stage2 struct {
	verifier Verifier
	selector PartitionSelector
	out      *output.Writer

	selection *partition.Selection
}

// NewStage2 creates the host preparation stage.
func NewStage2(v Verifier, s PartitionSelector, out *output.Writer) *Stage2 {
	return &Stage2{
		verifier: v,
		selector: s,
		out:      out,
	}
}

// Run implements Stage. Verification is best effort: only a failed
// required tool aborts. A cancelled or declined partition selection
// aborts too, and so does an interrupt between or during the two phases.
func (s *Stage2) Run(ctx context.Context) error {
	results := s.verifier.RunAll(ctx)
	if err := ctx.Err(); err != nil {
		return alfserrors.Interrupted(err)
	}
	if s.verifier.HasCriticalFailures(results) {
		for _, r := range results {
			if r.IsCritical() {
				return alfserrors.New(alfserrors.ErrCodeRequiredTool, fmt.Sprintf("%s too old, stop", r.Name), nil).
					WithDetail("check", r.Name).
					WithDetail("observed", r.Observed).
					WithSuggestion(fmt.Sprintf("install %s %s or later on the host", r.Name, r.Minimum))
			}
		}
	}
	s.verifier.PrintSummary(results)

	if err := ctx.Err(); err != nil {
		return alfserrors.Interrupted(err)
	}
	sel, ok, err := s.selector.SelectAll(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return alfserrors.New(alfserrors.ErrCodeSelectionCancelled, "cancelled selecting partitions", nil)
	}

	s.selection = &sel
	s.out.Linef("Selected partitions: %s", sel)
	slog.Debug("stage2 complete", slog.String("boot", sel.Boot), slog.String("main", sel.Main))
	return nil
}

// Selection returns the confirmed partitions once Run has succeeded.
func (s *Stage2) Selection() (partition.Selection, bool) {
	if s.selection == nil {
		return partition.Selection{}, false
	}
	return *s.selection, true
}
