package preflight

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/DrMatrix007/matrix-alfs/internal/execx"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// CheckResult holds the result of a single preflight check. Code is set
// on every non-passing result.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Observed string      `json:"observed,omitempty"`
	Minimum  string      `json:"minimum,omitempty"`
	Required bool        `json:"required"`
	Code     string      `json:"code,omitempty"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// StatFunc matches os.Stat.
type StatFunc func(name string) (os.FileInfo, error)

// Checker performs preflight validation checks.
type Checker struct {
	exec    execx.Executor
	out     *output.Writer
	stat    StatFunc
	verbose bool

	requirements  []VersionRequirement
	kernelMinimum string
	aliases       []Alias

	buildRoot         string
	minBuildRootBytes uint64
}

// Option configures a Checker.
type Option func(*Checker)

// WithExecutor sets the process executor used by every probe.
func WithExecutor(e execx.Executor) Option {
	return func(c *Checker) {
		c.exec = e
	}
}

// WithOutput sets where report lines are printed.
func WithOutput(w *output.Writer) Option {
	return func(c *Checker) {
		c.out = w
	}
}

// WithVerbose prints check details under each line.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithStat replaces os.Stat for device node checks.
func WithStat(fn StatFunc) Option {
	return func(c *Checker) {
		c.stat = fn
	}
}

// WithRequirements replaces the tool version catalog.
func WithRequirements(reqs []VersionRequirement) Option {
	return func(c *Checker) {
		c.requirements = reqs
	}
}

// WithBuildRoot enables the free space check on the LFS build root.
// An empty path skips the check.
func WithBuildRoot(path string) Option {
	return func(c *Checker) {
		c.buildRoot = path
	}
}

// WithMinBuildRootBytes overrides the recommended build root free space.
func WithMinBuildRootBytes(n uint64) Option {
	return func(c *Checker) {
		c.minBuildRootBytes = n
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		exec:              execx.NewOS(),
		out:               output.New(os.Stdout, os.Stderr),
		stat:              os.Stat,
		requirements:      DefaultRequirements(),
		kernelMinimum:     KernelMinimum,
		aliases:           DefaultAliases(),
		minBuildRootBytes: MinBuildRootBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll runs every check in catalog order, reporting each one as soon as
// it completes. A failed required check stops the run; the results collected
// up to and including that check are returned. Cancelling ctx also stops the
// run and drops the check in flight unreported; callers test ctx.Err.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	var results []CheckResult
	stopped := false

	run := func(check func() CheckResult) {
		if stopped || ctx.Err() != nil {
			stopped = true
			return
		}
		r := check()
		if ctx.Err() != nil {
			slog.Debug("preflight interrupted", slog.String("name", r.Name))
			stopped = true
			return
		}
		c.report(r)
		results = append(results, r)
		stopped = r.IsCritical()
	}
	heading := func(title string) {
		if !stopped && ctx.Err() == nil {
			c.out.Heading(title)
		}
	}

	for _, req := range c.requirements {
		run(func() CheckResult { return c.CheckVersion(ctx, req) })
	}

	run(func() CheckResult { return c.CheckKernel(ctx, c.kernelMinimum) })
	run(func() CheckResult { return c.CheckPTY(ctx) })

	heading("Aliases:")
	for _, a := range c.aliases {
		run(func() CheckResult { return c.CheckAlias(ctx, a) })
	}

	heading("Compiler check:")
	run(func() CheckResult { return c.CheckCompiler(ctx) })

	run(func() CheckResult { return c.CheckCores(ctx) })

	if c.buildRoot != "" {
		run(func() CheckResult { return c.CheckBuildRoot(c.buildRoot) })
	}

	return results
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintSummary prints the overall status and a count of advisory failures.
func (c *Checker) PrintSummary(results []CheckResult) {
	var problems []string
	for _, r := range results {
		if r.Status != StatusPass {
			problems = append(problems, r.Name)
		}
	}

	c.out.Newline()
	c.out.Linef("Status: %s", strings.ToUpper(c.SummaryStatus(results)))
	if len(problems) > 0 {
		c.out.Linef("%d problem(s) to resolve before building: %s", len(problems), strings.Join(problems, ", "))
	}
}

// report prints one result on the channel matching its status.
func (c *Checker) report(r CheckResult) {
	if r.Status == StatusPass {
		c.out.OK(r.Message)
	} else {
		c.out.Error(r.Message)
	}
	if c.verbose && r.Details != "" {
		c.out.Linef("       %s", r.Details)
	}

	slog.Debug("preflight check",
		slog.String("name", r.Name),
		slog.String("status", r.Status.String()),
		slog.String("observed", r.Observed),
		slog.String("code", r.Code),
		slog.Bool("required", r.Required))
}
