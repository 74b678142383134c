package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/DrMatrix007/matrix-alfs/internal/config"
	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
	"github.com/DrMatrix007/matrix-alfs/internal/preflight"
)

func newCheckCmd(h *host) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the host meets LFS build requirements",
		Long: `Run the host verification without selecting partitions.

Checks:
  - Tool versions against the LFS minimums (Coreutils is required)
  - Linux kernel version (4.19 minimum)
  - PTY support (devpts mounted, /dev/ptmx present)
  - awk, yacc and sh point at GNU Awk, Bison and Bash
  - g++ can compile a trivial program
  - nproc reports the available cores
  - Free space on $LFS, when LFS is set

Only a failed required check makes the command exit non-zero.`,
		Example: `  # Run checks
  malfs check

  # Verbose output with probe details
  malfs check --verbose

  # JSON output for scripting
  malfs check --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, h, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runCheck(cmd *cobra.Command, h *host, verbose, jsonOutput bool) error {
	// LFS is optional here; without it the build root check is skipped.
	buildRoot, _ := config.BuildRoot(h.getenv)

	out := h.writer(cmd)
	if jsonOutput {
		out = output.Discard()
	}

	checker := h.checker(out, buildRoot, verbose)
	results := checker.RunAll(cmd.Context())
	if err := cmd.Context().Err(); err != nil {
		return alfserrors.Interrupted(err)
	}

	if jsonOutput {
		if err := writeCheckJSON(cmd, checker, results); err != nil {
			return err
		}
	} else {
		checker.PrintSummary(results)
	}

	if checker.HasCriticalFailures(results) {
		return alfserrors.New(alfserrors.ErrCodeRequiredTool, "system check failed", nil)
	}
	return nil
}

// CheckReport is the structure for JSON output.
type CheckReport struct {
	Status   string            `json:"status"`
	Checks   []CheckReportItem `json:"checks"`
	Warnings []string          `json:"warnings,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}

// CheckReportItem is a single check result for JSON output.
type CheckReportItem struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Required bool   `json:"required"`
	Observed string `json:"observed,omitempty"`
	Minimum  string `json:"minimum,omitempty"`
	Details  string `json:"details,omitempty"`
	Code     string `json:"code,omitempty"`
}

func writeCheckJSON(cmd *cobra.Command, checker *preflight.Checker, results []preflight.CheckResult) error {
	report := CheckReport{
		Status: checker.SummaryStatus(results),
		Checks: make([]CheckReportItem, len(results)),
	}

	for i, r := range results {
		report.Checks[i] = CheckReportItem{
			Name:     r.Name,
			Status:   statusToString(r.Status),
			Message:  r.Message,
			Required: r.Required,
			Observed: r.Observed,
			Minimum:  r.Minimum,
			Details:  r.Details,
			Code:     r.Code,
		}

		if r.IsCritical() {
			report.Errors = append(report.Errors, r.Name+": "+r.Message)
		} else if r.Status != preflight.StatusPass {
			report.Warnings = append(report.Warnings, r.Name+": "+r.Message)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func statusToString(s preflight.CheckStatus) string {
	switch s {
	case preflight.StatusPass:
		return "pass"
	case preflight.StatusWarn:
		return "warn"
	case preflight.StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}
