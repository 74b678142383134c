package preflight

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/execx"
	"github.com/DrMatrix007/matrix-alfs/internal/vercmp"
)

// versionToken matches the first version-looking token on a line,
// e.g. "9.4", "2.5.1a", "13.2.1".
var versionToken = regexp.MustCompile(`[0-9]+\.[0-9]+(\.[0-9]+)*[a-z]*`)

// ExtractVersion returns the first version token found scanning out line by
// line, or "" when there is none.
func ExtractVersion(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if m := versionToken.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// CheckVersion runs "<command> --version" and compares the reported version
// against the requirement.
func (c *Checker) CheckVersion(ctx context.Context, req VersionRequirement) CheckResult {
	result := CheckResult{
		Name:     req.Name,
		Minimum:  req.MinVersion,
		Required: req.Required,
	}

	res, err := c.exec.Run(ctx, execx.Command{Name: req.Command, Args: []string{"--version"}})
	if err != nil {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeNotFound
		result.Message = fmt.Sprintf("Cannot find %s (%s)", req.Command, req.Name)
		result.Details = err.Error()
		return result
	}

	observed := ExtractVersion(res.Stdout)
	result.Observed = observed

	if !vercmp.AtLeast(observed, req.MinVersion) {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeToolTooOld
		found := observed
		if found == "" {
			found = "no version reported"
		}
		result.Message = fmt.Sprintf("%-9s is TOO OLD (found %s, %s or later required)", req.Name, found, req.MinVersion)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%-9s %-6s >= %s", req.Name, observed, req.MinVersion)
	return result
}

// KernelRelease reduces a kernel release string ("6.18.44-fc-v130") to
// its major.minor fields ("6.18").
func KernelRelease(release string) string {
	fields := strings.Split(strings.TrimSpace(release), ".")
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, ".")
}

// CheckKernel runs "uname -r" and compares major.minor against minVersion.
func (c *Checker) CheckKernel(ctx context.Context, minVersion string) CheckResult {
	result := CheckResult{
		Name:    "kernel",
		Minimum: minVersion,
	}

	res, err := c.exec.Run(ctx, execx.Command{Name: "uname", Args: []string{"-r"}})
	if err != nil {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeNotFound
		result.Message = "Cannot find uname (Linux Kernel)"
		result.Details = err.Error()
		return result
	}

	release := KernelRelease(res.Stdout)
	result.Observed = release

	if !vercmp.AtLeast(release, minVersion) {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeToolTooOld
		result.Message = fmt.Sprintf("Linux Kernel (%s) is TOO OLD (%s or later required)", release, minVersion)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("Linux Kernel %s >= %s", release, minVersion)
	return result
}
