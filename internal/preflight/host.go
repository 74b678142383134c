package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/execx"
)

// Paths and markers used by the PTY check.
const (
	devptsMount = "devpts on /dev/pts"
	ptmxPath    = "/dev/ptmx"
)

// compilerProbe is the smallest valid C++ translation unit.
const compilerProbe = "int main(){}"

// CheckAlias confirms that "<command> --version" identifies as a.Want,
// ignoring case.
func (c *Checker) CheckAlias(ctx context.Context, a Alias) CheckResult {
	result := CheckResult{
		Name: "alias:" + a.Command,
	}

	res, err := c.exec.Run(ctx, execx.Command{Name: a.Command, Args: []string{"--version"}})
	if err != nil {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeNotFound
		result.Message = fmt.Sprintf("Cannot find %s (%s)", a.Command, a.Want)
		result.Details = err.Error()
		return result
	}

	if !strings.Contains(strings.ToLower(res.Stdout), strings.ToLower(a.Want)) {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = fmt.Sprintf("%-4s is NOT %s", a.Command, a.Want)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%-4s is %s", a.Command, a.Want)
	return result
}

// CheckPTY confirms devpts is mounted and the PTY multiplexer exists.
func (c *Checker) CheckPTY(ctx context.Context) CheckResult {
	result := CheckResult{
		Name: "pty",
	}

	res, err := c.exec.Run(ctx, execx.Command{Name: "mount"})
	if err != nil {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeNotFound
		result.Message = "Cannot find mount (UNIX 98 PTY)"
		result.Details = err.Error()
		return result
	}

	_, statErr := c.stat(ptmxPath)
	switch {
	case !strings.Contains(res.Stdout, devptsMount):
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = "Linux Kernel does NOT support UNIX 98 PTY"
		result.Details = "devpts is not mounted on /dev/pts"
	case statErr != nil:
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = "Linux Kernel does NOT support UNIX 98 PTY"
		result.Details = statErr.Error()
	default:
		result.Status = StatusPass
		result.Message = "Linux Kernel supports UNIX 98 PTY"
	}
	return result
}

// CheckCompiler feeds a trivial program to g++ on stdin. Only the exit
// status matters; diagnostics are ignored.
func (c *Checker) CheckCompiler(ctx context.Context) CheckResult {
	result := CheckResult{
		Name: "compiler",
	}

	res, err := c.exec.Run(ctx, execx.Command{
		Name:  "g++",
		Args:  []string{"-x", "c++", "-", "-o", os.DevNull},
		Stdin: compilerProbe,
	})
	switch {
	case err != nil:
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = "g++ does NOT work"
		result.Details = err.Error()
	case !res.Success():
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = "g++ does NOT work"
		result.Details = fmt.Sprintf("g++ exited with status %d", res.ExitCode)
	default:
		result.Status = StatusPass
		result.Message = "g++ works"
	}
	return result
}

// CheckCores reports the logical core count from nproc.
func (c *Checker) CheckCores(ctx context.Context) CheckResult {
	result := CheckResult{
		Name: "cores",
	}

	res, err := c.exec.Run(ctx, execx.Command{Name: "nproc"})
	cores := strings.TrimSpace(res.Stdout)
	if err != nil || cores == "" {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = "nproc is not available or it produces empty output"
		if err != nil {
			result.Details = err.Error()
		}
		return result
	}

	result.Status = StatusPass
	result.Observed = cores
	result.Message = fmt.Sprintf("nproc reports %s logical cores are available", cores)
	return result
}
