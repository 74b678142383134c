// Package preflight verifies that the host can build Linux From Scratch.
//
// The package checks:
//   - Host tool versions against the LFS minimums (Coreutils, Bash, Binutils, ...)
//   - The running kernel release (4.19 or later)
//   - UNIX 98 PTY support (devpts mounted, /dev/ptmx present)
//   - That awk, yacc and sh are GNU awk, Bison and Bash
//   - That g++ can compile a trivial program
//   - The logical core count reported by nproc
//   - Free space under the LFS build root
//
// Only Coreutils is required: its version-sort semantics are what every other
// comparison relies on, so a failing Coreutils check stops the run. Every
// other failure is advisory and is reported on the error channel.
//
//	checker := preflight.New(preflight.WithExecutor(execx.NewOS()))
//	results := checker.RunAll(ctx)
//	if checker.HasCriticalFailures(results) {
//	    // abort
//	}
package preflight
