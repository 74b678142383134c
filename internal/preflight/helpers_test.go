package preflight

import (
	"bytes"
	"errors"
	"os"
	"time"

	"github.com/DrMatrix007/matrix-alfs/internal/execx"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
)

// healthyHost scripts every probe with output from a current distribution.
func healthyHost() *execx.Fake {
	return execx.NewFake().
		Stdout("sort --version", "sort (GNU coreutils) 9.4\nCopyright (C) 2023 Free Software Foundation, Inc.\n").
		Stdout("bash --version", "GNU bash, version 5.2.21(1)-release (x86_64-pc-linux-gnu)\n").
		Stdout("ld --version", "GNU ld (GNU Binutils) 2.42\n").
		Stdout("bison --version", "bison (GNU Bison) 3.8.2\n").
		Stdout("diff --version", "diff (GNU diffutils) 3.10\n").
		Stdout("find --version", "find (GNU findutils) 4.9.0\n").
		Stdout("gawk --version", "GNU Awk 5.3.0, API 4.0, PMA Avon 8-g1\n").
		Stdout("gcc --version", "gcc (GCC) 13.2.1 20231205\n").
		Stdout("g++ --version", "g++ (GCC) 13.2.1 20231205\n").
		Stdout("grep --version", "grep (GNU grep) 3.11\n").
		Stdout("gzip --version", "gzip 1.13\n").
		Stdout("m4 --version", "m4 (GNU M4) 1.4.19\n").
		Stdout("make --version", "GNU Make 4.4.1\n").
		Stdout("patch --version", "GNU patch 2.7.6\n").
		Stdout("perl --version", "\nThis is perl 5, version 38, subversion 2 (v5.38.2) built for x86_64-linux\n").
		Stdout("python3 --version", "Python 3.12.3\n").
		Stdout("sed --version", "sed (GNU sed) 4.9\n").
		Stdout("tar --version", "tar (GNU tar) 1.35\n").
		Stdout("texi2any --version", "texi2any (GNU texinfo) 7.1\n").
		Stdout("xz --version", "xz (XZ Utils) 5.4.6\nliblzma 5.4.6\n").
		Stdout("uname -r", "6.18.44-fc-v130\n").
		Stdout("mount", "proc on /proc type proc (rw)\ndevpts on /dev/pts type devpts (rw,gid=5,mode=620)\n").
		Stdout("awk --version", "GNU Awk 5.3.0, API 4.0\n").
		Stdout("yacc --version", "bison (GNU Bison) 3.8.2\n").
		Stdout("sh --version", "GNU bash, version 5.2.21(1)-release\n").
		Stdout("g++ -x c++ - -o "+os.DevNull, "").
		Stdout("nproc", "8\n")
}

// fakeInfo is a minimal os.FileInfo for stubbed device nodes.
type fakeInfo struct{ name string }

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return os.ModeDevice | os.ModeCharDevice | 0o666 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

func statPresent(name string) (os.FileInfo, error) {
	return fakeInfo{name: name}, nil
}

func statMissing(name string) (os.FileInfo, error) {
	return nil, &os.PathError{Op: "stat", Path: name, Err: errors.New("no such file or directory")}
}

// newTestChecker returns a checker over exec with captured stdout/stderr.
func newTestChecker(exec execx.Executor, opts ...Option) (*Checker, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	base := []Option{
		WithExecutor(exec),
		WithOutput(output.New(out, errOut, output.WithColorMode(output.ColorNever))),
		WithStat(statPresent),
	}
	return New(append(base, opts...)...), out, errOut
}
