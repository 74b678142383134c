package cmd

import (
	"bytes"
	"context"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DrMatrix007/matrix-alfs/internal/execx"
	"github.com/DrMatrix007/matrix-alfs/internal/partition"
)

const listing = "/dev/sda1  2048  1050623  1048576  512M EFI System\n" +
	"/dev/sda2  1050624 41943006 40892383 19.5G Linux filesystem\n"

var listCmdline = execx.Command{Name: "sh", Args: []string{"-c", partition.DefaultListCommand}}.String()

// fakeHost scripts every probe and the partition listing.
func fakeHost() *execx.Fake {
	return execx.NewFake().
		Stdout("sort --version", "sort (GNU coreutils) 9.4\n").
		Stdout("bash --version", "GNU bash, version 5.2.21(1)-release (x86_64-pc-linux-gnu)\n").
		Stdout("ld --version", "GNU ld (GNU Binutils) 2.42\n").
		Stdout("bison --version", "bison (GNU Bison) 3.8.2\n").
		Stdout("diff --version", "diff (GNU diffutils) 3.10\n").
		Stdout("find --version", "find (GNU findutils) 4.9.0\n").
		Stdout("gawk --version", "GNU Awk 5.3.0, API 4.0\n").
		Stdout("gcc --version", "gcc (GCC) 13.2.1 20231205\n").
		Stdout("g++ --version", "g++ (GCC) 13.2.1 20231205\n").
		Stdout("grep --version", "grep (GNU grep) 3.11\n").
		Stdout("gzip --version", "gzip 1.13\n").
		Stdout("m4 --version", "m4 (GNU M4) 1.4.19\n").
		Stdout("make --version", "GNU Make 4.4.1\n").
		Stdout("patch --version", "GNU patch 2.7.6\n").
		Stdout("perl --version", "This is perl 5, version 38, subversion 2 (v5.38.2)\n").
		Stdout("python3 --version", "Python 3.12.3\n").
		Stdout("sed --version", "sed (GNU sed) 4.9\n").
		Stdout("tar --version", "tar (GNU tar) 1.35\n").
		Stdout("texi2any --version", "texi2any (GNU texinfo) 7.1\n").
		Stdout("xz --version", "xz (XZ Utils) 5.4.6\n").
		Stdout("uname -r", "6.8.0-45-generic\n").
		Stdout("mount", "devpts on /dev/pts type devpts (rw,gid=5,mode=620)\n").
		Stdout("awk --version", "GNU Awk 5.3.0, API 4.0\n").
		Stdout("yacc --version", "bison (GNU Bison) 3.8.2\n").
		Stdout("sh --version", "GNU bash, version 5.2.21(1)-release\n").
		Stdout("g++ -x c++ - -o "+os.DevNull, "").
		Stdout("nproc", "8\n").
		Stdout(listCmdline, listing)
}

type fakeInfo struct{ name string }

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return os.ModeDevice | os.ModeCharDevice | 0o666 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

func newTestHost(t *testing.T, exec execx.Executor, input string, env map[string]string) *host {
	t.Helper()
	// An empty config home unless the test names its own.
	lookup := map[string]string{"XDG_CONFIG_HOME": t.TempDir()}
	maps.Copy(lookup, env)
	return &host{
		exec:   exec,
		stdin:  strings.NewReader(input),
		getenv: func(k string) string { return lookup[k] },
		stat:   func(name string) (os.FileInfo, error) { return fakeInfo{name: name}, nil },
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(h *host, args ...string) (string, string, error) {
	return executeContext(context.Background(), h, args...)
}

// executeContext is execute under ctx, standing in for the signal context.
func executeContext(ctx context.Context, h *host, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	root := newRootCmd(h)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	h.close()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
