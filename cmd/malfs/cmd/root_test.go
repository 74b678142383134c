package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrMatrix007/matrix-alfs/internal/config"
	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/logging"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"check", "partitions", "version"})
	for _, flag := range []string{"debug", "config", "no-color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCmd_FullPipeline(t *testing.T) {
	// Given: a healthy host, LFS set, and an operator choosing 1 then 2
	fake := fakeHost()
	h := newTestHost(t, fake, "1\n2\ny\n", map[string]string{"LFS": "/mnt/lfs"})
	cfg := writeConfig(t, "verify:\n  skip_build_root: true\n")

	// When: running malfs with no subcommand
	stdout, stderr, err := execute(h, "--config", cfg)

	// Then: banner, build root, report and selection are printed in order
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "This is malfs - matrix automated linux from scratch\nlfs is /mnt/lfs\n")
	assert.Contains(t, stdout, "OK:    Coreutils")
	assert.Contains(t, stdout, "Aliases:")
	assert.Contains(t, stdout, "Compiler check:")
	assert.Contains(t, stdout, "1: /dev/sda1")
	assert.Contains(t, stdout, "Boot Partition: /dev/sda1\nMain Partition: /dev/sda2\n")
	assert.Contains(t, stdout, "Selected partitions: boot=/dev/sda1 main=/dev/sda2")
	assert.Less(t, strings.Index(stdout, "lfs is"), strings.Index(stdout, "OK:    Coreutils"))
	assert.Less(t, strings.Index(stdout, "OK:    Coreutils"), strings.Index(stdout, "1: /dev/sda1"))
}

func TestRootCmd_MissingLFSIsFatal(t *testing.T) {
	// Given: LFS is not set
	fake := fakeHost()
	h := newTestHost(t, fake, "", nil)

	// When: running the pipeline
	stdout, _, err := execute(h)

	// Then: the run aborts before any probe
	require.Error(t, err)
	assert.True(t, alfserrors.IsFatal(err))
	assert.Equal(t, alfserrors.ErrCodeEnvMissing, alfserrors.GetCode(err))
	assert.Contains(t, alfserrors.FormatForCLI(err), "FATAL: need env variable LFS!")
	assert.Contains(t, stdout, "This is malfs")
	assert.NotContains(t, stdout, "lfs is")
	assert.Empty(t, fake.Calls())
}

func TestRootCmd_OldCoreutilsStopsBeforePartitions(t *testing.T) {
	// Given: a host whose sort is too old
	fake := fakeHost().Stdout("sort --version", "sort (GNU coreutils) 7.0\n")
	h := newTestHost(t, fake, "1\n2\ny\n", map[string]string{"LFS": "/mnt/lfs"})

	// When: running the pipeline
	_, stderr, err := execute(h)

	// Then: nothing else is probed and partitions are never listed
	require.Error(t, err)
	assert.Equal(t, alfserrors.ErrCodeRequiredTool, alfserrors.GetCode(err))
	assert.Contains(t, alfserrors.FormatForCLI(err), "FATAL: Coreutils too old, stop")
	assert.Contains(t, stderr, "ERROR: Coreutils is TOO OLD")
	assert.False(t, fake.Ran("bash --version"))
	assert.False(t, fake.Ran(listCmdline))
}

func TestRootCmd_DeclinedSelectionIsFatal(t *testing.T) {
	fake := fakeHost()
	h := newTestHost(t, fake, "1\n2\nn\n", map[string]string{"LFS": "/mnt/lfs"})
	cfg := writeConfig(t, "verify:\n  skip_build_root: true\n")

	stdout, _, err := execute(h, "--config", cfg)

	require.Error(t, err)
	assert.Equal(t, alfserrors.ErrCodeSelectionCancelled, alfserrors.GetCode(err))
	assert.Contains(t, alfserrors.FormatForCLI(err), "FATAL: cancelled selecting partitions")
	assert.NotContains(t, stdout, "Selected partitions")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	h := newTestHost(t, fakeHost(), "", map[string]string{"LFS": "/mnt/lfs"})
	cfg := writeConfig(t, "output:\n  color: purple\n")

	_, _, err := execute(h, "--config", cfg)

	require.Error(t, err)
	assert.Equal(t, alfserrors.ErrCodeConfigInvalid, alfserrors.GetCode(err))
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	h := newTestHost(t, fakeHost(), "", nil)

	_, _, err := execute(h, "stage3")

	assert.Error(t, err)
}

func TestRootCmd_InterruptAtPartitionPromptEndsRun(t *testing.T) {
	// Given: an operator who never answers the boot prompt
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	h := newTestHost(t, fakeHost(), "", map[string]string{"LFS": "/mnt/lfs"})
	h.stdin = pr
	cfg := writeConfig(t, "verify:\n  skip_build_root: true\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// When: Ctrl-C arrives while the prompt waits
	time.AfterFunc(50*time.Millisecond, cancel)
	stdout, _, err := executeContext(ctx, h, "--config", cfg)

	// Then: the run ends as interrupted instead of hanging
	require.Error(t, err)
	assert.Equal(t, alfserrors.ErrCodeInterrupted, alfserrors.GetCode(err))
	assert.Contains(t, alfserrors.FormatForCLI(err), "FATAL: interrupted")
	assert.Contains(t, stdout, "1: /dev/sda1")
	assert.NotContains(t, stdout, "Selected partitions")
}

func TestRootCmd_InterruptDuringVerificationSkipsPartitions(t *testing.T) {
	// Given: an interrupt while bash --version runs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := fakeHost().OnRun("bash --version", cancel)
	h := newTestHost(t, fake, "1\n2\ny\n", map[string]string{"LFS": "/mnt/lfs"})

	// When: running the pipeline
	_, stderr, err := executeContext(ctx, h)

	// Then: no check is misreported and the listing never runs
	assert.Equal(t, alfserrors.ErrCodeInterrupted, alfserrors.GetCode(err))
	assert.NotContains(t, stderr, "Cannot find")
	assert.False(t, fake.Ran(listCmdline))
}

func TestInterruptContext_SignalCancelsAndRestoresDefault(t *testing.T) {
	// Given: the signal context Execute uses
	ctx, stop := interruptContext(context.Background())
	defer stop()

	// When: the process receives SIGINT
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	// Then: the context is cancelled
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestLoggingConfig(t *testing.T) {
	stderr := &bytes.Buffer{}
	cfg := config.NewConfig()
	cfg.Logging.Level = "error"

	plain := loggingConfig(cfg, false, stderr)
	debug := loggingConfig(cfg, true, stderr)

	assert.Equal(t, "error", plain.Level)
	assert.Empty(t, plain.FilePath)
	assert.Same(t, stderr, plain.Stderr)

	assert.Equal(t, "debug", debug.Level)
	assert.Equal(t, logging.DefaultLogPath(), debug.FilePath)
	assert.Same(t, stderr, debug.Stderr)
	assert.Equal(t, plain.MaxSizeMB, debug.MaxSizeMB)
	assert.Equal(t, plain.MaxFiles, debug.MaxFiles)
}

func TestRootCmd_UserConfigComesFromInjectedEnv(t *testing.T) {
	// Given: a broken user config under the injected XDG_CONFIG_HOME
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "malfs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "malfs", "config.yaml"), []byte("output:\n  color: purple\n"), 0o644))
	h := newTestHost(t, fakeHost(), "", map[string]string{"LFS": "/mnt/lfs", "XDG_CONFIG_HOME": xdg})

	// When: running without --config
	_, _, err := execute(h)

	// Then: the injected location was read
	assert.Equal(t, alfserrors.ErrCodeConfigInvalid, alfserrors.GetCode(err))
}
