// Package cmd provides the CLI commands for malfs.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DrMatrix007/matrix-alfs/internal/config"
	"github.com/DrMatrix007/matrix-alfs/internal/console"
	"github.com/DrMatrix007/matrix-alfs/internal/execx"
	"github.com/DrMatrix007/matrix-alfs/internal/logging"
	"github.com/DrMatrix007/matrix-alfs/internal/output"
	"github.com/DrMatrix007/matrix-alfs/internal/partition"
	"github.com/DrMatrix007/matrix-alfs/internal/preflight"
	"github.com/DrMatrix007/matrix-alfs/internal/stage"
	"github.com/DrMatrix007/matrix-alfs/pkg/version"
)

const banner = "This is malfs - matrix automated linux from scratch"

// host is what the commands need from the outside world. Tests swap in a
// scripted executor, canned stdin and a fake environment.
type host struct {
	exec   execx.Executor
	stdin  io.Reader
	getenv func(string) string
	stat   preflight.StatFunc

	// Persistent flags.
	debug      bool
	configPath string
	noColor    bool

	// Set by PersistentPreRunE.
	cfg            *config.Config
	loggingCleanup func()
}

func osHost() *host {
	return &host{
		exec:   execx.NewOS(),
		stdin:  os.Stdin,
		getenv: os.Getenv,
		stat:   os.Stat,
	}
}

// NewRootCmd creates the root command for the malfs CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(osHost())
}

func newRootCmd(h *host) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "malfs",
		Short: "Pre-flight checks and partition setup for a Linux From Scratch build",
		Long: `malfs prepares a host for a Linux From Scratch build.

It verifies that the host toolchain meets the LFS minimum versions,
checks PTY support, command aliases and the C++ compiler, then asks
you to choose the boot and main partitions.

The LFS environment variable must point at the build root.`,
		Example: `  export LFS=/mnt/lfs
  malfs`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, h)
		},
	}

	cmd.SetVersionTemplate("malfs version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&h.debug, "debug", false, "Enable debug logging to ~/.malfs/logs/")
	cmd.PersistentFlags().StringVar(&h.configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/malfs/config.yaml)")
	cmd.PersistentFlags().BoolVar(&h.noColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return h.setup(cmd)
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		h.close()
		return nil
	}

	cmd.AddCommand(newCheckCmd(h))
	cmd.AddCommand(newPartitionsCmd(h))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and prints any error it returns with the
// FATAL or ERROR prefix. The first SIGINT or SIGTERM cancels the context,
// which stops the pipeline; a second one kills the process.
func Execute() error {
	ctx, stop := interruptContext(context.Background())
	defer stop()

	h := osHost()
	defer h.close()

	root := newRootCmd(h)
	err := root.ExecuteContext(ctx)
	if err != nil {
		h.writer(root).Report(err)
	}
	return err
}

// interruptContext is cancelled by SIGINT or SIGTERM. Once it is done the
// default signal behaviour is restored.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// setup loads configuration and installs the logger.
func (h *host) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadWithEnv(h.configPath, h.getenv)
	if err != nil {
		return err
	}
	if h.noColor {
		cfg.Output.Color = string(output.ColorNever)
	}
	h.cfg = cfg

	logCfg := loggingConfig(cfg, h.debug, cmd.ErrOrStderr())
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	h.loggingCleanup = cleanup

	if h.debug {
		slog.Debug("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version),
			slog.String("command", cmd.CommandPath()))
	}
	return nil
}

// loggingConfig applies the configured level, then --debug on top.
func loggingConfig(cfg *config.Config, debug bool, stderr io.Writer) logging.Config {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Stderr = stderr
	if debug {
		logCfg = logCfg.WithDebug()
	}
	return logCfg
}

func (h *host) close() {
	if h.loggingCleanup != nil {
		h.loggingCleanup()
		h.loggingCleanup = nil
	}
}

func (h *host) settings() *config.Config {
	if h.cfg == nil {
		h.cfg = config.NewConfig()
	}
	return h.cfg
}

func (h *host) writer(cmd *cobra.Command) *output.Writer {
	return output.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.WithColorMode(h.settings().ColorMode()))
}

func (h *host) checker(out *output.Writer, buildRoot string, verbose bool) *preflight.Checker {
	opts := []preflight.Option{
		preflight.WithExecutor(h.exec),
		preflight.WithOutput(out),
		preflight.WithStat(h.stat),
		preflight.WithVerbose(verbose),
	}
	if !h.settings().Verify.SkipBuildRoot {
		opts = append(opts, preflight.WithBuildRoot(buildRoot))
	}
	return preflight.New(opts...)
}

func (h *host) selector(cmd *cobra.Command) *partition.Selector {
	return partition.NewSelector(h.exec,
		console.New(h.stdin, cmd.OutOrStdout()).WithContext(cmd.Context()),
		partition.WithListCommand(h.settings().Partitions.ListCommand))
}

// runPipeline is the default action: announce, read $LFS, then run the
// stages in order.
func runPipeline(cmd *cobra.Command, h *host) error {
	out := h.writer(cmd)
	out.Line(banner)

	lfs, err := config.BuildRoot(h.getenv)
	if err != nil {
		return err
	}
	out.Linef("lfs is %s", lfs)

	runner := stage.NewRunner()
	runner.Add(stage.NewStage2(h.checker(out, lfs, false), h.selector(cmd), out))

	return runner.RunAll(cmd.Context())
}
