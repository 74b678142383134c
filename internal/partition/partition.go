// Package partition lists block device partitions and walks the operator
// through choosing the boot and main partitions for the LFS build.
//
// Selection is read-only: devices are identified by path, never modified.
package partition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
	"github.com/DrMatrix007/matrix-alfs/internal/execx"
)

// DefaultListCommand lists partitions and keeps only lines that start a
// device entry ("/dev/sda1 " followed by whitespace).
const DefaultListCommand = `sudo fdisk -l | grep -E '/dev/[a-z0-9]+\ '`

// Operator prompts.
const (
	promptBoot    = "Please select the boot partition (or type 'exit' to quit): "
	promptMain    = "Please select the main partition (or type 'exit' to quit): "
	promptConfirm = "Is this correct? (y/n)"
	msgInvalid    = "Invalid selection. Please enter a valid number."
	cancelToken   = "exit"
)

// devicePath matches a device node path inside a listing line.
var devicePath = regexp.MustCompile(`/dev/[a-z0-9]+`)

// ExtractDevice returns the first device path in line, or "" if none.
func ExtractDevice(line string) string {
	return devicePath.FindString(line)
}

// Entry is one listing line and the device path it describes.
// Entries are shown 1-indexed; the index is only valid for the listing
// it came from.
type Entry struct {
	Line   string
	Device string
}

// Selection is the operator's confirmed choice.
type Selection struct {
	Boot string `json:"boot"`
	Main string `json:"main"`
}

// String renders the selection for logs and the console.
func (s Selection) String() string {
	return fmt.Sprintf("boot=%s main=%s", s.Boot, s.Main)
}

// LineIO is the operator channel: blocking line reads and immediate writes.
type LineIO interface {
	ReadLine() (string, error)
	Println(a ...any)
	Printf(format string, a ...any)
}

// Selector drives the interactive partition selection.
type Selector struct {
	exec        execx.Executor
	io          LineIO
	listCommand string
}

// Option configures a Selector.
type Option func(*Selector)

// WithListCommand replaces the shell pipeline used to list partitions.
func WithListCommand(cmd string) Option {
	return func(s *Selector) {
		if cmd != "" {
			s.listCommand = cmd
		}
	}
}

// NewSelector creates a Selector that runs processes through exec and talks
// to the operator through lio.
func NewSelector(exec execx.Executor, lio LineIO, opts ...Option) *Selector {
	s := &Selector{
		exec:        exec,
		io:          lio,
		listCommand: DefaultListCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List runs the listing pipeline and prints the entries as a 1-indexed
// menu. It fails when the pipeline cannot be launched or finds nothing.
func (s *Selector) List(ctx context.Context) ([]Entry, error) {
	res, err := s.exec.Run(ctx, execx.Command{Name: "sh", Args: []string{"-c", s.listCommand}})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, alfserrors.Interrupted(ctxErr)
	}
	if err != nil {
		return nil, alfserrors.New(alfserrors.ErrCodeListingFailed, "Failed to list partitions", err).
			WithDetail("command", s.listCommand)
	}

	var entries []Entry
	for _, line := range strings.Split(res.Stdout, "\n") {
		dev := ExtractDevice(line)
		if dev == "" {
			continue
		}
		entries = append(entries, Entry{Line: line, Device: dev})
	}

	slog.Debug("partitions listed",
		slog.String("command", s.listCommand),
		slog.Int("exit_code", res.ExitCode),
		slog.Int("count", len(entries)))

	if len(entries) == 0 {
		return nil, alfserrors.New(alfserrors.ErrCodeNoPartitions, "No partitions available.", nil).
			WithSuggestion("check that the disk is attached and that fdisk can run with sudo")
	}

	for i, e := range entries {
		s.io.Printf("%d: %s\n", i+1, e.Line)
	}
	return entries, nil
}

// Select reads operator input until it names an entry by its 1-based index
// or is "exit". ok is false when the operator cancelled. Malformed input is
// rejected and the prompt repeats without limit.
func (s *Selector) Select(entries []Entry) (string, bool, error) {
	for {
		input, err := s.io.ReadLine()
		if err != nil {
			return "", false, inputError(err)
		}
		if input == cancelToken {
			return "", false, nil
		}

		if n, convErr := strconv.Atoi(input); convErr == nil && n >= 1 && n <= len(entries) {
			return entries[n-1].Device, true, nil
		}

		slog.Debug("invalid partition selection", slog.String("input", input))
		s.io.Println(msgInvalid)
	}
}

// Confirm asks once whether the selection is correct. Only "y" (any case)
// confirms; everything else, including "yes", declines.
func (s *Selector) Confirm() (bool, error) {
	s.io.Println(promptConfirm)
	input, err := s.io.ReadLine()
	if err != nil {
		return false, inputError(err)
	}
	return strings.ToLower(input) == "y", nil
}

// SelectAll lists partitions once, asks for the boot and then the main
// partition, and asks for confirmation. ok is true only after an explicit
// "y"; a cancel at either prompt or a declined confirmation yields no
// selection.
func (s *Selector) SelectAll(ctx context.Context) (Selection, bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Selection{}, false, err
	}

	s.io.Println(promptBoot)
	boot, ok, err := s.Select(entries)
	if err != nil || !ok {
		return Selection{}, false, err
	}

	s.io.Println(promptMain)
	mainDev, ok, err := s.Select(entries)
	if err != nil || !ok {
		return Selection{}, false, err
	}

	s.io.Printf("Boot Partition: %s\nMain Partition: %s\n", boot, mainDev)

	confirmed, err := s.Confirm()
	if err != nil || !confirmed {
		return Selection{}, false, err
	}

	s.io.Println("Partition selection completed.")
	sel := Selection{Boot: boot, Main: mainDev}
	slog.Info("partitions selected", slog.String("boot", sel.Boot), slog.String("main", sel.Main))
	return sel, true, nil
}

// inputError converts a read failure into a fatal error.
func inputError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return alfserrors.Interrupted(err)
	}
	msg := "Failed to read input"
	if errors.Is(err, io.EOF) {
		msg = "input closed before a selection was made"
	}
	return alfserrors.New(alfserrors.ErrCodeInputClosed, msg, err)
}
