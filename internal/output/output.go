// Package output provides the console report lines malfs prints while it
// probes the host: OK lines on stdout, ERROR and FATAL lines on stderr.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
)

// PrefixOK marks a passing check. It is padded to the width of the
// ERROR prefix so the columns line up.
const PrefixOK = "OK:    "

// Color palette (ANSI 256).
const (
	ColorLime   = "154"
	ColorRed    = "196"
	ColorYellow = "220"
	ColorWhite  = "255"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color mode string. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Enabled reports whether mode turns color on for w.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTTY(w)
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

type styles struct {
	ok      lipgloss.Style
	err     lipgloss.Style
	fatal   lipgloss.Style
	heading lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{ok: plain, err: plain, fatal: plain, heading: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:      r.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		err:     r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		fatal:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
	}
}

// Writer prints report lines. Writes are not buffered so progress is
// visible during long probe sequences.
type Writer struct {
	out    io.Writer
	errOut io.Writer

	outStyles styles
	errStyles styles
}

// Option configures a Writer.
type Option func(*writerConfig)

type writerConfig struct {
	mode ColorMode
}

// WithColorMode sets when output is colored (default: auto).
func WithColorMode(mode ColorMode) Option {
	return func(c *writerConfig) {
		c.mode = mode
	}
}

// New creates a Writer. out receives OK and informational lines, errOut
// receives ERROR and FATAL lines.
func New(out, errOut io.Writer, opts ...Option) *Writer {
	cfg := writerConfig{mode: ColorAuto}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer{
		out:       out,
		errOut:    errOut,
		outStyles: newStyles(out, cfg.mode.Enabled(out)),
		errStyles: newStyles(errOut, cfg.mode.Enabled(errOut)),
	}
}

// Discard returns a Writer that prints nothing.
func Discard() *Writer {
	return New(io.Discard, io.Discard, WithColorMode(ColorNever))
}

// OK prints a passing check.
func (w *Writer) OK(msg string) {
	w.prefixed(w.out, w.outStyles.ok, PrefixOK, msg)
}

// OKf prints a formatted passing check.
func (w *Writer) OKf(format string, args ...any) {
	w.OK(fmt.Sprintf(format, args...))
}

// Error prints an advisory failure.
func (w *Writer) Error(msg string) {
	w.prefixed(w.errOut, w.errStyles.err, alfserrors.PrefixError, msg)
}

// Errorf prints a formatted advisory failure.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Fatal prints an unrecoverable failure. It does not exit.
func (w *Writer) Fatal(msg string) {
	w.prefixed(w.errOut, w.errStyles.fatal, alfserrors.PrefixFatal, msg)
}

// Report prints err as FormatForCLI renders it, with the FATAL or ERROR
// label styled like the report lines.
func (w *Writer) Report(err error) {
	if err == nil {
		return
	}

	lines := strings.Split(strings.TrimRight(alfserrors.FormatForCLI(err), "\n"), "\n")
	if msg, ok := strings.CutPrefix(lines[0], alfserrors.PrefixFatal); ok {
		w.Fatal(msg)
	} else {
		w.Error(strings.TrimPrefix(lines[0], alfserrors.PrefixError))
	}
	for _, l := range lines[1:] {
		_, _ = fmt.Fprintln(w.errOut, l)
	}
}

// Heading prints a section heading such as "Aliases:".
func (w *Writer) Heading(msg string) {
	_, _ = fmt.Fprintln(w.out, w.outStyles.heading.Render(msg))
}

// Line prints plain text.
func (w *Writer) Line(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Linef prints formatted plain text.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

func (w *Writer) prefixed(dst io.Writer, style lipgloss.Style, prefix, msg string) {
	label := strings.TrimRight(prefix, " ")
	pad := prefix[len(label):]
	_, _ = fmt.Fprintf(dst, "%s%s%s\n", style.Render(label), pad, msg)
}
