package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Prefixes used on the console. Fatal aborts are prefixed distinctly from
// advisory errors so an operator scanning a long probe log can tell them apart.
const (
	PrefixFatal = "FATAL: "
	PrefixError = "ERROR: "
)

// asAlfs finds an AlfsError in err's chain, wrapping err as an internal
// error when there is none.
func asAlfs(err error) *AlfsError {
	var ae *AlfsError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(ErrCodeInternal, err)
}

// FormatForCLI formats an error for terminal output.
// Fatal errors get the FATAL prefix, everything else the ERROR prefix.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ae := asAlfs(err)

	prefix := PrefixError
	if ae.Severity == SeverityFatal {
		prefix = PrefixFatal
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(ae.Message)
	sb.WriteString("\n")

	if ae.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", ae.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", ae.Code))

	return sb.String()
}

// FormatForLog formats an error as slog attributes.
func FormatForLog(err error) []any {
	if err == nil {
		return nil
	}

	var ae *AlfsError
	if !errors.As(err, &ae) {
		return []any{"error", err.Error()}
	}

	attrs := []any{
		"error_code", ae.Code,
		"message", ae.Message,
		"category", string(ae.Category),
		"severity", string(ae.Severity),
	}

	if ae.Cause != nil {
		attrs = append(attrs, "cause", ae.Cause.Error())
	}

	for k, v := range ae.Details {
		attrs = append(attrs, "detail_"+k, v)
	}

	return attrs
}
