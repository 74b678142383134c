// Package errors provides structured error handling for malfs.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration and environment errors
//   - 2XX: Probe errors (host tools, kernel)
//   - 3XX: Partition selection errors
//   - 4XX: Operator input errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration or environment errors.
	CategoryConfig Category = "CONFIG"
	// CategoryProbe indicates host tool and kernel probe errors.
	CategoryProbe Category = "PROBE"
	// CategoryPartition indicates partition listing and selection errors.
	CategoryPartition Category = "PARTITION"
	// CategoryInput indicates operator input errors.
	CategoryInput Category = "INPUT"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeEnvMissing    = "ERR_101_ENV_MISSING"
	ErrCodeConfigInvalid = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigRead    = "ERR_103_CONFIG_READ"

	// Probe errors (200-299)
	ErrCodeProbeNotFound = "ERR_201_PROBE_NOT_FOUND"
	ErrCodeToolTooOld    = "ERR_202_TOOL_TOO_OLD"
	ErrCodeProbeFailed   = "ERR_203_PROBE_FAILED"
	ErrCodeRequiredTool  = "ERR_204_REQUIRED_TOOL"
	ErrCodeLowDiskSpace  = "ERR_205_LOW_DISK_SPACE"

	// Partition errors (300-399)
	ErrCodeListingFailed      = "ERR_301_LISTING_FAILED"
	ErrCodeNoPartitions       = "ERR_302_NO_PARTITIONS"
	ErrCodeSelectionCancelled = "ERR_303_SELECTION_CANCELLED"

	// Input errors (400-499)
	ErrCodeInputClosed = "ERR_401_INPUT_CLOSED"
	ErrCodeInterrupted = "ERR_402_INTERRUPTED"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeStageFailed = "ERR_502_STAGE_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "302" from "ERR_302_NO_PARTITIONS")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryProbe
	case '3':
		return CategoryPartition
	case '4':
		return CategoryInput
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code. Every code
// that can end the run is fatal.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeEnvMissing,
		ErrCodeConfigInvalid,
		ErrCodeConfigRead,
		ErrCodeRequiredTool,
		ErrCodeListingFailed,
		ErrCodeNoPartitions,
		ErrCodeSelectionCancelled,
		ErrCodeInputClosed,
		ErrCodeInterrupted,
		ErrCodeInternal,
		ErrCodeStageFailed:
		return SeverityFatal
	case ErrCodeToolTooOld, ErrCodeProbeNotFound, ErrCodeProbeFailed, ErrCodeLowDiskSpace:
		// Advisory: reported to the operator, the pipeline continues.
		return SeverityWarning
	}

	return SeverityError
}
