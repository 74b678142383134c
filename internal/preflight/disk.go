package preflight

import (
	"fmt"

	"golang.org/x/sys/unix"

	alfserrors "github.com/DrMatrix007/matrix-alfs/internal/errors"
)

// MinBuildRootBytes is the recommended free space under $LFS (10 GB).
// LFS itself fits in less, but compiling the toolchain needs headroom.
const MinBuildRootBytes = 10 * 1024 * 1024 * 1024

// CheckBuildRoot checks free space on the filesystem holding path.
// A shortfall is a warning; the build may still fit.
func (c *Checker) CheckBuildRoot(path string) CheckResult {
	result := CheckResult{
		Name:    "build_root",
		Minimum: formatBytes(c.minBuildRootBytes),
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		result.Status = StatusFail
		result.Code = alfserrors.ErrCodeProbeFailed
		result.Message = fmt.Sprintf("Cannot check free space on %s", path)
		result.Details = err.Error()
		return result
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	result.Observed = formatBytes(availableBytes)

	if availableBytes < c.minBuildRootBytes {
		result.Status = StatusWarn
		result.Code = alfserrors.ErrCodeLowDiskSpace
		result.Message = fmt.Sprintf("%s has only %s free (%s recommended)",
			path, formatBytes(availableBytes), formatBytes(c.minBuildRootBytes))
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s has %s free (%s recommended)",
		path, formatBytes(availableBytes), formatBytes(c.minBuildRootBytes))
	return result
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
