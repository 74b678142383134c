package preflight

// VersionRequirement is one host tool and the oldest version LFS supports.
type VersionRequirement struct {
	// Name is the package name shown to the operator (e.g., "Binutils").
	Name string `json:"name"`
	// Command is the program probed with --version (e.g., "ld").
	Command string `json:"command"`
	// MinVersion is the oldest acceptable version.
	MinVersion string `json:"min_version"`
	// Required makes a failure stop the whole run.
	Required bool `json:"required"`
}

// KernelMinimum is the oldest supported host kernel (major.minor).
const KernelMinimum = "4.19"

// DefaultRequirements returns the host tool catalog in check order.
// A fresh slice is returned on every call.
//
// Coreutils comes first and is the only required entry.
func DefaultRequirements() []VersionRequirement {
	return []VersionRequirement{
		{Name: "Coreutils", Command: "sort", MinVersion: "8.1", Required: true},
		{Name: "Bash", Command: "bash", MinVersion: "3.2"},
		{Name: "Binutils", Command: "ld", MinVersion: "2.13.1"},
		{Name: "Bison", Command: "bison", MinVersion: "2.7"},
		{Name: "Diffutils", Command: "diff", MinVersion: "2.8.1"},
		{Name: "Findutils", Command: "find", MinVersion: "4.2.31"},
		{Name: "Gawk", Command: "gawk", MinVersion: "4.0.1"},
		{Name: "GCC", Command: "gcc", MinVersion: "5.2"},
		{Name: "GCC (C++)", Command: "g++", MinVersion: "5.2"},
		{Name: "Grep", Command: "grep", MinVersion: "2.5.1a"},
		{Name: "Gzip", Command: "gzip", MinVersion: "1.3.12"},
		{Name: "M4", Command: "m4", MinVersion: "1.4.10"},
		{Name: "Make", Command: "make", MinVersion: "4.0"},
		{Name: "Patch", Command: "patch", MinVersion: "2.5.4"},
		{Name: "Perl", Command: "perl", MinVersion: "5.8.8"},
		{Name: "Python", Command: "python3", MinVersion: "3.4"},
		{Name: "Sed", Command: "sed", MinVersion: "4.1.5"},
		{Name: "Tar", Command: "tar", MinVersion: "1.22"},
		{Name: "Texinfo", Command: "texi2any", MinVersion: "5.0"},
		{Name: "Xz", Command: "xz", MinVersion: "5.0.0"},
	}
}

// Alias is a command that must identify as a particular implementation.
type Alias struct {
	Command string `json:"command"`
	Want    string `json:"want"`
}

// DefaultAliases returns the alias checks in order.
func DefaultAliases() []Alias {
	return []Alias{
		{Command: "awk", Want: "GNU"},
		{Command: "yacc", Want: "Bison"},
		{Command: "sh", Want: "Bash"},
	}
}
