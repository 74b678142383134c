// Package vercmp orders dot-separated version strings the way
// `sort --version-sort` does for the versions host tools report:
// digit runs compare by numeric value, everything else lexically.
package vercmp

import "strings"

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
//
// Both strings are split on '.'. Each field is a leading run of digits
// followed by an optional suffix ("1a" is 1 then "a"). Fields compare
// left to right: numbers by value, then suffixes lexically. A field without
// a leading number sorts before one that has it. When every shared field is
// equal the version with more fields is the greater one, so "4.0" < "4.0.1".
func Compare(a, b string) int {
	af := strings.Split(a, ".")
	bf := strings.Split(b, ".")

	n := len(af)
	if len(bf) < n {
		n = len(bf)
	}
	for i := 0; i < n; i++ {
		if c := compareField(af[i], bf[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(af) < len(bf):
		return -1
	case len(af) > len(bf):
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether observed meets minVersion.
func AtLeast(observed, minVersion string) bool {
	return Compare(minVersion, observed) <= 0
}

func compareField(a, b string) int {
	an, as := splitNumeric(a)
	bn, bs := splitNumeric(b)

	switch {
	case an == "" && bn != "":
		return -1
	case an != "" && bn == "":
		return 1
	}

	if c := compareDigits(an, bn); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}

// splitNumeric splits field into its leading digit run and the rest.
func splitNumeric(field string) (digits, suffix string) {
	pos := 0
	for pos < len(field) && isDigit(field[pos]) {
		pos++
	}
	return field[:pos], field[pos:]
}

// compareDigits compares two digit runs by value without converting them,
// so arbitrarily long runs (dates, build numbers) never overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
