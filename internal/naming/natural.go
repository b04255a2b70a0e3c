package naming

import "strings"

// NaturalLess reports whether a sorts before b when embedded digit runs are
// compared numerically and letters case-insensitively ("vu9" < "vu10").
// Strings that compare equal that way fall back to byte order so the result
// is a strict total order.
func NaturalLess(a, b string) bool {
	if c := NaturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// NaturalCompare returns -1, 0 or +1. Digit runs compare by numeric value,
// then by length (so "01" sorts after "1"); other bytes compare after ASCII
// case folding.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareDigits(a[si:i], b[sj:j]); c != 0 {
				return c
			}
			continue
		}
		la, lb := lower(ca), lower(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

// compareDigits compares two digit runs of arbitrary length numerically.
func compareDigits(x, y string) int {
	tx := strings.TrimLeft(x, "0")
	ty := strings.TrimLeft(y, "0")
	if len(tx) != len(ty) {
		if len(tx) < len(ty) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(tx, ty); c != 0 {
		return c
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
