package agency

import (
	"strings"
)

// MergeHeadsigns combines two headsigns shown for the same route direction.
//
// The result does not depend on the argument order.
func MergeHeadsigns(a, b string) string {
	switch {
	case a == b:
		return a
	case a == "":
		return b
	case b == "":
		return a
	case strings.Contains(a, b):
		return a
	case strings.Contains(b, a):
		return b
	}
	if b < a {
		a, b = b, a
	}
	return a + " / " + b
}
