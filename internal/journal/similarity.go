// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the sequence-matching similarity of a and b in [0, 1]:
// 2*M/T, where M is the number of code points in the matching blocks and T
// is the total length of both strings. Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
