package core

import "strings"

// CleanString trims surrounding whitespace; pass lower to also fold the
// value to lower case (emails are stored and compared folded).
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
