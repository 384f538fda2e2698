// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text trims surrounding whitespace and folds the value to Unicode NFC so that
// visually identical input compares and counts the same way.
func Text(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// OptionalText applies [Text] to a non-nil pointer in place.
func OptionalText(value *string) {
	if value != nil {
		*value = Text(*value)
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeUsername trims and lower-cases a username.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizePhone removes hyphens and every Unicode whitespace rune.
func NormalizePhone(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
