// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// identifierRegex matches page names and section ids: ASCII letters, digits,
// underscores, dots and hyphens, starting with a letter or digit.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,99}$`)

// IsValidIdentifier reports whether s can be used as a page name or section id.
func IsValidIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}

// NormalizeText trims surrounding whitespace and converts s to Unicode NFC so
// visually identical Arabic or accented input compares and sorts equally.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
