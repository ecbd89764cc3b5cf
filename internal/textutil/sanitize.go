package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. Control characters are dropped and the result is
// trimmed of surrounding whitespace and dots.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, fileNameReplacer.Replace(name))
	return strings.Trim(strings.TrimSpace(name), ".")
}

// NormalizeFileName returns the NFC form of name, sanitized for use as a
// file name. Empty results fall back to fallback.
func NormalizeFileName(name, fallback string) string {
	out := SanitizeFileName(norm.NFC.String(name))
	if out == "" {
		return fallback
	}
	return out
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Tail returns the last limit runes of s, prefixed with "..." when cut.
func Tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return "..." + string(runes[len(runes)-limit:])
}
