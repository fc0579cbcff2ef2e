// Package normalize turns raw history fragments into records that are safe
// to hand to JSON transport and display. It performs no I/O: the reader in
// pkg/history owns queries, this package owns transformation only.
package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Strictness selects how aggressively text fragments are sanitized.
type Strictness int

const (
	// StrictnessMinimal strips the ASCII control characters that break
	// JSON transport and terminal display, and nothing else. This is the
	// default: legitimate content survives untouched.
	StrictnessMinimal Strictness = iota

	// StrictnessStrict additionally strips DEL, replaces invalid UTF-8
	// with the replacement character, and strips noncharacters and
	// zero-width characters.
	StrictnessStrict
)

// ParseStrictness maps a config value to a Strictness level.
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minimal":
		return StrictnessMinimal, nil
	case "strict":
		return StrictnessStrict, nil
	}
	return StrictnessMinimal, fmt.Errorf("unknown sanitization strictness %q (want minimal or strict)", s)
}

func (s Strictness) String() string {
	if s == StrictnessStrict {
		return "strict"
	}
	return "minimal"
}

// Sanitize removes unsafe characters from a text fragment. At both levels
// the transform is idempotent and leaves \t, \n, \r and all other Unicode
// (emoji and combining marks included) alone; no Unicode normalization is
// applied, since that risks corrupting legitimate content.
func Sanitize(s string, level Strictness) string {
	if level == StrictnessStrict {
		return sanitizeStrict(s)
	}
	return sanitizeMinimal(s)
}

// strippedControl covers 0x00-0x08, 0x0B, 0x0C, 0x0E-0x1F. Tab, LF and CR
// stay.
func strippedControl(c byte) bool {
	switch {
	case c <= 0x08:
		return true
	case c == 0x0B || c == 0x0C:
		return true
	case c >= 0x0E && c <= 0x1F:
		return true
	}
	return false
}

// sanitizeMinimal strips control bytes and preserves every other byte
// exactly, multi-byte sequences included.
func sanitizeMinimal(s string) string {
	i := 0
	for i < len(s) && !strippedControl(s[i]) {
		i++
	}
	if i == len(s) {
		return s
	}

	b := make([]byte, 0, len(s))
	b = append(b, s[:i]...)
	for ; i < len(s); i++ {
		if !strippedControl(s[i]) {
			b = append(b, s[i])
		}
	}
	return string(b)
}

func sanitizeStrict(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			// Bytes that do not form valid UTF-8 (including stray
			// surrogate encodings) become the replacement character.
			b.WriteRune(utf8.RuneError)
		case r < 0x20 && strippedControl(byte(r)):
			// drop
		case r == 0x7F:
			// drop DEL
		case r == 0xFFFE || r == 0xFFFF:
			// drop noncharacters
		case r >= 0x200B && r <= 0x200D, r == 0xFEFF:
			// drop zero-width characters
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
