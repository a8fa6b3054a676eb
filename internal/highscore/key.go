package highscore

import (
	"strings"
	"unicode"
)

// KeySeparator replaces each run of whitespace in a normalized key.
const KeySeparator = '_'

// NormalizeKey maps a subject name to the identifier its record is stored
// under. The rule is, in order:
//
//  1. trim leading and trailing whitespace
//  2. lowercase
//  3. replace each run of whitespace with a single '_'
//  4. drop every character outside [a-z0-9_]
//
// "Mercury", " mercury  " and "MERCURY!" all normalize to "mercury".
// Changing this function changes record identity.
func NormalizeKey(subject string) string {
	s := strings.ToLower(strings.TrimSpace(subject))

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteRune(KeySeparator)
			}
			inSpace = true
			continue
		}
		inSpace = false
		if keyRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == KeySeparator
}
