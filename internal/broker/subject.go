package broker

import (
	"strings"

	"github.com/google/uuid"
)

// SanitizeToken rewrites a string into a single legal subject token.
// Illegal characters are replaced, never deleted: two inputs that differ
// only in illegal characters must not collapse onto the same subject.
func SanitizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ReplySubject derives a unique reply subject below a result-subject
// prefix. The hint (typically the input file's path relative to its
// topic) keeps subjects readable; the random suffix makes them unique
// across concurrent requests without shared state.
func ReplySubject(prefix, hint string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "." + SanitizeToken(hint) + "_" + suffix
}
