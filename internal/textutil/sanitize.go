package textutil

import "strings"

// IdentityToken replaces every character outside [A-Za-z0-9] with an
// underscore. Case is preserved and nothing is trimmed, so equal inputs
// always produce equal keys.
func IdentityToken(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
