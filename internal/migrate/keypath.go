package migrate

import "strings"

// KeypathSep separates segments in a keypath string.
const KeypathSep = "."

// Keypath is an immutable, ordered list of object keys used to navigate a
// JSON document, parsed from a dotted string like "colors.home_run".
type Keypath struct {
	parts []string
}

// ParseKeypath splits a dotted keypath string into its segments.
func ParseKeypath(s string) Keypath {
	return Keypath{parts: strings.Split(s, KeypathSep)}
}

// Len returns the number of segments.
func (k Keypath) Len() int { return len(k.parts) }

// Leaf returns the final segment.
func (k Keypath) Leaf() string { return k.parts[len(k.parts)-1] }

// Parent returns the keypath with the final segment removed.
func (k Keypath) Parent() Keypath { return Keypath{parts: k.parts[:len(k.parts)-1]} }

// Prefix returns the keypath truncated to its first n segments.
func (k Keypath) Prefix(n int) Keypath { return Keypath{parts: k.parts[:n]} }

// Child returns the keypath extended with one more segment.
func (k Keypath) Child(segment string) Keypath {
	parts := make([]string, len(k.parts), len(k.parts)+1)
	copy(parts, k.parts)
	return Keypath{parts: append(parts, segment)}
}

// Parts returns a copy of the segments.
func (k Keypath) Parts() []string {
	out := make([]string, len(k.parts))
	copy(out, k.parts)
	return out
}

func (k Keypath) String() string { return strings.Join(k.parts, KeypathSep) }

// queryPath renders the keypath in gjson/sjson syntax. Segments came from
// splitting on the separator so they cannot contain dots, but every other
// character gjson gives meaning to (wildcards, the pipe separator, the #
// operator, @ modifiers) must be escaped so a key is always a literal key.
func (k Keypath) queryPath() string {
	escaped := make([]string, len(k.parts))
	for i, p := range k.parts {
		escaped[i] = escapeQuerySegment(p)
	}
	return strings.Join(escaped, ".")
}

const querySpecials = `*?\|#@`

func escapeQuerySegment(s string) string {
	if !strings.ContainsAny(s, querySpecials) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(querySpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
