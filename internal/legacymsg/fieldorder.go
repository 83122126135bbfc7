package legacymsg

import "regexp"

// fieldOrderPatterns enforce the legacy value object's required top-level key
// order directly over the raw JSON bytes, rather than relying on a struct
// decode (which does not observe source order at all). `previous` must come
// first; `author` and `sequence` may appear in either order relative to each
// other but both before `timestamp`; then `hash`, `content`, `signature` in
// that fixed order. Whitespace between fields is tolerated since pretty and
// compact forms must both pass.
var fieldOrderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)^\s*\{\s*"previous"\s*:.*"author"\s*:.*"sequence"\s*:.*"timestamp"\s*:.*"hash"\s*:.*"content"\s*:.*"signature"\s*:.*\}\s*$`),
	regexp.MustCompile(`(?s)^\s*\{\s*"previous"\s*:.*"sequence"\s*:.*"author"\s*:.*"timestamp"\s*:.*"hash"\s*:.*"content"\s*:.*"signature"\s*:.*\}\s*$`),
}

// HasCorrectFieldOrder reports whether raw (the JSON encoding of a message
// value) presents its top-level keys in the order the legacy protocol
// requires. A value that decodes correctly but fails this check is still
// rejected: the wire format is part of what gets hashed and gossiped, not
// just what gets parsed.
func HasCorrectFieldOrder(raw []byte) bool {
	for _, p := range fieldOrderPatterns {
		if p.Match(raw) {
			return true
		}
	}
	return false
}
