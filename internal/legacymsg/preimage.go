package legacymsg

import (
	"crypto/sha256"
	"unicode/utf16"

	"github.com/lowtide-labs/ssbvalidate/internal/bufpool"
)

// nodeBufferBinary reproduces Node.js's `Buffer.from(str, "binary")`: every
// UTF-16 code unit of str is truncated to its low byte. This is the legacy
// protocol's signature quirk — it was never a deliberate encoding choice,
// just what fell out of hashing a JS string via the "binary" encoding, and
// every compliant implementation has to reproduce it byte for byte.
//
// Characters whose code point exceeds a single UTF-16 code unit (i.e. any
// character represented by a surrogate pair) contribute two low-bytes, one
// per surrogate half — again purely because that's what Buffer.from did.
func nodeBufferBinary(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = byte(u & 0xFF)
	}
	return out
}

// PreImage computes the SHA-256 digest that a message's `key` must equal: the
// low-byte transform of the pretty-printed value subtree, hashed and wrapped
// in a message multihash.
//
// prettyJSON must already be the exact bytes that would be hashed — callers
// get this from Encode(value, true), never by re-deriving it some other way,
// since the transform is only correct over that specific serialization.
func PreImage(prettyJSON []byte) Multihash {
	buf := bufpool.Get()
	defer bufpool.Put(buf)

	buf.Write(nodeBufferBinary(string(prettyJSON)))
	sum := sha256.Sum256(buf.Bytes())

	return Multihash{Sigil: SigilMessage, Sum: sum}
}

// UTF16Len returns the length of s measured in UTF-16 code units, the unit
// the legacy protocol's 8192-unit message size bound is expressed in (again
// inherited from the original Node.js implementation, where strings are
// natively UTF-16).
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
