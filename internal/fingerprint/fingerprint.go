// Package fingerprint computes a diagnostic content fingerprint for
// deduplicating repeated validation failures in logs.
//
// It is unrelated to the protocol's hash-chain invariants: the fingerprint is
// never compared against a message's `key` and never participates in any
// validation decision. It canonicalizes with RFC 8785 (JCS) before hashing
// so the fingerprint is stable regardless of key order, which is exactly
// the property deduplication needs and exactly the property the protocol's
// own pre-image transform (legacymsg.PreImage) must not have.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/ucarion/jcs"
)

// Of returns a short hex fingerprint of content, a decoded JSON value (object,
// array, string, number, bool or nil). It never returns an error: content that
// cannot be encoded or canonicalized yields the fixed string
// "unfingerprintable".
func Of(content interface{}) string {
	raw, err := json.Marshal(content)
	if err != nil {
		return "unfingerprintable"
	}

	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return "unfingerprintable"
	}

	canonical, err := jcs.Format(normalized)
	if err != nil {
		return "unfingerprintable"
	}

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:16]
}
