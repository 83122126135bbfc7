package legacymsg

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
)

// Sigil distinguishes what a multihash refers to: a message (%) or a blob (&).
type Sigil byte

const (
	SigilMessage Sigil = '%'
	SigilBlob    Sigil = '&'
)

// multihashPattern matches the full %<base64>=.sha256 / &<base64>=.sha256
// form. The base64 body is always 43 chars plus a single trailing '=' pad
// char, since it always encodes exactly 32 bytes (a SHA-256 digest).
var multihashPattern = regexp.MustCompile(`^([%&])([A-Za-z0-9+/]{43}=)\.sha256$`)

// Multihash is a parsed reference to a message or blob: a sigil byte plus a
// 32-byte SHA-256 digest. No encoding family tag is stored: ParseMultihash
// accepts only the ".sha256" suffix and String always renders it.
type Multihash struct {
	Sigil Sigil
	Sum   [32]byte
}

// ParseMultihash parses s into a Multihash. It rejects non-canonical base64
// (anything standard encoding wouldn't itself produce, caught by re-encoding
// and comparing) and any encoding family other than sha256.
func ParseMultihash(s string) (Multihash, error) {
	m := multihashPattern.FindStringSubmatch(s)
	if m == nil {
		return Multihash{}, fmt.Errorf("legacymsg: %q is not a well-formed multihash", s)
	}
	sigil := Sigil(m[1][0])
	body := m[2]

	sum, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Multihash{}, fmt.Errorf("legacymsg: %q has invalid base64: %w", s, err)
	}
	if len(sum) != 32 {
		return Multihash{}, fmt.Errorf("legacymsg: %q does not decode to 32 bytes", s)
	}
	// Canonical check: re-encoding the decoded bytes must reproduce the
	// input exactly, ruling out non-canonical padding or alternate
	// encodings of the same 32 bytes.
	if base64.StdEncoding.EncodeToString(sum) != body {
		return Multihash{}, fmt.Errorf("legacymsg: %q is not canonical base64", s)
	}

	var out Multihash
	out.Sigil = sigil
	copy(out.Sum[:], sum)
	return out, nil
}

// String renders m back to its %.../&... text form.
func (m Multihash) String() string {
	return fmt.Sprintf("%c%s.sha256", byte(m.Sigil), base64.StdEncoding.EncodeToString(m.Sum[:]))
}

// Equal reports whether m and other refer to the same sigil and digest.
func (m Multihash) Equal(other Multihash) bool {
	return m.Sigil == other.Sigil && m.Sum == other.Sum
}

// MarshalJSON renders m as its quoted text form.
func (m Multihash) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses m from its quoted text form.
func (m *Multihash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMultihash(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// IsCanonicalBase64Box reports whether s matches the canonical base64 body
// of a private-message ".box" ciphertext string, ported from the
// is-canonical-base64 JS module's pattern: runs of 4 base64 characters,
// then an optional trailing group whose padding is restricted to the
// values standard base64 padding can actually produce (a single extra
// character followed by "==", or two extra characters followed by "="
// drawn from the alphabet subset that padding leaves valid), followed by
// ".box" and anything after it. Content validation never decodes the
// ciphertext, only shapes it.
var boxPattern = regexp.MustCompile(`^(?:[a-zA-Z0-9/+]{4})*(?:[a-zA-Z0-9/+](?:(?:[AQgw]==)|(?:[a-zA-Z0-9/+][AEIMQUYcgkosw048]=)))?\.box.*$`)

func IsCanonicalBase64Box(s string) bool {
	return boxPattern.MatchString(s)
}
