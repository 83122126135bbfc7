package legacymsg

import "fmt"

// Reserialize parses raw (a message value's JSON encoding, in whatever
// whitespace the wire delivered) and re-renders it in both the pretty and
// compact forms: pretty for the hash pre-image and length bound, and the
// compact form, which the validate package's checks do not use.
//
// This round-trip is also itself a structural check: a value that doesn't
// parse as a single well-formed JSON object cannot be re-serialized at all,
// which callers surface as InvalidMessageCouldNotSerializeValue.
func Reserialize(raw []byte) (pretty []byte, compact []byte, err error) {
	tree, err := DecodeOrdered(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("legacymsg: could not re-serialize value: %w", err)
	}
	if tree.Kind != KindObject {
		return nil, nil, fmt.Errorf("legacymsg: message value must be a JSON object")
	}
	return Encode(tree, true), Encode(tree, false), nil
}
