package legacymsg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is the strictly-decoded body of a legacy message: the part that
// participates in the hash chain. Unknown top-level fields are rejected —
// the legacy format never grew optional extensions, so an unrecognized key
// is either a future format this module doesn't understand yet, or
// corruption, and either way it must not validate silently.
type Value struct {
	Previous  *Multihash      `json:"previous"`
	Author    string          `json:"author"`
	Sequence  uint64          `json:"sequence"`
	Timestamp float64         `json:"timestamp"`
	Hash      string          `json:"hash"`
	Content   json.RawMessage `json:"content"`
	Signature string          `json:"signature"`
}

// DecodeValue strictly decodes raw into a Value, rejecting any field not in
// the schema above.
func DecodeValue(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var v Value
	if err := dec.Decode(&v); err != nil {
		return Value{}, fmt.Errorf("legacymsg: could not decode message value: %w", err)
	}
	return v, nil
}

// KVT is the outer envelope gossiped between peers: the content-addressed
// key, the value it addresses, and the local receive timestamp. Unlike
// Value, KVT is decoded loosely — the outer envelope is not part of what
// gets hashed, and peers have historically carried extra outer fields (or
// omitted `timestamp` entirely) without it mattering to validation.
type KVT struct {
	Key   Multihash       `json:"key"`
	Value json.RawMessage `json:"value"`
}

// DecodeKVT loosely decodes raw into a KVT envelope. The nested value is kept
// as raw bytes: callers that need the parsed Value call DecodeValue on it
// separately, and callers that need the exact re-serialization for hashing
// use DecodeOrdered on it instead.
func DecodeKVT(raw []byte) (KVT, error) {
	var kvt KVT
	if err := json.Unmarshal(raw, &kvt); err != nil {
		return KVT{}, fmt.Errorf("legacymsg: could not decode message envelope: %w", err)
	}
	return kvt, nil
}
