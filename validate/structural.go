package validate

import (
	"github.com/lowtide-labs/ssbvalidate/internal/legacymsg"
	"github.com/lowtide-labs/ssbvalidate/internal/obslog"
)

// MaxValueLength is the maximum size, in UTF-16 code units, of a
// pretty-printed message value. Gossip feeds have carried this bound since
// the legacy format's earliest days; it bounds how much a single message can
// cost every peer that replicates it. A config.Config loaded at startup may
// lower or raise it via SetMaxValueLength; it is a var rather than a const
// for exactly that reason.
var MaxValueLength = 8192

// SetMaxValueLength overrides MaxValueLength, typically from a loaded
// config.Config at process startup.
func SetMaxValueLength(units int) {
	MaxValueLength = units
}

// BatchWorkerLimit caps how many adjacent pairs a batch call validates
// concurrently. 0 (the default) leaves errgroup unbounded, spawning one
// goroutine per pair.
var BatchWorkerLimit = 0

// SetBatchWorkerLimit overrides BatchWorkerLimit, typically from a loaded
// config.Config at process startup.
func SetBatchWorkerLimit(n int) {
	BatchWorkerLimit = n
}

// structuralResult bundles the artifacts a successful structural check
// produces, so chain checks and hash checks don't have to re-derive them.
type structuralResult struct {
	value      legacymsg.Value
	prettyJSON []byte
}

// checkStructure runs every check that depends only on a single message
// value, never on a predecessor: serialization round-trip, presence of every
// schema field, key order, strict decode, hash function name, private-content
// shape, and length bound.
func checkStructure(rawValue []byte) (structuralResult, error) {
	pretty, _, err := legacymsg.Reserialize(rawValue)
	if err != nil {
		return structuralResult{}, wrapErr(InvalidMessageCouldNotSerializeValue, err, "value could not be re-serialized")
	}

	// A missing field is a strict-decode failure; it is checked before key
	// order because the order pattern would otherwise reject it first.
	tree, err := legacymsg.DecodeOrdered(rawValue)
	if err != nil {
		return structuralResult{}, wrapErr(InvalidMessageCouldNotSerializeValue, err, "value could not be re-serialized")
	}
	for _, field := range []string{"previous", "author", "sequence", "timestamp", "hash", "content", "signature"} {
		if _, ok := tree.Get(field); !ok {
			return structuralResult{}, newErr(InvalidMessage, "value is missing field %q", field)
		}
	}

	if !legacymsg.HasCorrectFieldOrder(rawValue) {
		return structuralResult{}, newErr(InvalidMessageValueOrder, "value fields are not in the required order")
	}

	value, err := legacymsg.DecodeValue(rawValue)
	if err != nil {
		return structuralResult{}, wrapErr(InvalidMessage, err, "value could not be decoded")
	}

	if value.Hash != "sha256" {
		obslog.Warn("rejected message with unsupported hash function", obslog.Fields{
			Operation: "checkStructure",
			Author:    value.Author,
			Sequence:  value.Sequence,
		})
		return structuralResult{}, newErr(InvalidHashFunction, "hash function %q is not supported", value.Hash)
	}

	if contentStr, isPrivate := decodePrivateContent(value.Content); isPrivate {
		if !legacymsg.IsCanonicalBase64Box(contentStr) {
			return structuralResult{}, newErr(InvalidBase64, "private content is not canonical base64")
		}
	}

	if length := legacymsg.UTF16Len(string(pretty)); length > MaxValueLength {
		obslog.Warn("rejected oversized message value", obslog.Fields{
			Operation: "checkStructure",
			Author:    value.Author,
			Sequence:  value.Sequence,
		})
		return structuralResult{}, newErr(InvalidMessageValueLength, "value is %d UTF-16 units, exceeds %d", length, MaxValueLength)
	}

	return structuralResult{value: value, prettyJSON: pretty}, nil
}

// decodePrivateContent reports whether raw content is a bare JSON string (the
// shape private, encrypted content takes) and returns its text.
func decodePrivateContent(raw []byte) (string, bool) {
	tree, err := legacymsg.DecodeOrdered(raw)
	if err != nil {
		return "", false
	}
	if tree.Kind != legacymsg.KindString {
		return "", false
	}
	return tree.Str, true
}
