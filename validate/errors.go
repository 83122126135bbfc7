// Package validate implements the legacy message hash-chain validator: the
// structural checks every message value must satisfy on its own, the chain
// checks a message must satisfy relative to its predecessor, and the small
// family of entry points that combine the two for KVT-mode, value-only-mode,
// out-of-order, and multi-author validation, plus their batch counterparts.
package validate

import "fmt"

// Kind enumerates every distinct way a message can fail validation. Callers
// that need to branch on failure reason should switch on Kind rather than
// matching error strings.
type Kind int

const (
	// InvalidPreviousMessage wraps a failure found while validating the
	// predecessor a caller supplied, before this message is even looked at.
	InvalidPreviousMessage Kind = iota
	// InvalidMessage wraps a structural or chain failure in this message.
	InvalidMessage
	// InvalidMessageValueOrder means the value's top-level JSON keys are
	// not in the required previous/author-sequence/timestamp/hash/content/
	// signature order.
	InvalidMessageValueOrder
	// AuthorsDidNotMatch means this message's author differs from its
	// predecessor's.
	AuthorsDidNotMatch
	// FirstMessageDidNotHaveSequenceOfOne means a message being validated
	// as the first in a feed has sequence != 1.
	FirstMessageDidNotHaveSequenceOfOne
	// FirstMessageDidNotHavePreviousOfNull means a message being validated
	// as the first in a feed has a non-null previous field.
	FirstMessageDidNotHavePreviousOfNull
	// InvalidHashFunction means the value's hash field names something
	// other than "sha256".
	InvalidHashFunction
	// InvalidBase64 means a private-message content string is not
	// canonical base64 followed by ".box".
	InvalidBase64
	// InvalidMessageValueLength means the pretty-printed value exceeds the
	// maximum UTF-16 code unit length.
	InvalidMessageValueLength
	// InvalidSequenceNumber means this message's sequence is not exactly
	// one more than its predecessor's.
	InvalidSequenceNumber
	// InvalidMessageNoValue means a KVT envelope carried an empty or
	// missing value.
	InvalidMessageNoValue
	// InvalidMessageCouldNotSerializeValue means the value could not be
	// round-tripped through the order-preserving JSON codec.
	InvalidMessageCouldNotSerializeValue
	// ActualHashDidNotMatchKey means the computed content hash does not
	// match the envelope's claimed key.
	ActualHashDidNotMatchKey
	// PreviousWasNull means this message's previous field is null even
	// though a predecessor message was supplied for the chain check.
	PreviousWasNull
	// ForkedFeed means this message's previous field does not reference
	// the predecessor actually supplied for the chain check.
	ForkedFeed
)

var kindNames = map[Kind]string{
	InvalidPreviousMessage:               "invalid_previous_message",
	InvalidMessage:                       "invalid_message",
	InvalidMessageValueOrder:             "invalid_message_value_order",
	AuthorsDidNotMatch:                   "authors_did_not_match",
	FirstMessageDidNotHaveSequenceOfOne:  "first_message_did_not_have_sequence_of_one",
	FirstMessageDidNotHavePreviousOfNull: "first_message_did_not_have_previous_of_null",
	InvalidHashFunction:                  "invalid_hash_function",
	InvalidBase64:                        "invalid_base64",
	InvalidMessageValueLength:            "invalid_message_value_length",
	InvalidSequenceNumber:                "invalid_sequence_number",
	InvalidMessageNoValue:                "invalid_message_no_value",
	InvalidMessageCouldNotSerializeValue: "invalid_message_could_not_serialize_value",
	ActualHashDidNotMatchKey:             "actual_hash_did_not_match_key",
	PreviousWasNull:                      "previous_was_null",
	ForkedFeed:                           "forked_feed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is the concrete error type every validation failure in this package
// returns. Cause is non-nil when the failure wraps an underlying decode or
// serialization error.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err, or any error in its Cause chain, is a *Error of the
// given kind. Batch validation wraps a pair or first-message failure in its
// own InvalidMessage/InvalidPreviousMessage *Error before returning it, so a
// caller checking the original failure reason has to see through that wrap.
func Is(err error, kind Kind) bool {
	for err != nil {
		ve, ok := err.(*Error)
		if !ok {
			return false
		}
		if ve.Kind == kind {
			return true
		}
		err = ve.Cause
	}
	return false
}
