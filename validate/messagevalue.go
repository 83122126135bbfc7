package validate

import "github.com/lowtide-labs/ssbvalidate/internal/legacymsg"

// ValidateValue validates a single message value, with no envelope and no
// key to check the hash against, as the first message of its feed.
func ValidateValue(rawValue []byte) (legacymsg.Value, error) {
	sr, err := checkStructure(rawValue)
	if err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkChain(sr.value, nil, legacymsg.Multihash{}); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}

// ValidateValueChain validates rawValue against its immediate predecessor
// rawPreviousValue. The predecessor's content hash is computed fresh from its
// own pretty-printed form, since value-only mode has no envelope key to trust
// instead.
func ValidateValueChain(rawValue, rawPreviousValue []byte) (legacymsg.Value, error) {
	prevResult, err := checkStructure(rawPreviousValue)
	if err != nil {
		return legacymsg.Value{}, wrapErr(InvalidPreviousMessage, err, "predecessor value is invalid")
	}
	previousHash := legacymsg.PreImage(prevResult.prettyJSON)

	sr, err := checkStructure(rawValue)
	if err != nil {
		return legacymsg.Value{}, err
	}

	if err := checkChain(sr.value, &prevResult.value, previousHash); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}

// validateValueIndependent validates rawValue with no assumption about which
// feed it belongs to or where in that feed it falls: only structural
// soundness and the first-message/has-previous shape are checked. It is the
// value-only analogue of ValidateMultiAuthorMessage, used by ValidateValueBatch.
func validateValueIndependent(rawValue []byte) (legacymsg.Value, error) {
	sr, err := checkStructure(rawValue)
	if err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkPositionalShape(sr.value); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}
