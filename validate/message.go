package validate

import (
	"github.com/lowtide-labs/ssbvalidate/internal/fingerprint"
	"github.com/lowtide-labs/ssbvalidate/internal/legacymsg"
	"github.com/lowtide-labs/ssbvalidate/internal/obslog"
)

// decodeEnvelope decodes a KVT envelope and runs the structural checks on its
// nested value. It deliberately stops short of comparing the computed hash
// against the claimed key: chain-relative checks (author, sequence, previous
// linkage) run against the still-unverified key first, so a forged message
// carrying a stale key is reported as a chain failure (ForkedFeed,
// AuthorsDidNotMatch, ...) rather than a generic hash mismatch whenever both
// are simultaneously true.
func decodeEnvelope(rawKVT []byte) (legacymsg.KVT, structuralResult, error) {
	kvt, err := legacymsg.DecodeKVT(rawKVT)
	if err != nil {
		return legacymsg.KVT{}, structuralResult{}, wrapErr(InvalidMessage, err, "could not decode message envelope")
	}
	if len(kvt.Value) == 0 {
		return legacymsg.KVT{}, structuralResult{}, newErr(InvalidMessageNoValue, "message envelope has no value")
	}

	sr, err := checkStructure(kvt.Value)
	if err != nil {
		return legacymsg.KVT{}, structuralResult{}, err
	}
	return kvt, sr, nil
}

// checkHashMatchesKey verifies kvt.Key equals the content hash computed from
// sr's pretty-printed value, logging and fingerprinting on mismatch.
func checkHashMatchesKey(kvt legacymsg.KVT, sr structuralResult) error {
	actual := legacymsg.PreImage(sr.prettyJSON)
	if actual.Equal(kvt.Key) {
		return nil
	}
	obslog.Warn("rejected message with mismatched key", obslog.Fields{
		Operation:   "checkHashMatchesKey",
		Author:      sr.value.Author,
		Sequence:    sr.value.Sequence,
		Fingerprint: fingerprint.Of(sr.value.Content),
	})
	return newErr(ActualHashDidNotMatchKey, "computed hash %s does not match key %s", actual, kvt.Key)
}

// ValidateMessage validates a single KVT envelope as the first message of its
// feed: structurally sound, sequence 1, previous null, and correctly hashed.
func ValidateMessage(rawKVT []byte) (legacymsg.Value, error) {
	kvt, sr, err := decodeEnvelope(rawKVT)
	if err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkChain(sr.value, nil, legacymsg.Multihash{}); err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkHashMatchesKey(kvt, sr); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}

// ValidateMessageChain validates rawKVT against its immediate predecessor
// rawPreviousKVT: both must be structurally sound, and rawKVT's
// sequence/author/previous fields must link to rawPreviousKVT. The
// predecessor's key is read and trusted as-is for the linkage comparison.
// Its own hash is not recomputed and re-verified here: a predecessor with a
// wrong key is a fault of whatever validated it when it was first accepted
// into the feed, independent of whether it correctly chains to rawKVT.
func ValidateMessageChain(rawKVT, rawPreviousKVT []byte) (legacymsg.Value, error) {
	prevKVT, prevResult, err := decodeEnvelope(rawPreviousKVT)
	if err != nil {
		return legacymsg.Value{}, wrapErr(InvalidPreviousMessage, err, "predecessor message is invalid")
	}

	kvt, sr, err := decodeEnvelope(rawKVT)
	if err != nil {
		return legacymsg.Value{}, err
	}

	if err := checkChain(sr.value, &prevResult.value, prevKVT.Key); err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkHashMatchesKey(kvt, sr); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}

// ValidateOOOMessage validates rawKVT as a standalone message, optionally
// known to follow rawPreviousKVT in the same author's feed, without
// requiring that predecessor to itself be structurally valid or correctly
// hashed: only its author is read out of it for the comparison. This is the
// shape gossip replication takes when messages arrive before the rest of
// their feed has: each message is checked for internal soundness and feed
// membership as it arrives, and full chain linkage is re-checked later once
// gaps are filled in. rawPreviousKVT is nil only when rawKVT is the first
// message known from that author.
func ValidateOOOMessage(rawKVT, rawPreviousKVT []byte) (legacymsg.Value, error) {
	kvt, sr, err := decodeEnvelope(rawKVT)
	if err != nil {
		return legacymsg.Value{}, err
	}
	if rawPreviousKVT != nil {
		prevKVT, err := legacymsg.DecodeKVT(rawPreviousKVT)
		if err != nil {
			return legacymsg.Value{}, wrapErr(InvalidPreviousMessage, err, "predecessor message is invalid")
		}
		prevValue, err := legacymsg.DecodeValue(prevKVT.Value)
		if err != nil {
			return legacymsg.Value{}, wrapErr(InvalidPreviousMessage, err, "predecessor message is invalid")
		}
		if sr.value.Author != prevValue.Author {
			return legacymsg.Value{}, newErr(AuthorsDidNotMatch, "author %q does not match predecessor author %q", sr.value.Author, prevValue.Author)
		}
	}
	if sr.value.Sequence == 1 {
		if err := checkFirstMessage(sr.value); err != nil {
			return legacymsg.Value{}, err
		}
	} else if sr.value.Previous == nil {
		return legacymsg.Value{}, newErr(PreviousWasNull, "message with sequence %d has null previous", sr.value.Sequence)
	}
	if err := checkHashMatchesKey(kvt, sr); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}

// ValidateMultiAuthorMessage validates rawKVT as a standalone message with no
// assumption about which feed it belongs to: only structural soundness, the
// first-message/has-previous shape, and hash correctness are checked. This is
// the entry point a bulk import of messages from many feeds at once uses,
// before per-feed chain checking.
func ValidateMultiAuthorMessage(rawKVT []byte) (legacymsg.Value, error) {
	kvt, sr, err := decodeEnvelope(rawKVT)
	if err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkPositionalShape(sr.value); err != nil {
		return legacymsg.Value{}, err
	}
	if err := checkHashMatchesKey(kvt, sr); err != nil {
		return legacymsg.Value{}, err
	}
	return sr.value, nil
}
