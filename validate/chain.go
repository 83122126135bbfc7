package validate

import "github.com/lowtide-labs/ssbvalidate/internal/legacymsg"

// checkFirstMessage validates value as the first message of a feed: sequence
// must be 1 and previous must be null. Used whenever a caller validates a
// message with no predecessor at all (the single-value mode, and the base
// case of every chain mode).
func checkFirstMessage(value legacymsg.Value) error {
	if value.Sequence != 1 {
		return newErr(FirstMessageDidNotHaveSequenceOfOne, "first message has sequence %d, want 1", value.Sequence)
	}
	if value.Previous != nil {
		return newErr(FirstMessageDidNotHavePreviousOfNull, "first message has non-null previous %s", value.Previous)
	}
	return nil
}

// checkChainLink validates current against its immediate predecessor:
// sequence increments by exactly one, author is unchanged, and current's
// previous field names the predecessor's own content hash.
func checkChainLink(current legacymsg.Value, previous legacymsg.Value, previousHash legacymsg.Multihash) error {
	if current.Author != previous.Author {
		return newErr(AuthorsDidNotMatch, "author %q does not match predecessor author %q", current.Author, previous.Author)
	}
	if current.Sequence != previous.Sequence+1 {
		return newErr(InvalidSequenceNumber, "sequence %d does not follow predecessor sequence %d", current.Sequence, previous.Sequence)
	}
	if current.Previous == nil {
		return newErr(PreviousWasNull, "previous is null but a predecessor message was supplied")
	}
	if !current.Previous.Equal(previousHash) {
		return newErr(ForkedFeed, "previous %s does not match predecessor hash %s", current.Previous, previousHash)
	}
	return nil
}

// checkPositionalShape rejects only the internally-inconsistent combinations
// of sequence and previous: sequence 1 paired with a non-null previous, or
// any other sequence paired with a null previous. Unlike checkFirstMessage
// it does not require the message to actually be first; it is the shape
// check a mode with no feed-membership assumption at all can still make.
func checkPositionalShape(value legacymsg.Value) error {
	if value.Sequence == 1 && value.Previous != nil {
		return newErr(FirstMessageDidNotHavePreviousOfNull, "first message has non-null previous %s", value.Previous)
	}
	if value.Sequence != 1 && value.Previous == nil {
		return newErr(PreviousWasNull, "message with sequence %d has null previous", value.Sequence)
	}
	return nil
}

// checkChain validates current's chain-level invariants against an optional
// predecessor. previous == nil means current must be the feed's first
// message; this is what makes single-value validation and chain validation
// with a nil predecessor equivalent operations.
func checkChain(current legacymsg.Value, previous *legacymsg.Value, previousHash legacymsg.Multihash) error {
	if previous == nil {
		return checkFirstMessage(current)
	}
	return checkChainLink(current, *previous, previousHash)
}
