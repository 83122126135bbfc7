package validate

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lowtide-labs/ssbvalidate/internal/legacymsg"
	"github.com/lowtide-labs/ssbvalidate/internal/obslog"
)

// pairChecker validates messages[i] against messages[i-1]. Implementations
// only ever look at the single adjacent pair they're given: batch validation
// is an adjacency-only property, not a fold over the whole feed.
type pairChecker func(current, previous []byte) (legacymsg.Value, error)

// runBatch validates messages[0] as a first message and every subsequent
// messages[i] against messages[i-1], one goroutine per adjacent pair, and
// returns on the first failure found. Order of the returned error is not
// guaranteed to be the lowest failing index — only that a failure occurred —
// mirroring the fork/join parallel iterator this replaces, which made no
// ordering guarantee either.
func runBatch(ctx context.Context, messages [][]byte, first func([]byte) (legacymsg.Value, error), pair pairChecker) ([]legacymsg.Value, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	results := make([]legacymsg.Value, len(messages))

	firstValue, err := first(messages[0])
	if err != nil {
		obslog.Error("batch validation failed on first message", obslog.Fields{
			Operation: "runBatch",
			RunID:     runID,
			Error:     errors.Wrap(err, "first message invalid").Error(),
		})
		return nil, wrapErr(InvalidMessage, err, "message at index 0 is invalid")
	}
	results[0] = firstValue

	if len(messages) == 1 {
		return results, nil
	}

	group, _ := errgroup.WithContext(ctx)
	if BatchWorkerLimit > 0 {
		group.SetLimit(BatchWorkerLimit)
	}
	for i := 1; i < len(messages); i++ {
		i := i
		group.Go(func() error {
			value, err := pair(messages[i], messages[i-1])
			if err != nil {
				obslog.Error("batch validation short-circuited", obslog.Fields{
					Operation: "runBatch",
					RunID:     runID,
					Sequence:  uint64(i),
					Error:     errors.Wrap(err, "adjacent pair invalid").Error(),
				})
				return wrapErr(InvalidMessage, err, "message at index %d is invalid", i)
			}
			results[i] = value
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateMessageChainBatch validates a run of KVT envelopes from a single
// feed: messages[0] against previous (or as the feed's first message when
// previous is nil), and every messages[i] against messages[i-1].
func ValidateMessageChainBatch(ctx context.Context, rawKVTs [][]byte, previous []byte) ([]legacymsg.Value, error) {
	first := ValidateMessage
	if previous != nil {
		first = func(raw []byte) (legacymsg.Value, error) { return ValidateMessageChain(raw, previous) }
	}
	return runBatch(ctx, rawKVTs, first, ValidateMessageChain)
}

// ValidateValueChainBatch is ValidateMessageChainBatch for value-only mode.
func ValidateValueChainBatch(ctx context.Context, rawValues [][]byte, previous []byte) ([]legacymsg.Value, error) {
	first := ValidateValue
	if previous != nil {
		first = func(raw []byte) (legacymsg.Value, error) { return ValidateValueChain(raw, previous) }
	}
	return runBatch(ctx, rawValues, first, ValidateValueChain)
}

// ValidateOOOMessageBatch validates a run of KVT envelopes known to share a
// single author's feed, arriving out of order: messages[0] against previous
// (or as that author's first known message when previous is nil), and every
// messages[i] against messages[i-1]. Unlike ValidateMessageChainBatch this
// never requires sequence continuity or a correctly hashed predecessor, only
// that the author stays the same.
func ValidateOOOMessageBatch(ctx context.Context, rawKVTs [][]byte, previous []byte) ([]legacymsg.Value, error) {
	first := func(raw []byte) (legacymsg.Value, error) { return ValidateOOOMessage(raw, previous) }
	return runBatch(ctx, rawKVTs, first, ValidateOOOMessage)
}

// ValidateMultiAuthorMessageBatch validates a batch of KVT envelopes with no
// assumption that they share a feed or arrive in sequence: each is checked
// independently and concurrently. previous, when given, is validated the
// same way but does not constrain any entry in rawKVTs: multi-author mode
// makes no feed-membership assumption for messages[0] to link against.
func ValidateMultiAuthorMessageBatch(ctx context.Context, rawKVTs [][]byte, previous []byte) ([]legacymsg.Value, error) {
	return runIndependentBatch(ctx, rawKVTs, ValidateMultiAuthorMessage, previous)
}

// ValidateValueBatch validates a batch of message values with no assumption
// that they share a feed, arrive in sequence, or relate to one another at
// all: each is checked independently and concurrently, requiring only that
// its own first-message/has-previous shape is internally consistent. It is
// the value-only analogue of ValidateMultiAuthorMessageBatch, independent of
// ValidateValueChainBatch's adjacency chaining.
func ValidateValueBatch(ctx context.Context, rawValues [][]byte, previous []byte) ([]legacymsg.Value, error) {
	return runIndependentBatch(ctx, rawValues, validateValueIndependent, previous)
}

// runIndependentBatch validates every message in messages on its own, with
// no adjacency relationship between them. previous, when given, is validated
// the same way first and its failure is reported as InvalidPreviousMessage,
// but it never participates in validating any entry of messages.
func runIndependentBatch(ctx context.Context, messages [][]byte, check func([]byte) (legacymsg.Value, error), previous []byte) ([]legacymsg.Value, error) {
	if previous != nil {
		if _, err := check(previous); err != nil {
			return nil, wrapErr(InvalidPreviousMessage, err, "predecessor message is invalid")
		}
	}
	if len(messages) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	results := make([]legacymsg.Value, len(messages))
	group, _ := errgroup.WithContext(ctx)
	if BatchWorkerLimit > 0 {
		group.SetLimit(BatchWorkerLimit)
	}
	for i, raw := range messages {
		i, raw := i, raw
		group.Go(func() error {
			value, err := check(raw)
			if err != nil {
				obslog.Error("independent batch validation failed", obslog.Fields{
					Operation: "runIndependentBatch",
					RunID:     runID,
					Sequence:  uint64(i),
					Error:     errors.Wrap(err, "message invalid").Error(),
				})
				return wrapErr(InvalidMessage, err, "message at index %d is invalid", i)
			}
			results[i] = value
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
