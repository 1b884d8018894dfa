package overseer

import "laptudirm.com/x/overseer/pkg/game"

// OutcomeKind tags what one turn attempt cycle produced.
type OutcomeKind uint8

const (
	// Accepted: the provider's move was legal and has been applied.
	Accepted OutcomeKind = iota

	// IllegalReply: the reply was unparsable or outside the legal-move
	// set. Consumes one unit of the turn's retry budget.
	IllegalReply

	// ProviderError: the request itself failed. Never retried; the
	// game is aborted.
	ProviderError

	// RetriesExhausted: the retry budget ran out without a legal move.
	RetriesExhausted
)

func (kind OutcomeKind) String() string {
	switch kind {
	case Accepted:
		return "accepted"
	case IllegalReply:
		return "illegal reply"
	case ProviderError:
		return "provider error"
	default:
		return "retries exhausted"
	}
}

// RejectReason says why a reply or request was rejected. NotParsable
// and NotInLegalSet are retryable within the turn's budget; the
// provider reasons abort the game outright so that infrastructure
// failures are never masked as gameplay errors.
type RejectReason uint8

const (
	NotRejected RejectReason = iota
	NotParsable
	NotInLegalSet
	ProviderTimeout
	ProviderUnreachable
)

func (reason RejectReason) String() string {
	switch reason {
	case NotParsable:
		return "reply is not a move"
	case NotInLegalSet:
		return "move is not legal in this position"
	case ProviderTimeout:
		return "provider timed out"
	case ProviderUnreachable:
		return "provider unreachable"
	default:
		return "not rejected"
	}
}

// TurnOutcome is the per-turn-cycle record forwarded to the sink. It is
// never kept past the turn it describes.
type TurnOutcome struct {
	Side game.Side
	Kind OutcomeKind

	// Move is set for Accepted outcomes.
	Move game.Move

	// Raw is the provider's literal reply text for IllegalReply
	// outcomes, kept for diagnostics.
	Raw string

	// Reason is set for IllegalReply and ProviderError outcomes.
	Reason RejectReason

	// Cycle is the attempt number within the turn: 0 for the first
	// request, 1 for the first retry, and so on.
	Cycle int
}
