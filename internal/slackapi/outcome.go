package slackapi

import (
	"encoding/json"
	"time"
)

// CallVerb distinguishes read-only queries from mutating actions.
type CallVerb string

// Supported call verbs.
const (
	CallVerbQuery  CallVerb = "query"
	CallVerbAction CallVerb = "action"
)

// OutcomeKind enumerates the closed set of transport call classifications.
type OutcomeKind int

// Supported outcome kinds.
const (
	OutcomeKindSuccess OutcomeKind = iota
	OutcomeKindApplicationError
	OutcomeKindRateLimited
	OutcomeKindTransportError
)

// Outcome captures the classified result of a single transport call.
type Outcome struct {
	Kind             OutcomeKind
	Payload          json.RawMessage
	ApplicationCode  string
	RetryAfter       time.Duration
	TransportFailure error
}

// SuccessOutcome builds an outcome carrying a decoded successful payload.
func SuccessOutcome(payload json.RawMessage) Outcome {
	return Outcome{Kind: OutcomeKindSuccess, Payload: payload}
}

// ApplicationErrorOutcome builds an outcome for a named remote failure condition.
func ApplicationErrorOutcome(applicationCode string) Outcome {
	return Outcome{Kind: OutcomeKindApplicationError, ApplicationCode: applicationCode}
}

// RateLimitedOutcome builds an outcome instructing the caller to wait before retrying.
func RateLimitedOutcome(retryAfter time.Duration) Outcome {
	return Outcome{Kind: OutcomeKindRateLimited, RetryAfter: retryAfter}
}

// TransportErrorOutcome builds an outcome describing a connection-level failure.
func TransportErrorOutcome(transportFailure error) Outcome {
	return Outcome{Kind: OutcomeKindTransportError, TransportFailure: transportFailure}
}
