package agent

import "errors"

// Failure variants for a single turn. Use errors.Is() to classify.
var (
	// ErrContextUnavailable indicates the restaurant lookup failed or returned
	// nothing. Recovered locally: the session degrades to a placeholder
	// context and the turn proceeds.
	ErrContextUnavailable = errors.New("restaurant context unavailable")

	// ErrRetrievalFailure indicates the vector search call failed. Recovered
	// locally: the router lets the fallback tool proceed with a degraded
	// tool result.
	ErrRetrievalFailure = errors.New("review retrieval failed")

	// ErrGenerationFailure indicates the language-model backend failed. Not
	// locally recoverable: surfaced as a structured error result, never as a
	// raw error across the turn boundary.
	ErrGenerationFailure = errors.New("generation failed")

	// ErrToolBudgetExceeded marks the invocation bound. A policy cutoff, not
	// a failure: the synthesizer answers with whatever was gathered.
	ErrToolBudgetExceeded = errors.New("tool invocation budget exceeded")
)
