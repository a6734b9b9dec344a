package review

import "errors"

// Error taxonomy for review operations. Handlers map these onto HTTP
// status codes; everything the service returns wraps one of them.
var (
	// ErrInput marks malformed or rejected caller input.
	ErrInput = errors.New("invalid input")
	// ErrAssistNotFound marks a reference to a missing assist.
	ErrAssistNotFound = errors.New("assist not found")
	// ErrUpstreamGeneration marks an AI provider failure. State is
	// never modified when this is returned; the caller may retry.
	ErrUpstreamGeneration = errors.New("upstream generation failed")
	// ErrState marks corrupted or inconsistent persisted state.
	ErrState = errors.New("assist state error")
	// ErrConcurrentModification marks a save that lost an
	// optimistic-concurrency race with another writer.
	ErrConcurrentModification = errors.New("assist modified concurrently")
)
