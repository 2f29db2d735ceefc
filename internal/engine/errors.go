package engine

import "errors"

var (
	// ErrStoreUnavailable signals the store could not be reached; no state
	// was mutated and the action can simply be retried.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrBatchCommitFailed signals the atomic commit was rejected. The store
	// guarantees no partial mutation is observable, so the caller can roll
	// back any optimistic UI state and retry.
	ErrBatchCommitFailed = errors.New("toggle commit failed")
)
