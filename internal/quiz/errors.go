package quiz

import "errors"

var (
	// ErrGenerationFailed means the question generator could not produce
	// a usable candidate batch. The topic request is aborted.
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrIncompleteBank means the generated bank left at least one of
	// the review sets empty. An incomplete bank is never stored.
	ErrIncompleteBank = errors.New("question bank has an empty set")

	// ErrNotFound covers lookups for topics and schedule entries that do
	// not exist or belong to another user.
	ErrNotFound = errors.New("not found")
)
