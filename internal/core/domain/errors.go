package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// The cache returns it for missing and for expired entries alike.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponse indicates the delegated extraction service
	// returned something that does not parse as the declared schema.
	// Claims for the affected passage are dropped, the run continues.
	ErrMalformedResponse = errors.New("malformed extraction response")

	// ErrExtractorUnavailable indicates an extraction variant cannot run
	// (e.g. recogniser failed to initialise). Callers fall back to the
	// pattern-based variant.
	ErrExtractorUnavailable = errors.New("extractor unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// The delegated extraction variant is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIdentityRequired indicates the fetch-layer contact identity is
	// not configured. This is the one configuration failure allowed to
	// terminate the process.
	ErrIdentityRequired = errors.New("contact identity required")
)
