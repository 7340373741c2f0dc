package domain

import "errors"

var (
	// ErrLoad marks a knowledge artifact that is missing, unparsable or
	// internally inconsistent. It is the only error that should reach the
	// process boundary: a process with a corrupt index must refuse to serve.
	ErrLoad = errors.New("knowledge load failed")

	// ErrEmbeddingUnavailable marks an embedding call that produced no
	// usable vector. Callers substitute a deterministic fallback context
	// and keep going.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrDimensionMismatch marks a query vector whose dimensionality does
	// not match the store. Callers treat it like ErrEmbeddingUnavailable.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGenerationFailure marks a generation call that erred or returned
	// empty text. Callers substitute a fixed, user-safe reply.
	ErrGenerationFailure = errors.New("generation failed")
)
