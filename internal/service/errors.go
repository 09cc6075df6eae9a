package service

import "errors"

// Error taxonomy surfaced to controllers. Everything else the pipeline can
// go wrong on is absorbed into degraded content, never a request error.
var (
	// ErrGenerationFailed: both generator attempts produced invalid
	// structure. Nothing was persisted.
	ErrGenerationFailed = errors.New("test generation failed: model returned no usable questions")

	// ErrNotFound: attempt or question absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the caller does not own the attempt.
	ErrForbidden = errors.New("forbidden")

	// ErrTypeMismatch: the question does not belong to the attempt's test.
	ErrTypeMismatch = errors.New("question does not belong to this test")
)
