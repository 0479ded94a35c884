package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrIndexUnavailable = errors.New("index unavailable")
	ErrMalformedQuery   = errors.New("malformed query")

	// Data-completeness gaps. Scoped to one cell or topic, never fatal
	// for a whole matrix.
	ErrEmptyCell            = errors.New("cell has no documents")
	ErrNoTopicProbabilities = errors.New("cell has no topic probabilities")

	ErrEmptyCorpus = errors.New("empty training corpus")
	ErrTraining    = errors.New("topic model training failed")
)
