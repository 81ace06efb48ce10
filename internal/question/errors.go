package question

import "errors"

// Engine errors.
var (
	ErrMalformedSequence = errors.New("malformed question sequence")
	ErrInputClosed       = errors.New("input closed before the sequence finished")
	ErrUnknownSequence   = errors.New("unknown question sequence")
	ErrUnknownKind       = errors.New("unknown question kind")
)
