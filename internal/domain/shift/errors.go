package shift

import "errors"

// Shift domain errors
var (
	// Normalization errors: the punch is skipped and counted
	ErrIncompletePunch      = errors.New("punch is missing an in or out time")
	ErrUnsupportedShiftSpan = errors.New("punch crosses midnight or a DST transition")

	// Promotion errors
	ErrEmptyBatch = errors.New("no shifts to promote")
)
