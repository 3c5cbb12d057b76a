package forecast

import "errors"

var (
	// ErrInvalidConfiguration reports an unusable anchor table or safety cap.
	// It is raised once, when the model is built.
	ErrInvalidConfiguration = errors.New("forecast: invalid configuration")

	// ErrInvalidInput reports a bad per-call argument such as a non-positive
	// current price or a month outside 1..12.
	ErrInvalidInput = errors.New("forecast: invalid input")
)
