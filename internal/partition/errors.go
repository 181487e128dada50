package partition

import "errors"

var (
	// ErrInvalidImage is returned for a nil image or an image with zero width
	// or height.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidParameter is returned for a negative or NaN tolerance, negative
	// or non-finite channel weights, or a negative worker count.
	ErrInvalidParameter = errors.New("invalid parameter")
)
