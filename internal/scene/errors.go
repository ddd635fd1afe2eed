package scene

import "errors"

var (
	// ErrInvalidScene indicates a scene name that is not a registered variant.
	ErrInvalidScene = errors.New("scene: invalid scene")

	// ErrArrayLength indicates circle arrays of different lengths.
	ErrArrayLength = errors.New("scene: circle arrays differ in length")

	// ErrInvalidRadius indicates a negative or non-finite radius.
	ErrInvalidRadius = errors.New("scene: invalid radius")
)
