package renderer

import (
	"errors"

	"github.com/san-kum/circlerender/internal/frame"
	"github.com/san-kum/circlerender/internal/scene"
)

// Errors surfaced by the façade. All are contract violations; none are
// retried.
var (
	// ErrInvalidScene indicates an unknown scene name or malformed scene data.
	ErrInvalidScene = scene.ErrInvalidScene

	// ErrInvalidImageDimensions indicates a non-positive width or height.
	ErrInvalidImageDimensions = frame.ErrInvalidDimensions

	// ErrUninitialized indicates an operation called before its
	// prerequisites (Setup, LoadScene, AllocOutputImage).
	ErrUninitialized = errors.New("renderer: uninitialized state")
)

// OpError records the façade operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return "renderer: " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
