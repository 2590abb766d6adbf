package marionette

import "errors"

// Precondition and engine failures. Callers match them with errors.Is; the
// returned errors carry context via fmt.Errorf wrapping.
var (
	ErrRequired             = errors.New("marionette: required argument missing")
	ErrInvalidValue         = errors.New("marionette: argument is not of a valid value")
	ErrNonPositive          = errors.New("marionette: dimension must be greater than 0")
	ErrTooFewVertices       = errors.New("marionette: at least three vertices must be provided")
	ErrCreateFailed         = errors.New("marionette: failed to create actor")
	ErrUnrecognizedProperty = errors.New("marionette: unrecognized property")
	ErrDestroyed            = errors.New("marionette: actor has been destroyed")
)
