package recipe

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("recipe not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidComposition = errors.New("invalid recipe composition")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrInvalidImage       = errors.New("invalid image payload")
)

// CompositionError names the violated composition rule for the caller.
type CompositionError struct {
	Reason string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("invalid recipe composition: %s", e.Reason)
}

func (e *CompositionError) Unwrap() error { return ErrInvalidComposition }
