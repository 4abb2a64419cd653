package models

import "errors"

// Domain errors returned by the lists service and the stores.
var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyItem     = errors.New("empty list item")
	ErrDuplicateItem = errors.New("duplicate list item")
	ErrUnknownUser   = errors.New("no user with that email")
	ErrEmptyList     = errors.New("list has no items")
	ErrUnknownOwner  = errors.New("owner does not exist")
)

// ValidationError reports an item that failed validation.
// Err is ErrEmptyItem or ErrDuplicateItem.
type ValidationError struct {
	ListID string
	Text   string
	Err    error
}

func (e *ValidationError) Error() string {
	return "invalid item: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
