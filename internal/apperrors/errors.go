package apperrors

import "errors"

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrUnauthorized marks a permanent authentication failure from an
// external API. Once seen, the pricing session stops calling the live
// endpoint for the rest of the session.
var ErrUnauthorized = errors.New("unauthorized")

// IsUnauthorized reports whether err wraps ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
