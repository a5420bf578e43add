package domain

import "errors"

var (
	// ErrNotFound is returned for an unknown category, or an unknown unit on
	// a direct catalog lookup.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for non-numeric or non-finite values.
	ErrInvalidInput = errors.New("invalid value")

	// ErrUnsupportedUnit is returned by the engine when a unit is not part of
	// the requested category.
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrEmptyValue is returned by ParseValue for blank input.
	ErrEmptyValue = errors.New("enter a value")
)

// ErrorReason maps an error to a short label for metrics and API error codes.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyValue):
		return "empty_value"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnsupportedUnit):
		return "unsupported_unit"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "malformed"
	}
}
