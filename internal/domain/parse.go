package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue turns user-entered text into a number. Surrounding whitespace
// is ignored and a comma is accepted as the decimal separator.
func ParseValue(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrEmptyValue
	}
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	return v, nil
}
