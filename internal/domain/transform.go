package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseRawEvent deserializes a RawEvent's value into a ConversionRequest.
// Identifiers are trimmed and lower-cased; the value is parsed with the same
// rules as free-text input.
func ParseRawEvent(raw RawEvent) (ConversionRequest, error) {
	var rec RawRequest
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return ConversionRequest{}, fmt.Errorf("parse raw event: %w", err)
	}

	value, err := parseValueField(rec.Value)
	if err != nil {
		return ConversionRequest{}, err
	}

	return ConversionRequest{
		Category: normalizeID(rec.Category),
		From:     normalizeID(rec.From),
		To:       normalizeID(rec.To),
		Value:    value,
	}, nil
}

// parseValueField accepts either a JSON number or a JSON string.
func parseValueField(field json.RawMessage) (float64, error) {
	field = bytes.TrimSpace(field)
	if len(field) == 0 || bytes.Equal(field, []byte("null")) {
		return 0, ErrEmptyValue
	}

	if field[0] == '"' {
		var s string
		if err := json.Unmarshal(field, &s); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidInput, field)
		}
		return ParseValue(s)
	}

	v, err := strconv.ParseFloat(string(field), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInput, field)
	}
	return v, nil
}

// normalizeID lower-cases an identifier and maps spaces to underscores, so
// "Cubic Meter" resolves to "cubic_meter".
func normalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
