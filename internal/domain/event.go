package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ConversionRequest asks for a single value to be converted.
type ConversionRequest struct {
	Category string
	From     string
	To       string
	Value    float64
}

// ConversionResult is the outcome of a conversion. It is returned by value
// and carries everything a caller needs to display or publish it.
type ConversionResult struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Input       float64   `json:"input"`
	Output      float64   `json:"output"`
	Formatted   string    `json:"formatted"`
	ProcessedAt time.Time `json:"processed_at"`
}

// RawRequest is the JSON payload of a conversion request on the source
// topic. Value may be a JSON number or a string such as "1,5".
type RawRequest struct {
	Category string          `json:"category"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Value    json.RawMessage `json:"value"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
