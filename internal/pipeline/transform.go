package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/unit-converter/internal/domain"
)

// ConversionTransformer implements Transformer by parsing the request payload
// and running it through the conversion engine.
type ConversionTransformer struct {
	converter *domain.Converter
	logger    *slog.Logger
}

// NewTransformer creates a ConversionTransformer bound to converter.
func NewTransformer(converter *domain.Converter, logger *slog.Logger) *ConversionTransformer {
	return &ConversionTransformer{
		converter: converter,
		logger:    logger,
	}
}

func (t *ConversionTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.ConversionResult, error) {
	req, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	res, err := t.converter.Do(req)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	t.logger.Debug("converted",
		"id", res.ID,
		"category", res.Category,
		"from", res.From,
		"to", res.To,
		"formatted", res.Formatted,
	)
	return res, nil
}
