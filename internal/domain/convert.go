package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Converter performs conversions over a catalog. It holds no mutable state.
type Converter struct {
	catalog *Catalog
}

// NewConverter creates a Converter bound to the given catalog.
func NewConverter(catalog *Catalog) *Converter {
	return &Converter{catalog: catalog}
}

// Catalog returns the catalog the converter reads from.
func (c *Converter) Catalog() *Catalog {
	return c.catalog
}

// Convert transforms value from one unit to another within a category.
// Converting a unit to itself returns value unchanged.
func (c *Converter) Convert(categoryID, from, to string, value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, value)
	}

	cat, err := c.catalog.Category(categoryID)
	if err != nil {
		return 0, err
	}
	fromUnit, ok := cat.Unit(from)
	if !ok {
		return 0, fmt.Errorf("%w: %q in category %q", ErrUnsupportedUnit, from, categoryID)
	}
	toUnit, ok := cat.Unit(to)
	if !ok {
		return 0, fmt.Errorf("%w: %q in category %q", ErrUnsupportedUnit, to, categoryID)
	}

	if from == to {
		return value, nil
	}

	switch f := fromUnit.Rule.(type) {
	case LinearUnit:
		if t, ok := toUnit.Rule.(LinearUnit); ok {
			return value * f.Factor / t.Factor, nil
		}
	case FunctionalUnit:
		if t, ok := toUnit.Rule.(FunctionalUnit); ok {
			return t.FromBase(f.ToBase(value)), nil
		}
	}
	return 0, fmt.Errorf("category %q: cannot convert %q (%T) to %q (%T)",
		categoryID, from, fromUnit.Rule, to, toUnit.Rule)
}

// Do runs a ConversionRequest and packages the outcome for display or
// publishing.
func (c *Converter) Do(req ConversionRequest) (ConversionResult, error) {
	out, err := c.Convert(req.Category, req.From, req.To, req.Value)
	if err != nil {
		return ConversionResult{}, err
	}
	return ConversionResult{
		ID:          resultID(req.Category, req.From, req.To, req.Value),
		Category:    req.Category,
		From:        req.From,
		To:          req.To,
		Input:       req.Value,
		Output:      out,
		Formatted:   FormatNumber(out),
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// Describe renders a one-line summary such as "1 km = 0.621371 mi".
func (c *Converter) Describe(r ConversionResult) string {
	fromSym, toSym := r.From, r.To
	if cat, err := c.catalog.Category(r.Category); err == nil {
		if u, ok := cat.Unit(r.From); ok {
			fromSym = u.DisplaySymbol()
		}
		if u, ok := cat.Unit(r.To); ok {
			toSym = u.DisplaySymbol()
		}
	}
	return fmt.Sprintf("%s %s = %s %s", FormatNumber(r.Input), fromSym, FormatNumber(r.Output), toSym)
}

// resultID produces a deterministic ID from the request fields so replayed
// requests map to the same result.
func resultID(category, from, to string, value float64) string {
	input := fmt.Sprintf("%s|%s|%s|%g", category, from, to, value)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if category == "" {
		return short
	}
	return category + "-" + short
}
