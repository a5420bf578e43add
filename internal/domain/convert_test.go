package domain

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter() *Converter {
	return NewConverter(DefaultCatalog())
}

func TestConvert_Scenarios(t *testing.T) {
	conv := newTestConverter()

	tests := []struct {
		name     string
		category string
		from     string
		to       string
		value    float64
		expected float64
	}{
		{"kilometer to mile", "length", "kilometer", "mile", 1, 1000 / 1609.344},
		{"inch to centimeter", "length", "inch", "centimeter", 1, 2.54},
		{"kilogram to pound", "weight", "kilogram", "pound", 1, 1 / 0.45359237},
		{"celsius to fahrenheit", "temperature", "celsius", "fahrenheit", 100, 212},
		{"fahrenheit to kelvin", "temperature", "fahrenheit", "kelvin", 32, 273.15},
		{"gallon to liter", "volume", "gallon_us", "liter", 1, 3.78541},
		{"kelvin to celsius", "temperature", "kelvin", "celsius", 0, -273.15},
		{"minus forty crosses over", "temperature", "celsius", "fahrenheit", -40, -40},
		{"ounce to gram", "weight", "ounce", "gram", 16, 453.59237},
		{"cubic meter to cup", "volume", "cubic_meter", "cup_us", 1, 1000 / 0.236588},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := conv.Convert(tt.category, tt.from, tt.to, tt.value)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, out, 1e-9*math.Max(1, math.Abs(tt.expected)))
		})
	}
}

func TestConvert_ScenarioDigits(t *testing.T) {
	conv := newTestConverter()

	out, err := conv.Convert("length", "kilometer", "mile", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(FormatNumber(out), "0.621371"))

	out, err = conv.Convert("weight", "kilogram", "pound", 1)
	require.NoError(t, err)
	assert.Equal(t, "2.204623", FormatNumber(out))

	out, err = conv.Convert("temperature", "fahrenheit", "kelvin", 32)
	require.NoError(t, err)
	assert.Equal(t, 273.15, out)

	out, err = conv.Convert("volume", "gallon_us", "liter", 1)
	require.NoError(t, err)
	assert.Equal(t, 3.78541, out)
}

func TestConvert_GallonIsNotATemperature(t *testing.T) {
	_, err := newTestConverter().Convert("temperature", "gallon_us", "liter", 1)
	require.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestConvert_Errors(t *testing.T) {
	conv := newTestConverter()

	tests := []struct {
		name     string
		category string
		from     string
		to       string
		value    float64
		wantErr  error
	}{
		{"unknown destination unit", "length", "meter", "parsec", 1, ErrUnsupportedUnit},
		{"unknown source unit", "length", "parsec", "meter", 1, ErrUnsupportedUnit},
		{"unit from another category", "weight", "meter", "gram", 1, ErrUnsupportedUnit},
		{"unknown category", "currency", "usd", "eur", 1, ErrNotFound},
		{"NaN", "length", "meter", "meter", math.NaN(), ErrInvalidInput},
		{"positive infinity", "length", "meter", "foot", math.Inf(1), ErrInvalidInput},
		{"negative infinity", "temperature", "celsius", "kelvin", math.Inf(-1), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conv.Convert(tt.category, tt.from, tt.to, tt.value)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConvert_MismatchedRulesReturnError(t *testing.T) {
	// Built by hand: NewCatalog refuses mixed rules, so this is the only way
	// to reach the mismatch branch.
	cat := &Category{
		id:   "mixed",
		kind: KindLinear,
		units: []Unit{
			{ID: "meter", Rule: LinearUnit{Factor: 1}},
			{ID: "celsius", Rule: FunctionalUnit{ToBase: func(v float64) float64 { return v }, FromBase: func(v float64) float64 { return v }}},
		},
		index: map[string]int{"meter": 0, "celsius": 1},
	}
	conv := NewConverter(&Catalog{categories: []*Category{cat}, index: map[string]*Category{"mixed": cat}})

	for _, pair := range [][2]string{{"meter", "celsius"}, {"celsius", "meter"}} {
		var err error
		require.NotPanics(t, func() {
			_, err = conv.Convert("mixed", pair[0], pair[1], 1)
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `category "mixed"`)
	}
}

func TestConvert_IdentityIsExact(t *testing.T) {
	conv := newTestConverter()
	values := []float64{0, 1, -1, 0.1, 1.0 / 3, -273.15, 1e-300, 123456789.123456789, -98.6}

	for _, cat := range conv.Catalog().Categories() {
		for _, u := range cat.UnitIDs() {
			for _, v := range values {
				out, err := conv.Convert(cat.ID(), u, u, v)
				require.NoError(t, err)
				assert.Equal(t, v, out, "%s/%s(%v)", cat.ID(), u, v)
			}
		}
	}
}

func TestConvert_RoundTripProperty(t *testing.T) {
	conv := newTestConverter()
	r := rand.New(rand.NewPCG(42, 7))

	for _, cat := range conv.Catalog().Categories() {
		units := cat.UnitIDs()
		for i := 0; i < 500; i++ {
			a := units[r.IntN(len(units))]
			b := units[r.IntN(len(units))]
			x := r.Float64()*2e6 - 1e6

			there, err := conv.Convert(cat.ID(), b, a, x)
			require.NoError(t, err)
			back, err := conv.Convert(cat.ID(), a, b, there)
			require.NoError(t, err)

			assert.InDelta(t, x, back, 1e-9*math.Max(1, math.Abs(x)),
				"%s: %s -> %s -> %s for %v", cat.ID(), b, a, b, x)
		}
	}
}

func TestConvert_LinearPreservesSign(t *testing.T) {
	conv := newTestConverter()
	r := rand.New(rand.NewPCG(3, 11))

	for _, cat := range conv.Catalog().Categories() {
		if cat.Kind() != KindLinear {
			continue
		}
		units := cat.UnitIDs()
		for i := 0; i < 500; i++ {
			from := units[r.IntN(len(units))]
			to := units[r.IntN(len(units))]
			x := r.Float64()*2e6 - 1e6

			out, err := conv.Convert(cat.ID(), from, to, x)
			require.NoError(t, err)
			assert.Equal(t, math.Signbit(x), math.Signbit(out), "%s: %s -> %s for %v", cat.ID(), from, to, x)
		}
	}
}

func TestConvert_TemperatureIsStrictlyIncreasing(t *testing.T) {
	conv := newTestConverter()
	r := rand.New(rand.NewPCG(5, 13))
	cat, err := conv.Catalog().Category(CategoryTemperature)
	require.NoError(t, err)
	units := cat.UnitIDs()

	for i := 0; i < 1000; i++ {
		from := units[r.IntN(len(units))]
		to := units[r.IntN(len(units))]
		x := r.Float64()*2e6 - 1e6
		y := x + 0.001 + r.Float64()*1000

		cx, err := conv.Convert(cat.ID(), from, to, x)
		require.NoError(t, err)
		cy, err := conv.Convert(cat.ID(), from, to, y)
		require.NoError(t, err)
		assert.Less(t, cx, cy, "%s -> %s: f(%v) >= f(%v)", from, to, x, y)
	}
}

func TestConverter_Do(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	conv := newTestConverter()
	req := ConversionRequest{Category: "length", From: "inch", To: "centimeter", Value: 1}

	res, err := conv.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "length", res.Category)
	assert.Equal(t, "inch", res.From)
	assert.Equal(t, "centimeter", res.To)
	assert.Equal(t, 1.0, res.Input)
	assert.InDelta(t, 2.54, res.Output, 1e-12)
	assert.Equal(t, "2.54", res.Formatted)
	assert.Equal(t, fixed, res.ProcessedAt)
	assert.True(t, strings.HasPrefix(res.ID, "length-"))

	again, err := conv.Do(req)
	require.NoError(t, err)
	assert.Equal(t, res.ID, again.ID)

	other, err := conv.Do(ConversionRequest{Category: "length", From: "inch", To: "centimeter", Value: 2})
	require.NoError(t, err)
	assert.NotEqual(t, res.ID, other.ID)
}

func TestConverter_DoError(t *testing.T) {
	_, err := newTestConverter().Do(ConversionRequest{Category: "length", From: "meter", To: "parsec", Value: 1})
	require.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestConverter_Describe(t *testing.T) {
	conv := newTestConverter()

	res, err := conv.Do(ConversionRequest{Category: "temperature", From: "celsius", To: "fahrenheit", Value: 100})
	require.NoError(t, err)
	assert.Equal(t, "100 °C = 212 °F", conv.Describe(res))

	res, err = conv.Do(ConversionRequest{Category: "volume", From: "liter", To: "milliliter", Value: 1.5})
	require.NoError(t, err)
	assert.Equal(t, "1.5 L = 1500 mL", conv.Describe(res))
}

func TestResultID(t *testing.T) {
	t.Run("includes category prefix", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(resultID("weight", "gram", "pound", 5), "weight-"))
	})

	t.Run("empty category", func(t *testing.T) {
		id := resultID("", "gram", "pound", 5)
		assert.Len(t, id, 16)
	})
}
