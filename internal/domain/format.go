package domain

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UndefinedValue is rendered in place of NaN and infinities.
const UndefinedValue = "—"

const (
	// exponentThreshold is the magnitude below which values switch to
	// exponential notation so tiny results do not render as 0.
	exponentThreshold = 1e-5
	displayScale      = 1e6
	// maxRoundable guards the scaled rounding against leaving the range
	// where float64 still has fractional precision.
	maxRoundable = 1e15
	// largeThreshold is the magnitude from which values are written in
	// shortest exponential form, e.g. 1e+21.
	largeThreshold = 1e21
)

// FormatNumber renders n for display. It never fails.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return UndefinedValue
	}
	if n == 0 {
		return "0"
	}
	if math.Abs(n) < exponentThreshold {
		return formatExponent(n)
	}
	if math.Abs(n) >= largeThreshold {
		return strconv.FormatFloat(n, 'e', -1, 64)
	}
	if math.Abs(n) < maxRoundable {
		n = math.Round(n*displayScale) / displayScale
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// formatExponent writes n with four fractional mantissa digits and an
// unpadded exponent, e.g. 1.0000e-6.
func formatExponent(n float64) string {
	s := strconv.FormatFloat(n, 'e', 4, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	sign := "+"
	if e < 0 {
		sign = "-"
		e = -e
	}
	return mantissa + "e" + sign + strconv.Itoa(e)
}

// HumanLabel turns a unit id into a display label: "cubic_meter" becomes
// "Cubic Meter".
func HumanLabel(id string) string {
	// Casers keep internal state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
