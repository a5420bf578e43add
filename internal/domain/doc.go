// Package domain models the unit catalog and the conversion engine.
//
// # Categories
//
// A category is a family of mutually convertible units (length, weight,
// temperature, volume). Each category has one of two kinds:
//
//	Linear:     every unit carries a multiplicative factor relative to the
//	            category base unit (factor 1). A value converts as
//	            value * factor(from) / factor(to).
//	Functional: every unit carries a forward/inverse function pair relative
//	            to a pivot scale. A value converts as
//	            fromBase(to)(toBase(from)(value)).
//
// The kind is fixed when the catalog is built, so the engine dispatches on a
// typed value instead of inspecting unit definitions at call time.
//
// # Catalog Data
//
//	Length (base meter):
//	  millimeter 0.001, centimeter 0.01, meter 1, kilometer 1000,
//	  inch 0.0254, foot 0.3048, yard 0.9144, mile 1609.344
//	Weight (base kilogram):
//	  gram 0.001, kilogram 1, pound 0.45359237, ounce 0.028349523125
//	Temperature (pivot celsius):
//	  celsius    identity
//	  fahrenheit toBase (v - 32) * 5/9, fromBase v * 9/5 + 32
//	  kelvin     toBase v - 273.15,    fromBase v + 273.15
//	Volume (base liter):
//	  milliliter 0.001, liter 1, cubic_meter 1000,
//	  gallon_us 3.78541, cup_us 0.236588
//
// Adding a category or unit means appending an entry to [DefaultDefinitions];
// the engine never changes.
//
// # Numeric Semantics
//
// All arithmetic is float64 and the engine never rounds. Rounding belongs to
// [FormatNumber]:
//
//	non-finite       "—"
//	|n| < 1e-5       exponential, 4 fractional digits ("1.0000e-6")
//	otherwise        rounded to 6 decimals, trailing zeros dropped
//
// # Input Text
//
// Callers that accept free text (HTTP query strings, CLI arguments, stream
// payloads) parse it with [ParseValue], which trims whitespace and accepts a
// comma as the decimal separator ("1,5" is 1.5).
//
// # Result IDs
//
// Conversion result IDs are deterministic SHA-256 hashes of
// category|from|to|value. Replaying the same request yields the same ID, so
// downstream consumers can deduplicate without coordination. See [resultID].
package domain
