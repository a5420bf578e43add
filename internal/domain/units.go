package domain

// Category identifiers.
const (
	CategoryLength      = "length"
	CategoryWeight      = "weight"
	CategoryTemperature = "temperature"
	CategoryVolume      = "volume"
)

// temperatureScale is one entry of the functional strategy table.
type temperatureScale struct {
	toBase   func(float64) float64
	fromBase func(float64) float64
	label    string
}

// temperatureScales maps each scale to its transform pair relative to Celsius.
var temperatureScales = map[string]temperatureScale{
	"celsius":    {toBase: identity, fromBase: identity, label: "°C"},
	"fahrenheit": {toBase: fahrenheitToCelsius, fromBase: celsiusToFahrenheit, label: "°F"},
	"kelvin":     {toBase: kelvinToCelsius, fromBase: celsiusToKelvin, label: "K"},
}

func identity(v float64) float64 { return v }

func fahrenheitToCelsius(v float64) float64 { return (v - 32) * (5.0 / 9.0) }

func celsiusToFahrenheit(v float64) float64 { return v*(9.0/5.0) + 32 }

func kelvinToCelsius(v float64) float64 { return v - 273.15 }

func celsiusToKelvin(v float64) float64 { return v + 273.15 }

func linear(id, symbol string, factor float64) Unit {
	return Unit{ID: id, Symbol: symbol, Rule: LinearUnit{Factor: factor}}
}

func temperature(id string) Unit {
	s := temperatureScales[id]
	return Unit{
		ID:     id,
		Symbol: s.label,
		Rule: FunctionalUnit{
			Transform:    id,
			ToBase:       s.toBase,
			FromBase:     s.fromBase,
			DisplayLabel: s.label,
		},
	}
}

// DefaultDefinitions returns the built-in category definitions.
func DefaultDefinitions() []CategoryDef {
	return []CategoryDef{
		{
			ID:       CategoryLength,
			Label:    "Length",
			BaseUnit: "meter",
			Kind:     KindLinear,
			Units: []Unit{
				linear("millimeter", "mm", 0.001),
				linear("centimeter", "cm", 0.01),
				linear("meter", "m", 1),
				linear("kilometer", "km", 1000),
				linear("inch", "in", 0.0254),
				linear("foot", "ft", 0.3048),
				linear("yard", "yd", 0.9144),
				linear("mile", "mi", 1609.344),
			},
		},
		{
			ID:       CategoryWeight,
			Label:    "Weight",
			BaseUnit: "kilogram",
			Kind:     KindLinear,
			Units: []Unit{
				linear("gram", "g", 0.001),
				linear("kilogram", "kg", 1),
				linear("pound", "lb", 0.45359237),
				linear("ounce", "oz", 0.028349523125),
			},
		},
		{
			ID:       CategoryTemperature,
			Label:    "Temperature",
			BaseUnit: "celsius",
			Kind:     KindFunctional,
			Units: []Unit{
				temperature("celsius"),
				temperature("fahrenheit"),
				temperature("kelvin"),
			},
		},
		{
			ID:       CategoryVolume,
			Label:    "Volume",
			BaseUnit: "liter",
			Kind:     KindLinear,
			Units: []Unit{
				linear("milliliter", "mL", 0.001),
				linear("liter", "L", 1),
				linear("cubic_meter", "m³", 1000),
				linear("gallon_us", "gal", 3.78541),
				linear("cup_us", "cup", 0.236588),
			},
		},
	}
}

// DefaultCatalog builds the built-in catalog. It panics only if the static
// definitions above are inconsistent, which the package tests rule out.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDefinitions()...)
	if err != nil {
		panic("domain: invalid default catalog: " + err.Error())
	}
	return c
}
