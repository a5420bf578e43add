package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Kind selects how a category's units relate to its base unit.
type Kind int

const (
	KindLinear Kind = iota + 1
	KindFunctional
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindFunctional:
		return "functional"
	default:
		return "unknown"
	}
}

// UnitRule describes how a unit maps onto its category's base unit.
// The only implementations are LinearUnit and FunctionalUnit.
type UnitRule interface {
	ruleKind() Kind
}

// LinearUnit relates a unit to the base unit by a single factor:
// value in base = value * Factor.
type LinearUnit struct {
	Factor float64
}

func (LinearUnit) ruleKind() Kind { return KindLinear }

// FunctionalUnit relates a unit to the pivot scale by an explicit function
// pair. Transform names the entry in the strategy table the pair came from.
type FunctionalUnit struct {
	Transform    string
	ToBase       func(float64) float64
	FromBase     func(float64) float64
	DisplayLabel string
}

func (FunctionalUnit) ruleKind() Kind { return KindFunctional }

// Unit is a named member of a category.
type Unit struct {
	ID     string
	Symbol string // short display symbol, e.g. "km"
	Rule   UnitRule
}

// DisplaySymbol returns the short symbol used next to formatted values,
// falling back to the functional display label and then the human label.
func (u Unit) DisplaySymbol() string {
	if u.Symbol != "" {
		return u.Symbol
	}
	if f, ok := u.Rule.(FunctionalUnit); ok && f.DisplayLabel != "" {
		return f.DisplayLabel
	}
	return HumanLabel(u.ID)
}

// Category is an immutable family of mutually convertible units. It is only
// built by NewCatalog; the accessors return copies.
type Category struct {
	id       string
	label    string
	baseUnit string
	kind     Kind

	units []Unit
	index map[string]int
}

// ID returns the category identifier, e.g. "length".
func (c *Category) ID() string { return c.id }

// Label returns the display name.
func (c *Category) Label() string { return c.label }

// BaseUnit returns the pivot unit id; empty for functional categories
// without one.
func (c *Category) BaseUnit() string { return c.baseUnit }

// Kind reports whether the category is linear or functional.
func (c *Category) Kind() Kind { return c.kind }

// Units returns the category's units in declaration order.
func (c *Category) Units() []Unit {
	return slices.Clone(c.units)
}

// UnitIDs returns the unit identifiers in declaration order.
func (c *Category) UnitIDs() []string {
	ids := make([]string, len(c.units))
	for i, u := range c.units {
		ids[i] = u.ID
	}
	return ids
}

// Unit looks up a unit by id.
func (c *Category) Unit(id string) (Unit, bool) {
	i, ok := c.index[id]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

// CategoryDef is the declarative input to NewCatalog.
type CategoryDef struct {
	ID       string
	Label    string
	BaseUnit string
	Kind     Kind
	Units    []Unit
}

// Catalog is the read-only registry of categories. Build it once with
// NewCatalog or DefaultCatalog and share it; it is safe for concurrent use.
type Catalog struct {
	categories []*Category
	index      map[string]*Category
}

// NewCatalog validates the definitions and freezes them into a Catalog.
func NewCatalog(defs ...CategoryDef) (*Catalog, error) {
	c := &Catalog{index: make(map[string]*Category, len(defs))}
	for _, def := range defs {
		cat, err := buildCategory(def)
		if err != nil {
			return nil, err
		}
		if _, dup := c.index[cat.id]; dup {
			return nil, fmt.Errorf("category %q: duplicate id", cat.id)
		}
		c.categories = append(c.categories, cat)
		c.index[cat.id] = cat
	}
	return c, nil
}

// Categories returns all categories in declaration order.
func (c *Catalog) Categories() []*Category {
	return slices.Clone(c.categories)
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (*Category, error) {
	cat, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, id)
	}
	return cat, nil
}

// UnitRule returns the rule of a unit within a category.
func (c *Catalog) UnitRule(categoryID, unitID string) (UnitRule, error) {
	cat, err := c.Category(categoryID)
	if err != nil {
		return nil, err
	}
	u, ok := cat.Unit(unitID)
	if !ok {
		return nil, fmt.Errorf("%w: unit %q in category %q", ErrNotFound, unitID, categoryID)
	}
	return u.Rule, nil
}

// roundTripSamples are checked at construction to reject functional rules
// whose inverse does not undo the forward transform.
var roundTripSamples = []float64{-1e6, -459.67, -273.15, -40, -1, 0, 0.5, 1, 37, 100, 1e6}

func buildCategory(def CategoryDef) (*Category, error) {
	if def.ID == "" {
		return nil, errors.New("category id is required")
	}
	if len(def.Units) < 2 {
		return nil, fmt.Errorf("category %q: at least two units required, got %d", def.ID, len(def.Units))
	}
	if def.Kind != KindLinear && def.Kind != KindFunctional {
		return nil, fmt.Errorf("category %q: unknown kind %d", def.ID, def.Kind)
	}

	cat := &Category{
		id:       def.ID,
		label:    def.Label,
		baseUnit: def.BaseUnit,
		kind:     def.Kind,
		units:    slices.Clone(def.Units),
		index:    make(map[string]int, len(def.Units)),
	}

	for i, u := range cat.units {
		if u.ID == "" {
			return nil, fmt.Errorf("category %q: unit %d has no id", def.ID, i)
		}
		if _, dup := cat.index[u.ID]; dup {
			return nil, fmt.Errorf("category %q: duplicate unit %q", def.ID, u.ID)
		}
		if err := checkRule(def.Kind, u); err != nil {
			return nil, fmt.Errorf("category %q: %w", def.ID, err)
		}
		cat.index[u.ID] = i
	}

	if def.Kind == KindLinear && def.BaseUnit == "" {
		return nil, fmt.Errorf("category %q: linear category needs a base unit", def.ID)
	}
	if def.BaseUnit != "" {
		if err := checkBaseUnit(cat); err != nil {
			return nil, fmt.Errorf("category %q: %w", def.ID, err)
		}
	}
	return cat, nil
}

func checkRule(kind Kind, u Unit) error {
	if u.Rule == nil {
		return fmt.Errorf("unit %q has no rule", u.ID)
	}
	if u.Rule.ruleKind() != kind {
		return fmt.Errorf("unit %q is %s in a %s category", u.ID, u.Rule.ruleKind(), kind)
	}

	switch r := u.Rule.(type) {
	case LinearUnit:
		if math.IsNaN(r.Factor) || math.IsInf(r.Factor, 0) || r.Factor <= 0 {
			return fmt.Errorf("unit %q: factor must be a positive finite number, got %v", u.ID, r.Factor)
		}
	case FunctionalUnit:
		if r.ToBase == nil || r.FromBase == nil {
			return fmt.Errorf("unit %q: both transform functions are required", u.ID)
		}
		for _, x := range roundTripSamples {
			back := r.FromBase(r.ToBase(x))
			if math.Abs(back-x) > 1e-9*math.Max(1, math.Abs(x)) {
				return fmt.Errorf("unit %q: round trip of %v returned %v", u.ID, x, back)
			}
		}
	}
	return nil
}

func checkBaseUnit(cat *Category) error {
	base, ok := cat.Unit(cat.baseUnit)
	if !ok {
		return fmt.Errorf("base unit %q is not a unit of the category", cat.baseUnit)
	}

	switch r := base.Rule.(type) {
	case LinearUnit:
		if r.Factor != 1 {
			return fmt.Errorf("base unit %q must have factor 1, got %v", base.ID, r.Factor)
		}
	case FunctionalUnit:
		for _, x := range roundTripSamples {
			if r.ToBase(x) != x || r.FromBase(x) != x {
				return fmt.Errorf("base unit %q must use identity transforms", base.ID)
			}
		}
	}
	return nil
}
