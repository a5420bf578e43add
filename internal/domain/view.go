package domain

// CatalogView is the serializable form of a catalog, used by the API and
// the CLI. Functional units expose the name of their transform instead of
// the functions themselves.
type CatalogView struct {
	Categories []CategoryView `json:"categories" yaml:"categories"`
}

// CategoryView is the serializable form of a category.
type CategoryView struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	BaseUnit string     `json:"base_unit,omitempty" yaml:"base_unit,omitempty"`
	Kind     string     `json:"kind" yaml:"kind"`
	Units    []UnitView `json:"units" yaml:"units"`
}

// UnitView is the serializable form of a unit.
type UnitView struct {
	ID        string  `json:"id" yaml:"id"`
	Label     string  `json:"label" yaml:"label"`
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Factor    float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
	Transform string  `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// Describe returns the serializable view of every category.
func (c *Catalog) Describe() CatalogView {
	view := CatalogView{Categories: make([]CategoryView, 0, len(c.categories))}
	for _, cat := range c.categories {
		view.Categories = append(view.Categories, cat.View())
	}
	return view
}

// View returns the serializable form of the category.
func (c *Category) View() CategoryView {
	v := CategoryView{
		ID:       c.id,
		Label:    c.label,
		BaseUnit: c.baseUnit,
		Kind:     c.kind.String(),
		Units:    make([]UnitView, 0, len(c.units)),
	}
	for _, u := range c.units {
		uv := UnitView{ID: u.ID, Label: HumanLabel(u.ID), Symbol: u.DisplaySymbol()}
		switch r := u.Rule.(type) {
		case LinearUnit:
			uv.Factor = r.Factor
		case FunctionalUnit:
			uv.Transform = r.Transform
		}
		v.Units = append(v.Units, uv)
	}
	return v
}
