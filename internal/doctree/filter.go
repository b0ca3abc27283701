package doctree

// Filters are the ordered category allow-lists. Output order follows the
// order of the lists, not document order.
type Filters struct {
	Members   []string `yaml:"members" toml:"members" json:"members"`
	Compounds []string `yaml:"compounds" toml:"compounds" json:"compounds"`
}

// DefaultFilters returns the stock allow-lists.
func DefaultFilters() Filters {
	return Filters{
		Members: []string{
			"define",
			"enum",
			"func",
			"property",
			"public-attrib",
			"public-func",
			"protected-attrib",
			"protected-func",
			"signal",
			"public-slot",
			"protected-slot",
			"public-type",
			"private-attrib",
			"private-func",
			"private-slot",
			"public-static-func",
			"private-static-func",
		},
		Compounds: []string{
			"namespace",
			"class",
			"struct",
			"union",
			"typedef",
			"interface",
		},
	}
}

// ToArray returns the compounds below e in pre-order, excluding e. When kind
// is non-empty only compounds of that kind are returned and only those are
// descended into.
func (e *Entity) ToArray(kind string) []*Entity {
	var out []*Entity
	for _, c := range e.Compounds.All() {
		if kind != "" && c.Kind != kind {
			continue
		}
		out = append(out, c)
		out = append(out, c.ToArray(kind)...)
	}
	return out
}

// ToFilteredArray flattens the filtered compound tree below e in pre-order,
// excluding e.
func (e *Entity) ToFilteredArray() []*Entity {
	var out []*Entity
	for _, c := range e.Filtered.Compounds {
		out = append(out, c)
		out = append(out, c.ToFilteredArray()...)
	}
	return out
}

// FilterChildren recomputes Filtered for e and every compound below it.
// Descendants are filtered before their ancestors so that the empty
// namespace check sees up-to-date results. A non-empty groupID restricts
// the result to entities stamped with that group.
func (e *Entity) FilterChildren(filters Filters, groupID string) {
	all := e.ToArray("")
	for i := len(all) - 1; i >= 0; i-- {
		all[i].filterSelf(filters, groupID)
	}
	e.filterSelf(filters, groupID)
}

func (e *Entity) filterSelf(filters Filters, groupID string) {
	e.Filtered = Filtered{
		Members:   filter(e.Members, func(m *Entity) string { return m.Section }, filters.Members, groupID),
		Compounds: filter(e.Compounds.All(), func(c *Entity) string { return c.Kind }, filters.Compounds, groupID),
	}
}

func filter(items []*Entity, category func(*Entity) string, allow []string, groupID string) []*Entity {
	buckets := make(map[string][]*Entity)
	for _, item := range items {
		if item.Kind == "namespace" && len(item.Filtered.Compounds) == 0 && len(item.Filtered.Members) == 0 {
			continue
		}
		if groupID != "" && item.GroupID != groupID {
			continue
		}
		key := category(item)
		buckets[key] = append(buckets[key], item)
	}

	var out []*Entity
	for _, cat := range allow {
		out = append(out, buckets[cat]...)
	}
	return out
}
