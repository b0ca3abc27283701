// Package doctree holds the documentation tree rebuilt from Doxygen XML:
// compounds, their members, the reference table and the filter engine.
package doctree

// KindIndex is the kind of the synthetic root entity.
const KindIndex = "index"

// Entity is a compound (namespace, class, group, page, ...) or a member
// (function, variable, enum, ...) of the documentation tree.
type Entity struct {
	ID       string // Doxygen id, unique per run
	RefID    string // refid as declared by the index
	Kind     string // dir, file, namespace, class, function, ...
	Name     string // short name
	FullName string // qualified name (compoundname)
	Title    string // page title, pages only

	Summary             string // trimmed brief, or first line of the detailed description
	BriefDescription    string // rendered Markdown
	DetailedDescription string // rendered Markdown
	Proto               string // single-line rendered signature

	Section   string // member category, e.g. public-func
	GroupID   string // owning group id, if any
	GroupName string // owning group name, if any
	Namespace string // enclosing namespace for class-like kinds

	Attrs           map[string]string // remaining XML attributes (prot, static, virt, ...)
	BaseCompoundRef []BaseRef
	EnumValues      []EnumValue

	Parent    *Entity   // non-owning back reference
	Compounds Children  // owned child compounds in insertion order
	Members   []*Entity // owned members in document order
	Filtered  Filtered  // recomputed by FilterChildren
}

// BaseRef is one entry of a class's base-class list.
type BaseRef struct {
	Prot string // public, protected, private
	Name string
}

// EnumValue is a rendered enumerator of an enum member.
type EnumValue struct {
	Name     string
	Brief    string
	Detailed string
	Summary  string
}

// Filtered holds the output of the last filtering pass.
type Filtered struct {
	Members   []*Entity
	Compounds []*Entity
}

// NewRoot returns the root of an empty tree.
func NewRoot() *Entity {
	return &Entity{Kind: KindIndex}
}

// Attr returns an extra attribute or "".
func (e *Entity) Attr(name string) string {
	return e.Attrs[name]
}

// SetAttr records an extra attribute.
func (e *Entity) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
}

// Find returns the direct child compound with the given id. When create is
// set and no such child exists, a new entity is inserted and returned.
func (e *Entity) Find(id, name string, create bool) *Entity {
	if c := e.Compounds.Get(id); c != nil {
		return c
	}
	if !create {
		return nil
	}
	c := &Entity{ID: id, Name: name, Kind: "dir", Parent: e}
	e.Compounds.Set(c)
	return c
}

// Adopt moves child under e: it is removed from its current parent's
// compounds, inserted into e's compounds, and its parent pointer updated.
func (e *Entity) Adopt(child *Entity) {
	if child.Parent != nil && child.Parent != e {
		child.Parent.Compounds.Remove(child.ID)
	}
	e.Compounds.Set(child)
	child.Parent = e
}

// Link inserts child into e's compounds without changing ownership.
// Groups use this: a class stays owned by its namespace but is listed
// under every group that declares it.
func (e *Entity) Link(child *Entity) {
	e.Compounds.Set(child)
}

// Nearest walks e and its ancestors and returns the first entity whose kind
// is one of kinds.
func (e *Entity) Nearest(kinds ...string) *Entity {
	for cur := e; cur != nil; cur = cur.Parent {
		for _, k := range kinds {
			if cur.Kind == k {
				return cur
			}
		}
	}
	return nil
}

// Children is an id-keyed collection that remembers insertion order.
type Children struct {
	keys []string
	byID map[string]*Entity
}

// Get returns the child with the given id, or nil.
func (c *Children) Get(id string) *Entity {
	return c.byID[id]
}

// Has reports whether id is present.
func (c *Children) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Set inserts e, or replaces the entry with the same id in place.
func (c *Children) Set(e *Entity) {
	if c.byID == nil {
		c.byID = make(map[string]*Entity)
	}
	if _, ok := c.byID[e.ID]; !ok {
		c.keys = append(c.keys, e.ID)
	}
	c.byID[e.ID] = e
}

// Remove deletes the entry with the given id, if any.
func (c *Children) Remove(id string) {
	if _, ok := c.byID[id]; !ok {
		return
	}
	delete(c.byID, id)
	keys := make([]string, 0, len(c.keys)-1)
	for _, k := range c.keys {
		if k != id {
			keys = append(keys, k)
		}
	}
	c.keys = keys
}

// Len returns the number of children.
func (c *Children) Len() int {
	return len(c.keys)
}

// All returns the children in insertion order.
func (c *Children) All() []*Entity {
	out := make([]*Entity, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.byID[k])
	}
	return out
}

// IDs returns the child ids in insertion order.
func (c *Children) IDs() []string {
	return append([]string(nil), c.keys...)
}
