package doctree

// RefTable maps Doxygen ids to entities for the duration of one run.
type RefTable struct {
	byID map[string]*Entity
}

func NewRefTable() *RefTable {
	return &RefTable{byID: make(map[string]*Entity)}
}

// Add registers e under its id, replacing any previous registration.
func (t *RefTable) Add(e *Entity) {
	t.byID[e.ID] = e
}

// Get looks up an entity by id.
func (t *RefTable) Get(id string) (*Entity, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Len returns the number of registered entities.
func (t *RefTable) Len() int {
	return len(t.byID)
}
