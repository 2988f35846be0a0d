package tree

// TypeDoctype marks container nodes; field nodes carry one of the
// doctype package's output kinds.
const TypeDoctype = "doctype"

// Entity is one node of the exported forest: a doctype container or a
// draggable field leaf. Key is null for field nodes, Fieldname is null
// for doctype nodes, exactly as the editor expects them on the wire.
type Entity struct {
	Key         *string   `json:"key"`
	Description string    `json:"description"`
	Fieldname   *string   `json:"fieldname"`
	Type        string    `json:"type"`
	Path        string    `json:"path"`
	DragAndDrop bool      `json:"dragandrop"`
	Children    []*Entity `json:"children"`
}

// IsDoctype reports whether the node is a doctype container.
func (e *Entity) IsDoctype() bool {
	return e.Type == TypeDoctype
}

// Find walks the forest depth-first, children in insertion order, and
// returns the first entity matching pred, or nil.
func Find(entities []*Entity, pred func(*Entity) bool) *Entity {
	for _, e := range entities {
		if pred(e) {
			return e
		}
		if hit := Find(e.Children, pred); hit != nil {
			return hit
		}
	}
	return nil
}

// FindByKey returns the doctype node with the given key, or nil.
func FindByKey(entities []*Entity, key string) *Entity {
	return Find(entities, func(e *Entity) bool {
		return e.Key != nil && *e.Key == key
	})
}

// Count returns the number of nodes in the forest, containers included.
func Count(entities []*Entity) int {
	n := 0
	for _, e := range entities {
		n += 1 + Count(e.Children)
	}
	return n
}

func strptr(s string) *string { return &s }
