package tree

// UpdatePaths recomputes every node's dotted path from the forest
// shape: roots get the normalized description, children extend the
// parent's path with a dot. Paths depend only on descriptions and
// structure, so rerunning after a reshuffle is safe.
func UpdatePaths(entities []*Entity) {
	for _, e := range entities {
		e.Path = Normalize(e.Description)
		updateChildPaths(e)
	}
}

func updateChildPaths(parent *Entity) {
	for _, c := range parent.Children {
		c.Path = parent.Path + "." + Normalize(c.Description)
		updateChildPaths(c)
	}
}
