package tree

// MappingRule pins a child doctype under one declared parent,
// overriding whatever the field options would suggest.
type MappingRule struct {
	Child  string
	Parent string
}

// MandatoryMapping is the validated set of child-to-parent overrides.
// Rules keep their declaration order so errors and lint output stay
// deterministic.
type MandatoryMapping struct {
	rules   []MappingRule
	parents map[string]string
}

// NewMandatoryMapping validates the rules and builds the lookup.
// Rejected configurations: the same child mapped twice, a child mapped
// to itself, and chains of rules that loop back on themselves.
func NewMandatoryMapping(rules []MappingRule) (*MandatoryMapping, error) {
	m := &MandatoryMapping{
		rules:   append([]MappingRule(nil), rules...),
		parents: make(map[string]string, len(rules)),
	}
	for _, r := range m.rules {
		if r.Child == r.Parent {
			return nil, confErr(CodeBadMapping, r.Child,
				"doctype %q is mapped to itself", r.Child)
		}
		if prev, ok := m.parents[r.Child]; ok {
			return nil, confErr(CodeDuplicateChild, r.Child,
				"doctype %q is mapped to both %q and %q", r.Child, prev, r.Parent)
		}
		m.parents[r.Child] = r.Parent
	}
	for _, r := range m.rules {
		if err := m.checkCycle(r.Child); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// checkCycle follows the parent chain from start and errors if the
// chain revisits start.
func (m *MandatoryMapping) checkCycle(start string) error {
	cur := start
	for i := 0; i <= len(m.rules); i++ {
		next, ok := m.parents[cur]
		if !ok {
			return nil
		}
		if next == start {
			return confErr(CodeMappingCycle, start,
				"mapping rules form a cycle through %q", start)
		}
		cur = next
	}
	return nil
}

// ParentOf returns the declared parent for child, if any rule names it.
func (m *MandatoryMapping) ParentOf(child string) (string, bool) {
	if m == nil {
		return "", false
	}
	p, ok := m.parents[child]
	return p, ok
}

// IsMandatoryChild reports whether some rule claims child.
func (m *MandatoryMapping) IsMandatoryChild(child string) bool {
	_, ok := m.ParentOf(child)
	return ok
}

// Rules returns the rules in declaration order.
func (m *MandatoryMapping) Rules() []MappingRule {
	if m == nil {
		return nil
	}
	return append([]MappingRule(nil), m.rules...)
}

// Len returns the number of rules.
func (m *MandatoryMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Translations maps source doctype names to the display names used for
// their container nodes. Lookups fall back to the source name.
type Translations map[string]string

// Lookup returns the display name for a doctype.
func (t Translations) Lookup(name string) string {
	if t != nil {
		if d, ok := t[name]; ok && d != "" {
			return d
		}
	}
	return name
}
