package tree

import (
	"fmt"
	"log"

	"doctree/internal/doctype"
)

// Builder assembles one forest from a set of doctype definitions. It
// is single-use: warnings accumulate across the build and are read
// back afterwards.
type Builder struct {
	mapping      *MandatoryMapping
	translations Translations
	warnings     []string
}

// NewBuilder returns a builder using the given placement overrides and
// display-name translations. Both may be nil.
func NewBuilder(mapping *MandatoryMapping, translations Translations) *Builder {
	if mapping == nil {
		mapping, _ = NewMandatoryMapping(nil)
	}
	return &Builder{mapping: mapping, translations: translations}
}

// Build turns the definitions into a forest: one container node per
// doctype, placed exactly once, with dotted paths recomputed over the
// final shape. A configuration inconsistency fails the whole build,
// no partial forest is returned.
func (b *Builder) Build(defs []doctype.Definition) ([]*Entity, error) {
	roots, err := b.assemble(defs)
	if err != nil {
		return nil, err
	}
	UpdatePaths(roots)
	return roots, nil
}

// Warnings returns the non-fatal issues hit during the build.
func (b *Builder) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

func (b *Builder) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.warnings = append(b.warnings, msg)
	log.Printf("tree: %s", msg)
}

// buildEntity builds the container node for one doctype with its field
// leaves attached. Link fields that carry a target doctype are not
// leaves, they become subtrees during assembly.
func (b *Builder) buildEntity(def doctype.Definition) *Entity {
	node := &Entity{
		Key:         strptr(def.Name),
		Description: b.translations.Lookup(def.Name),
		Type:        TypeDoctype,
		Children:    []*Entity{},
	}
	// Provisional; UpdatePaths rewrites it once placement is final.
	node.Path = Normalize(node.Description)
	for _, f := range def.Fields {
		if doctype.IsLinkField(f.Fieldtype) && f.Options != "" {
			continue
		}
		kind, known := doctype.MapFieldType(f.Fieldtype)
		if !known {
			b.warnf("doctype %q field %q: unknown fieldtype %q, using %q",
				def.Name, f.Fieldname, f.Fieldtype, kind)
		}
		node.Children = append(node.Children, &Entity{
			Description: f.Description(),
			Fieldname:   strptr(f.Fieldname),
			Type:        kind,
			DragAndDrop: true,
			Children:    []*Entity{},
		})
	}
	return node
}

// assemble places every doctype exactly once. Option-derived placement
// runs first across all doctypes in declaration order, then the
// mandatory mapping attaches its children, overriding anything the
// options would have suggested. Whatever nobody claimed stays a root.
func (b *Builder) assemble(defs []doctype.Definition) ([]*Entity, error) {
	nodes := make(map[string]*Entity, len(defs))
	for _, def := range defs {
		if _, dup := nodes[def.Name]; dup {
			return nil, confErr(CodeDuplicateDoctype, def.Name,
				"doctype %q declared more than once", def.Name)
		}
		nodes[def.Name] = b.buildEntity(def)
	}

	// attached records child -> parent edges as placement decides
	// them. Mandatory edges are seeded up front so option placement
	// cannot close a loop through a mapped child it has not seen yet.
	attached := make(map[string]string, len(defs))
	for _, r := range b.mapping.Rules() {
		if _, ok := nodes[r.Child]; ok {
			attached[r.Child] = r.Parent
		}
	}

	consumed := make(map[string]bool, len(defs))

	for _, def := range defs {
		parent := nodes[def.Name]
		for _, f := range def.Fields {
			if !doctype.IsLinkField(f.Fieldtype) || f.Options == "" {
				continue
			}
			target := f.Options
			if target == def.Name {
				continue
			}
			child, ok := nodes[target]
			if !ok {
				b.warnf("doctype %q field %q points at unknown doctype %q",
					def.Name, f.Fieldname, target)
				continue
			}
			if b.mapping.IsMandatoryChild(target) {
				continue
			}
			if consumed[target] {
				continue
			}
			if isAncestor(attached, target, def.Name) {
				b.warnf("not placing %q under %q: placement would close a cycle",
					target, def.Name)
				continue
			}
			parent.Children = append(parent.Children, child)
			attached[target] = def.Name
			consumed[target] = true
		}
	}

	for _, r := range b.mapping.Rules() {
		child, ok := nodes[r.Child]
		if !ok {
			continue
		}
		parent, ok := nodes[r.Parent]
		if !ok {
			return nil, confErr(CodeParentUnknown, r.Child,
				"doctype %q is mapped under %q, which is not among the loaded doctypes",
				r.Child, r.Parent)
		}
		parent.Children = append(parent.Children, child)
		consumed[r.Child] = true
	}

	roots := []*Entity{}
	for _, def := range defs {
		if !consumed[def.Name] {
			roots = append(roots, nodes[def.Name])
		}
	}
	return roots, nil
}

// isAncestor reports whether anc sits on node's parent chain in
// attached. The map never holds a cycle, every insertion is checked
// here first and mandatory edges are validated at construction.
func isAncestor(attached map[string]string, anc, node string) bool {
	for cur := node; ; {
		parent, ok := attached[cur]
		if !ok {
			return false
		}
		if parent == anc {
			return true
		}
		cur = parent
	}
}
