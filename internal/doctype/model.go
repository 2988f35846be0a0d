package doctype

// Definition describes one doctype as loaded from the metadata source.
type Definition struct {
	Name   string
	Fields []Field
}

// Field is a single field row of a doctype.
type Field struct {
	Fieldname string
	Label     string
	Fieldtype string
	Options   string // for link fields: name of the referenced doctype
}

// Description returns the display label, falling back to the fieldname
// when the source carries no label.
func (f Field) Description() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Fieldname
}
