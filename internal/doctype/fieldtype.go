package doctype

// Output kinds for field nodes in the hierarchical model.
const (
	KindString   = "string"
	KindNumeric  = "numeric"
	KindDate     = "date"
	KindDatetime = "datetime"
	KindBoolean  = "boolean"
	KindSelect   = "select"
	KindText     = "text"
)

// fieldKinds maps source type tags to output kinds. Table is absent on
// purpose: a table field with options becomes a child doctype, one
// without falls through the unknown path.
var fieldKinds = map[string]string{
	"Data":      KindString,
	"Link":      KindString,
	"Read Only": KindString,
	"Code":      KindString,

	"Int":      KindNumeric,
	"Float":    KindNumeric,
	"Currency": KindNumeric,
	"Percent":  KindNumeric,

	"Date":     KindDate,
	"Datetime": KindDatetime,
	"Time":     KindDatetime,

	"Check":  KindBoolean,
	"Select": KindSelect,

	"Long Text":   KindText,
	"Small Text":  KindText,
	"Text":        KindText,
	"Text Editor": KindText,
}

// MapFieldType returns the output kind for a source type tag. Unknown
// tags fall back to text; ok reports whether the tag was recognized, so
// callers can surface metadata-quality warnings without failing the
// build.
func MapFieldType(sourceType string) (kind string, ok bool) {
	if k, found := fieldKinds[sourceType]; found {
		return k, true
	}
	return KindText, false
}

// IsLinkField reports whether fields of this type reference a child
// doctype through their options. Only Table qualifies; Link fields
// stay plain string leaves and never drive placement.
func IsLinkField(sourceType string) bool {
	return sourceType == "Table"
}
