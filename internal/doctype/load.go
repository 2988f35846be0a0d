package doctype

import (
	"encoding/json"
	"fmt"
	"os"
)

// Wire row shared by the snapshot file and the remote metadata API.
type fieldRow struct {
	Fieldname string `json:"fieldname"`
	Label     string `json:"label"`
	Fieldtype string `json:"fieldtype"`
	Options   string `json:"options"`
	Hidden    int    `json:"hidden"`
}

func (r fieldRow) field() Field {
	return Field{
		Fieldname: r.Fieldname,
		Label:     r.Label,
		Fieldtype: r.Fieldtype,
		Options:   r.Options,
	}
}

// LoadDefinitions reads an exported doctypes snapshot of the form
// {"all_doctypes": {name: [field rows...]}} so builds can run offline.
// Doctype order follows the object's key order to keep builds
// deterministic. Hidden fields are dropped here, the core never sees
// them.
func LoadDefinitions(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var defs []Definition
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parse %s: unexpected token %v", path, tok)
		}
		if key != "all_doctypes" {
			// Unknown top-level sections are skipped, not errors.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("parse %s: section %q: %w", path, key, err)
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for dec.More() {
			ntok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			name, ok := ntok.(string)
			if !ok {
				return nil, fmt.Errorf("parse %s: unexpected token %v", path, ntok)
			}
			if seen[name] {
				return nil, fmt.Errorf("duplicate doctype %q in %s", name, path)
			}
			seen[name] = true

			var rows []fieldRow
			if err := dec.Decode(&rows); err != nil {
				return nil, fmt.Errorf("parse %s: doctype %q: %w", path, name, err)
			}
			def := Definition{Name: name}
			for _, r := range rows {
				if r.Hidden != 0 {
					continue
				}
				def.Fields = append(def.Fields, r.field())
			}
			defs = append(defs, def)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return defs, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %v", tok, want)
	}
	return nil
}
