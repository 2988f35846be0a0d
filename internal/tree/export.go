package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Document is the payload shape shared by the output file and the API.
type Document struct {
	Entities []*Entity `json:"entities"`
}

// Marshal renders the forest as indented JSON. HTML-significant
// characters stay literal so labels read back the way editors wrote
// them.
func Marshal(entities []*Entity) ([]byte, error) {
	if entities == nil {
		entities = []*Entity{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(Document{Entities: entities}); err != nil {
		return nil, fmt.Errorf("marshal entities: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile marshals the forest to path, creating parent directories
// as needed.
func WriteFile(path string, entities []*Entity) error {
	data, err := Marshal(entities)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
