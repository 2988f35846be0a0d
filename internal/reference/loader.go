package reference

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"doctree/internal/doctype"
	"doctree/internal/tree"
)

// Well-known file names inside the reference directory.
const (
	MappingFile      = "mapping.yaml"
	TranslationsFile = "translations.yaml"
	IgnoreFile       = "ignore.yaml"
)

// Tables bundles the reference data one build needs. Any of the three
// source files may be absent, in which case its table is empty.
type Tables struct {
	Rules        []tree.MappingRule
	Translations tree.Translations
	Ignore       []string
}

// IgnoreSet returns the ignore list as a lookup set.
func (t *Tables) IgnoreSet() map[string]bool {
	set := make(map[string]bool, len(t.Ignore))
	for _, name := range t.Ignore {
		set[name] = true
	}
	return set
}

// FilterIgnored removes the ignored doctypes from the definitions
// before any placement runs, so they neither appear in the tree nor
// adopt children.
func (t *Tables) FilterIgnored(defs []doctype.Definition) []doctype.Definition {
	if len(t.Ignore) == 0 {
		return defs
	}
	ignore := t.IgnoreSet()
	out := make([]doctype.Definition, 0, len(defs))
	for _, def := range defs {
		if !ignore[def.Name] {
			out = append(out, def)
		}
	}
	return out
}

// LoadDir reads mapping.yaml, translations.yaml and ignore.yaml from
// dir. Missing files are fine, malformed ones are not.
func LoadDir(dir string) (*Tables, error) {
	rules, err := LoadMapping(filepath.Join(dir, MappingFile))
	if err != nil {
		return nil, err
	}
	translations, err := LoadTranslations(filepath.Join(dir, TranslationsFile))
	if err != nil {
		return nil, err
	}
	ignore, err := LoadIgnore(filepath.Join(dir, IgnoreFile))
	if err != nil {
		return nil, err
	}
	return &Tables{Rules: rules, Translations: translations, Ignore: ignore}, nil
}

// LoadMapping reads the mandatory mapping rules. Every entry must name
// both a child and a parent.
func LoadMapping(path string) ([]tree.MappingRule, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rules := make([]tree.MappingRule, 0, len(file.Mappings))
	for i, entry := range file.Mappings {
		if entry.Child == "" || entry.Parent == "" {
			return nil, fmt.Errorf("parse %s: entry %d needs both child and parent", path, i)
		}
		rules = append(rules, tree.MappingRule{Child: entry.Child, Parent: entry.Parent})
	}
	return rules, nil
}

// LoadTranslations reads the doctype display names.
func LoadTranslations(path string) (tree.Translations, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file translationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tree.Translations(file.Translations), nil
}

// LoadIgnore reads the doctype names excluded from every build.
func LoadIgnore(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var file ignoreFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file.Ignore, nil
}
