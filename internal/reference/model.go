package reference

// MappingEntry is one row of mapping.yaml: the child doctype pinned
// under its one allowed parent.
type MappingEntry struct {
	Child  string `yaml:"child"`
	Parent string `yaml:"parent"`
}

type mappingFile struct {
	Mappings []MappingEntry `yaml:"mappings"`
}

type translationsFile struct {
	Translations map[string]string `yaml:"translations"`
}

type ignoreFile struct {
	Ignore []string `yaml:"ignore"`
}
