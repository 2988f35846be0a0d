package api

import (
	"context"

	"doctree/internal/doctype"
)

// Source supplies the doctype definitions for one build, either the
// remote metadata API or a local snapshot.
type Source interface {
	FetchDefinitions(ctx context.Context, module string) ([]doctype.Definition, error)
}

// Deps carries what the handlers need: the generation store, the
// definition source and the build configuration.
type Deps struct {
	Store        *Store
	Source       Source
	Module       string
	ReferenceDir string

	// OutputPath receives the artifact after every successful build,
	// empty disables writing.
	OutputPath string
}
