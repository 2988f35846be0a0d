package main

import (
	"context"
	"log"

	"doctree/internal/api"
	"doctree/internal/config"
	"doctree/internal/doctype"
	"doctree/internal/metadata"
)

// snapshotSource serves builds from a local doctype dump instead of
// the remote API.
type snapshotSource struct {
	path string
}

func (s snapshotSource) FetchDefinitions(context.Context, string) ([]doctype.Definition, error) {
	return doctype.LoadDefinitions(s.path)
}

func main() {
	cfg := config.LoadWithPath("config.json")

	var source api.Source
	if cfg.SnapshotPath != "" {
		log.Printf("using snapshot %s instead of the metadata API", cfg.SnapshotPath)
		source = snapshotSource{path: cfg.SnapshotPath}
	} else {
		client, err := metadata.NewClient(cfg.APIBaseURL, cfg.APIToken,
			metadata.WithWorkers(cfg.FetchWorkers),
			metadata.WithRateLimit(cfg.RateLimit))
		if err != nil {
			log.Fatalf("metadata client: %v", err)
		}
		source = client
	}

	deps := &api.Deps{
		Store:        api.NewStore(),
		Source:       source,
		Module:       cfg.Module,
		ReferenceDir: cfg.ReferenceDir,
		OutputPath:   cfg.OutputPath,
	}

	log.Printf("doctree listening on :%s (module %q, reference %s)", cfg.Port, cfg.Module, cfg.ReferenceDir)
	if err := api.RunServer(":"+cfg.Port, deps, cfg.AllowedOrigins); err != nil {
		log.Fatalf("server: %v", err)
	}
}
