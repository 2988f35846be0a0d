package main

import (
	"context"
	"log"

	"doctree/internal/config"
	"doctree/internal/doctype"
	"doctree/internal/metadata"
	"doctree/internal/reference"
	"doctree/internal/tree"
)

// One-shot build: fetch doctypes, assemble the hierarchy and write the
// artifact, without starting the HTTP server.
func main() {
	cfg := config.LoadWithPath("config.json")

	tables, err := reference.LoadDir(cfg.ReferenceDir)
	if err != nil {
		log.Fatalf("reference tables: %v", err)
	}
	mapping, err := tree.NewMandatoryMapping(tables.Rules)
	if err != nil {
		log.Fatalf("mandatory mapping: %v", err)
	}

	var defs []doctype.Definition
	if cfg.SnapshotPath != "" {
		defs, err = doctype.LoadDefinitions(cfg.SnapshotPath)
		if err != nil {
			log.Fatalf("snapshot %s: %v", cfg.SnapshotPath, err)
		}
	} else {
		client, cerr := metadata.NewClient(cfg.APIBaseURL, cfg.APIToken,
			metadata.WithWorkers(cfg.FetchWorkers),
			metadata.WithRateLimit(cfg.RateLimit))
		if cerr != nil {
			log.Fatalf("metadata client: %v", cerr)
		}
		defs, err = client.FetchDefinitions(context.Background(), cfg.Module)
		if err != nil {
			log.Fatalf("fetch doctypes: %v", err)
		}
	}
	defs = tables.FilterIgnored(defs)

	builder := tree.NewBuilder(mapping, tables.Translations)
	roots, err := builder.Build(defs)
	if err != nil {
		log.Fatalf("build tree: %v", err)
	}

	if err := tree.WriteFile(cfg.OutputPath, roots); err != nil {
		log.Fatalf("write %s: %v", cfg.OutputPath, err)
	}
	log.Printf("wrote %s: %d doctypes, %d nodes, %d warnings",
		cfg.OutputPath, len(defs), tree.Count(roots), len(builder.Warnings()))
}
