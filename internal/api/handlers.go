package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"doctree/internal/reference"
	"doctree/internal/tree"
)

// POST /api/generate
//
// Runs one full build: reload the reference tables, pull the doctype
// definitions, assemble the tree, write the artifact and swap it into
// the store. Any failure leaves the previous generation serving.
func GenerateHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := reference.LoadDir(d.ReferenceDir)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference load error", "details": err.Error()})
			return
		}
		mapping, err := tree.NewMandatoryMapping(tables.Rules)
		if err != nil {
			renderBuildError(c, err)
			return
		}

		defs, err := d.Source.FetchDefinitions(c.Request.Context(), d.Module)
		if err != nil {
			log.Printf("api: fetch definitions: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "metadata fetch failed", "details": err.Error()})
			return
		}
		defs = tables.FilterIgnored(defs)

		builder := tree.NewBuilder(mapping, tables.Translations)
		roots, err := builder.Build(defs)
		if err != nil {
			renderBuildError(c, err)
			return
		}

		if d.OutputPath != "" {
			if err := tree.WriteFile(d.OutputPath, roots); err != nil {
				log.Printf("api: write artifact: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "artifact write failed", "details": err.Error()})
				return
			}
		}

		gen := d.Store.Put(len(defs), roots, builder.Warnings())
		log.Printf("api: generation %s: %d doctypes, %d nodes, %d warnings",
			gen.ID, gen.Doctypes, gen.Nodes, len(gen.Warnings))
		c.JSON(http.StatusOK, gin.H{
			"run_id":       gen.ID,
			"generated_at": gen.GeneratedAt,
			"doctypes":     gen.Doctypes,
			"nodes":        gen.Nodes,
			"warnings":     gen.Warnings,
		})
	}
}

// renderBuildError maps configuration problems to 400 and everything
// else to 500.
func renderBuildError(c *gin.Context, err error) {
	if ce, ok := tree.AsConfigError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []*tree.ConfigError{ce}})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GET /api/entities
// GET /api/entities?q=term
func EntitiesHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gen, ok := store.Current()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tree generated yet"})
			return
		}
		entities := gen.Entities
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			entities = searchEntities(entities, q)
		}
		c.JSON(http.StatusOK, tree.Document{Entities: entities})
	}
}

// GET /api/entities/:name
func EntityByNameHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gen, ok := store.Current()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tree generated yet"})
			return
		}
		node, ok := findByName(gen.Entities, c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctype not found"})
			return
		}
		c.JSON(http.StatusOK, node)
	}
}

type metaDoctype struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Fields      int    `json:"fields"`
	Children    int    `json:"children"`
}

// GET /api/meta
//
// Run info plus one summary row per doctype node, in tree order.
func MetaHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gen, ok := store.Current()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no tree generated yet"})
			return
		}
		summaries := []metaDoctype{}
		var walk func([]*tree.Entity)
		walk = func(es []*tree.Entity) {
			for _, e := range es {
				if e.IsDoctype() {
					row := metaDoctype{Name: *e.Key, Description: e.Description, Path: e.Path}
					for _, child := range e.Children {
						if child.IsDoctype() {
							row.Children++
						} else {
							row.Fields++
						}
					}
					summaries = append(summaries, row)
				}
				walk(e.Children)
			}
		}
		walk(gen.Entities)
		c.JSON(http.StatusOK, gin.H{
			"run_id":       gen.ID,
			"generated_at": gen.GeneratedAt,
			"nodes":        gen.Nodes,
			"warnings":     gen.Warnings,
			"doctypes":     summaries,
		})
	}
}

// GET /healthz
func HealthzHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
