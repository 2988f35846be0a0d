// api/mapping_lint.go
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"doctree/internal/reference"
	"doctree/internal/tree"
)

type MappingIssue struct {
	Child   string `json:"child"`
	Parent  string `json:"parent"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Lint-only codes. Rules naming doctypes outside the current
// generation are legal but inert (unknown child) or fatal on the next
// build (unknown parent), worth surfacing before someone hits
// generate.
const (
	LintChildUnknown  = "mapping_child_unknown"
	LintParentUnknown = "mapping_parent_unknown"
)

// LintMapping checks the mandatory mapping rules for the problems the
// builder would reject plus the ones it would silently ignore. known
// is the doctype set of the last generation, nil skips those checks.
func LintMapping(rules []tree.MappingRule, known map[string]bool) []MappingIssue {
	issues := []MappingIssue{}

	parents := make(map[string]string, len(rules))
	seen := make(map[string]string, len(rules))
	for _, r := range rules {
		if prev, dup := seen[r.Child]; dup {
			issues = append(issues, MappingIssue{
				Child: r.Child, Parent: r.Parent, Code: tree.CodeDuplicateChild,
				Message: fmt.Sprintf("child %q is already mapped to %q", r.Child, prev),
			})
			continue
		}
		seen[r.Child] = r.Parent
		parents[r.Child] = r.Parent
	}

	for _, r := range rules {
		if r.Child == r.Parent {
			issues = append(issues, MappingIssue{
				Child: r.Child, Parent: r.Parent, Code: tree.CodeBadMapping,
				Message: fmt.Sprintf("doctype %q is mapped to itself", r.Child),
			})
			continue
		}
		if cycles(parents, r.Child) {
			issues = append(issues, MappingIssue{
				Child: r.Child, Parent: r.Parent, Code: tree.CodeMappingCycle,
				Message: fmt.Sprintf("mapping rules form a cycle through %q", r.Child),
			})
		}
		if known == nil {
			continue
		}
		if !known[r.Child] {
			issues = append(issues, MappingIssue{
				Child: r.Child, Parent: r.Parent, Code: LintChildUnknown,
				Message: fmt.Sprintf("child %q is not among the generated doctypes, rule is inert", r.Child),
			})
		}
		if !known[r.Parent] {
			issues = append(issues, MappingIssue{
				Child: r.Child, Parent: r.Parent, Code: LintParentUnknown,
				Message: fmt.Sprintf("parent %q is not among the generated doctypes, next build will fail", r.Parent),
			})
		}
	}
	return issues
}

func cycles(parents map[string]string, start string) bool {
	cur := start
	for i := 0; i <= len(parents); i++ {
		next, ok := parents[cur]
		if !ok {
			return false
		}
		if next == start {
			return true
		}
		cur = next
	}
	return false
}

// GET /api/mapping/lint
func MappingLintHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := reference.LoadDir(d.ReferenceDir)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reference load error", "details": err.Error()})
			return
		}

		var known map[string]bool
		resp := gin.H{"rules": len(tables.Rules)}
		if gen, ok := d.Store.Current(); ok {
			known = doctypeKeys(gen.Entities)
			resp["checked_against"] = gen.ID
		}
		resp["issues"] = LintMapping(tables.Rules, known)
		c.JSON(http.StatusOK, resp)
	}
}

func doctypeKeys(entities []*tree.Entity) map[string]bool {
	keys := map[string]bool{}
	var walk func([]*tree.Entity)
	walk = func(es []*tree.Entity) {
		for _, e := range es {
			if e.Key != nil {
				keys[*e.Key] = true
			}
			walk(e.Children)
		}
	}
	walk(entities)
	return keys
}
