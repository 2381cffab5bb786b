// tools/search/references.go
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/planforge/internal/engine"
	"github.com/ChamsBouzaiene/planforge/internal/refindex"
)

const (
	defaultTopK = 5
	maxTopK     = 20
)

func searchReferencesImpl(ix *refindex.Index, query string, globs []string, k int) (string, error) {
	if k <= 0 {
		k = defaultTopK
	}
	if k > maxTopK {
		k = maxTopK
	}

	snippets, err := ix.Search(query, globs, k)
	if err != nil {
		return "", fmt.Errorf("reference search failed: %w", err)
	}
	if len(snippets) == 0 {
		return fmt.Sprintf("No reference snippets matched %q.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d reference snippet(s) for %q:\n", len(snippets), query)
	for i, s := range snippets {
		fmt.Fprintf(&b, "\n--- [%d] %s:%d-%d (%s, score %.2f) ---\n", i+1, s.FilePath, s.StartLine, s.EndLine, s.Lang, s.Score)
		b.WriteString(strings.TrimRight(s.Text, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// NewSearchReferencesTool creates the search_references tool over a reference
// index. Results are retained as essential context across compactions, which
// is why hits carry the file path and line range inline.
func NewSearchReferencesTool(ix *refindex.Index) engine.Tool {
	return engine.Tool{
		Name:        "search_references",
		Description: "Searches the indexed reference codebase for snippets matching a query. Supports optional file glob filters and result count.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"query": {"type":"string","description":"Free-text query, e.g. a function name or concept"},
				"globs": {"type":"array","items":{"type":"string"},"description":"Optional file path globs to restrict the search, e.g. [\"*.py\"]"},
				"k": {"type":"integer","minimum":1,"maximum":20,"description":"Number of snippets to return (default: 5)"}
			},
			"required": ["query"]
		}`,
		Kind: engine.KindReference,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			query, ok := args["query"].(string)
			if !ok || strings.TrimSpace(query) == "" {
				return "", fmt.Errorf("query must be a non-empty string")
			}
			var globs []string
			if raw, ok := args["globs"].([]any); ok {
				for _, g := range raw {
					if s, ok := g.(string); ok && s != "" {
						globs = append(globs, s)
					}
				}
			}
			k := 0
			switch v := args["k"].(type) {
			case float64:
				k = int(v)
			case int:
				k = v
			}
			return searchReferencesImpl(ix, query, globs, k)
		},
	}
}
