package transform

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docweave/ast"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9-]+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify converts header text to an anchor-safe id.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.Trim(s[:50], "-")
	}
	return s
}

// BuildSections folds the flat header runs a parser produces into nested
// sections: each header governs the blocks up to the next header of the
// same or an outer level. Headers without an explicit id get a slug
// derived from their text, so every section is linkable.
func BuildSections(doc *ast.Document) (*ast.Document, error) {
	out := *doc
	out.Content = ast.RootElement{Content: foldSections(doc.Content.Content)}
	return &out, nil
}

func foldSections(blocks []ast.Block) []ast.Block {
	var out []ast.Block
	i := 0
	for i < len(blocks) {
		h, ok := blocks[i].(ast.Header)
		if !ok {
			out = append(out, blocks[i])
			i++
			continue
		}
		j := i + 1
		for j < len(blocks) {
			if next, ok := blocks[j].(ast.Header); ok && next.Level <= h.Level {
				break
			}
			j++
		}
		if h.Opts.ID == "" {
			h.Opts.ID = Slugify(plainText(h.Content))
		}
		out = append(out, ast.Section{Header: h, Content: foldSections(blocks[i+1 : j])})
		i = j
	}
	return out
}

// plainText flattens span content to the text a slug is derived from.
func plainText(spans []ast.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch t := s.(type) {
		case ast.Text:
			b.WriteString(t.Content)
		case ast.Literal:
			b.WriteString(t.Content)
		case ast.SpanContainer:
			b.WriteString(plainText(t.SpanContent()))
		}
	}
	return b.String()
}
