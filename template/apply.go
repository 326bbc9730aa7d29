package template

import (
	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/cursor"
)

// ApplyTemplate instantiates a template against the document behind the
// given cursor. The result is a new document carrying the template's
// structure: context references are substituted against the document's
// resolver (the document's own content embeds via EmbeddedRoot) and
// build-phase directives are evaluated. Later phases run over the result
// like over any other document.
//
// Every unresolved required reference is collected; they are reported
// together as one configuration error instead of failing on the first.
func ApplyTemplate(td *ast.TemplateDocument, dc *cursor.DocumentCursor, reg *Registry) (*ast.Document, error) {
	var errs []error
	rules := reg.rules(dc, PhaseBuild, nil).Join(referenceRules(dc, &errs))
	resolved := rules.RewriteTemplateSpans(td.Content.Content)
	if err := config.Aggregate(errs); err != nil {
		return nil, err
	}
	out := *dc.Target
	out.Content = ast.RootElement{Content: []ast.Block{ast.TemplateRoot{Content: resolved}}}
	out.Config = dc.Target.Config.WithFallback(td.Config)
	return &out, nil
}

// TemplateFor selects the template for a document: the nearest tree level
// up the cursor chain carrying a template with the given name wins. It
// returns nil when no level has one.
func TemplateFor(dc *cursor.DocumentCursor, name string) *ast.TemplateDocument {
	for tc := dc.Parent; tc != nil; tc = tc.Parent {
		if td := tc.Target.SelectTemplate(name); td != nil {
			return td
		}
	}
	return nil
}
