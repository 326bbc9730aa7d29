// Package transform orchestrates the rewrite passes that turn a freshly
// parsed tree into its fully resolved form: templates and structural
// directives first, then cross-document resolution over a globally indexed
// tree, then format-specific rendering directives.
//
// Per-document work runs with bounded concurrency; the rewrite passes
// themselves only read shared state, so documents are independent.
package transform

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/cursor"
	"github.com/dgallion1/docweave/template"
)

// Options configures a transformation run.
type Options struct {
	// Output selects the render phase's target format.
	Output template.OutputContext
	// TemplateName is the template looked up for each document. A document
	// can override it with the config key "template".
	TemplateName string
	// MaxConcurrent bounds parallel per-document work.
	MaxConcurrent int
}

// OptionsFromEnv reads defaults from the environment.
func OptionsFromEnv() Options {
	format := envOr("DOCWEAVE_FORMAT", "html")
	return Options{
		Output: template.OutputContext{
			Format:      format,
			FinalFormat: envOr("DOCWEAVE_FINAL_FORMAT", format),
		},
		TemplateName:  envOr("DOCWEAVE_TEMPLATE", "default.template"),
		MaxConcurrent: envInt("DOCWEAVE_MAX_CONCURRENT", 4),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Transformer runs the three-phase pipeline over a tree root.
type Transformer struct {
	reg  *template.Registry
	opts Options
	log  *slog.Logger
}

// New builds a transformer. A nil registry gets the standard directive
// set, a nil logger the process default.
func New(reg *template.Registry, opts Options, log *slog.Logger) *Transformer {
	if reg == nil {
		reg = template.Default()
	}
	if opts.TemplateName == "" {
		opts.TemplateName = "default.template"
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transformer{reg: reg, opts: opts, log: log}
}

// Transform runs build, resolve and render in order and returns the new
// root. The input tree is stamped with positions but its content is never
// modified; every pass produces new values.
func (t *Transformer) Transform(ctx context.Context, root *ast.TreeRoot) (*ast.TreeRoot, error) {
	if root.Tree != nil {
		if err := root.Tree.ValidateNames(); err != nil {
			return nil, err
		}
	}
	root.AssignPositions()

	log := t.log.With("format", t.opts.Output.Format)

	// Build: structural directives, then sections, then templates, so the
	// content a template embeds already has its final shape.
	out, err := cursor.NewRoot(root).RewriteTarget(t.reg.RulesFor(template.PhaseBuild, nil))
	if err != nil {
		return nil, err
	}
	out, err = t.mapDocuments(ctx, out, BuildSections)
	if err != nil {
		return nil, err
	}
	out, err = t.applyTemplates(ctx, out)
	if err != nil {
		return nil, err
	}
	log.Debug("build phase done", "documents", len(out.AllDocuments()))

	// Resolve: index every link target, then run cross-document directives
	// and link resolution in one pass.
	idx := BuildLinkIndex(out)
	resolveRules := t.reg.RulesFor(template.PhaseResolve, nil)
	out, err = cursor.NewRoot(out).RewriteTarget(func(dc *cursor.DocumentCursor) (ast.RewriteRules, error) {
		rules, err := resolveRules(dc)
		if err != nil {
			return ast.RewriteRules{}, err
		}
		return rules.Join(LinkRules(idx, dc)), nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("resolve phase done")

	// Render: format-dependent directives.
	out, err = cursor.NewRoot(out).RewriteTarget(t.reg.RulesFor(template.PhaseRender, &t.opts.Output))
	if err != nil {
		return nil, err
	}
	log.Debug("render phase done")
	return out, nil
}

// applyTemplates instantiates each document's template. Documents are
// independent, so they are processed in parallel with bounded concurrency.
func (t *Transformer) applyTemplates(ctx context.Context, root *ast.TreeRoot) (*ast.TreeRoot, error) {
	rc := cursor.NewRoot(root)
	var cursors []*cursor.DocumentCursor
	if tc := rc.Tree(); tc != nil {
		cursors = tc.AllDocuments()
	}
	if cc := rc.Cover(); cc != nil {
		cursors = append(cursors, cc)
	}

	type result struct {
		idx int
		doc *ast.Document
		err error
	}
	results := make(chan result, len(cursors))
	sem := make(chan struct{}, t.opts.MaxConcurrent)
	for i, dc := range cursors {
		sem <- struct{}{}
		go func(i int, dc *cursor.DocumentCursor) {
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results <- result{idx: i, err: err}
				return
			}
			name := dc.Config.StringOr("template", t.opts.TemplateName)
			td := template.TemplateFor(dc, name)
			if td == nil {
				results <- result{idx: i, doc: dc.Target}
				return
			}
			doc, err := template.ApplyTemplate(td, dc, t.reg)
			if err == nil {
				t.log.Debug("applied template", "path", dc.Target.Path.String(), "template", td.Path.String())
			}
			results <- result{idx: i, doc: doc, err: err}
		}(i, dc)
	}

	mapped := make(map[*ast.Document]*ast.Document)
	var errs []error
	for range cursors {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if r.doc != cursors[r.idx].Target {
			mapped[cursors[r.idx].Target] = r.doc
		}
	}
	if err := config.Aggregate(errs); err != nil {
		return nil, err
	}
	return replaceDocuments(root, mapped), nil
}

// mapDocuments applies f to every document of the root with bounded
// concurrency and reassembles the tree around the results.
func (t *Transformer) mapDocuments(ctx context.Context, root *ast.TreeRoot, f func(*ast.Document) (*ast.Document, error)) (*ast.TreeRoot, error) {
	docs := root.AllDocuments()

	type result struct {
		idx int
		doc *ast.Document
		err error
	}
	results := make(chan result, len(docs))
	sem := make(chan struct{}, t.opts.MaxConcurrent)
	for i, doc := range docs {
		sem <- struct{}{}
		go func(i int, doc *ast.Document) {
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results <- result{idx: i, err: err}
				return
			}
			nd, err := f(doc)
			results <- result{idx: i, doc: nd, err: err}
		}(i, doc)
	}

	mapped := make(map[*ast.Document]*ast.Document)
	var errs []error
	for range docs {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if r.doc != docs[r.idx] {
			mapped[docs[r.idx]] = r.doc
		}
	}
	if err := config.Aggregate(errs); err != nil {
		return nil, err
	}
	return replaceDocuments(root, mapped), nil
}

// replaceDocuments rebuilds the tree with documents swapped for their
// processed versions. Unmapped documents are kept as they are.
func replaceDocuments(root *ast.TreeRoot, mapped map[*ast.Document]*ast.Document) *ast.TreeRoot {
	if len(mapped) == 0 {
		return root
	}
	out := *root
	if nd, ok := mapped[root.CoverDocument]; ok {
		out.CoverDocument = nd
	}
	if root.Tree != nil {
		out.Tree = replaceTreeDocuments(root.Tree, mapped)
	}
	return &out
}

func replaceTreeDocuments(tree *ast.DocumentTree, mapped map[*ast.Document]*ast.Document) *ast.DocumentTree {
	out := *tree
	if nd, ok := mapped[tree.TitleDocument]; ok {
		out.TitleDocument = nd
	}
	content := make([]ast.TreeItem, len(tree.Content))
	for i, item := range tree.Content {
		switch c := item.(type) {
		case *ast.Document:
			if nd, ok := mapped[c]; ok {
				content[i] = nd
			} else {
				content[i] = c
			}
		case *ast.DocumentTree:
			content[i] = replaceTreeDocuments(c, mapped)
		default:
			content[i] = item
		}
	}
	out.Content = content
	return &out
}
