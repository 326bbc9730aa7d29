package markup

import (
	"fmt"
	"io"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/template"
	"github.com/dgallion1/docweave/vpath"
)

// ParseTemplate reads a template document: optional YAML front matter
// followed by template markup.
func ParseTemplate(r io.Reader, path vpath.Path) (*ast.TemplateDocument, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, body, err := splitFrontmatter(src, path)
	if err != nil {
		return nil, err
	}
	root, err := template.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return &ast.TemplateDocument{Path: path, Content: root, Config: cfg}, nil
}
