// Package markup converts raw source text into documents of the element
// model. Each input format has its own parser; selection is by file
// suffix. Markdown and plain text documents may start with a YAML front
// matter block, which becomes the document's configuration.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

// Parser converts raw document bytes into a document of the element model.
type Parser interface {
	Parse(r io.Reader, path vpath.Path) (*ast.Document, error)
}

// SupportedSuffixes lists the file suffixes with a registered parser.
var SupportedSuffixes = map[string]bool{
	"md":       true,
	"markdown": true,
	"html":     true,
	"htm":      true,
	"txt":      true,
}

// ForPath returns the parser for a document path.
func ForPath(path vpath.Path) (Parser, error) {
	switch strings.ToLower(path.Suffix()) {
	case "md", "markdown":
		return &MarkdownParser{}, nil
	case "html", "htm":
		return &HTMLParser{}, nil
	case "txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file suffix: %q", path.Suffix())
	}
}

// IsSupported reports whether a path has a registered parser.
func IsSupported(path vpath.Path) bool {
	return SupportedSuffixes[strings.ToLower(path.Suffix())]
}

// IsTemplate reports whether a path names a template document.
func IsTemplate(path vpath.Path) bool {
	return strings.ToLower(path.Suffix()) == "template"
}
