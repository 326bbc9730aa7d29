package markup

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/vpath"
)

// TextParser handles plain text files: blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, path vpath.Path) (*ast.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, body, err := splitFrontmatter(src, path)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []ast.Block
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		blocks = append(blocks, ast.Paragraph{Content: []ast.Span{ast.Text{Content: current.String()}}})
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return &ast.Document{
		Path:    path,
		Content: ast.RootElement{Content: blocks},
		Config:  cfg,
	}, nil
}
