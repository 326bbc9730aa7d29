package markup

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/vpath"
)

// ConfigFileName is the per-directory configuration file. Its values apply
// to the tree level, with fallback to the parent levels.
const ConfigFileName = "config.yaml"

// LoadTree reads a source tree from fsys into a TreeRoot. Directories
// become tree levels, supported files become documents, "*.template" files
// become that level's templates and everything else is registered as a
// static document. A document named "index" becomes its level's title
// document, a root-level "cover" document becomes the cover.
func LoadTree(fsys fs.FS) (*ast.TreeRoot, error) {
	tree, statics, err := loadDir(fsys, ".", vpath.Root)
	if err != nil {
		return nil, err
	}
	root := &ast.TreeRoot{Tree: tree, StaticDocuments: statics}

	content := make([]ast.TreeItem, 0, len(tree.Content))
	for _, item := range tree.Content {
		if doc, ok := item.(*ast.Document); ok && doc.Path.Basename() == "cover" && root.CoverDocument == nil {
			root.CoverDocument = doc
			continue
		}
		content = append(content, item)
	}
	tree.Content = content
	return root, nil
}

func loadDir(fsys fs.FS, dir string, at vpath.Path) (*ast.DocumentTree, []vpath.Path, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	scope := config.ScopeTree
	if at.IsRoot() {
		scope = config.ScopeRoot
	}
	tree := &ast.DocumentTree{
		Path:   at,
		Config: config.New(config.Origin{Scope: scope, Path: at}),
	}
	var statics []vpath.Path

	// fs.ReadDir sorts by name, so loading is deterministic.
	for _, entry := range entries {
		name := entry.Name()
		full := path.Join(dir, name)
		child := at.Child(name)

		if entry.IsDir() {
			sub, ss, err := loadDir(fsys, full, child)
			if err != nil {
				return nil, nil, err
			}
			tree.Content = append(tree.Content, sub)
			statics = append(statics, ss...)
			continue
		}

		switch {
		case name == ConfigFileName:
			data, err := fs.ReadFile(fsys, full)
			if err != nil {
				return nil, nil, fmt.Errorf("reading %s: %w", full, err)
			}
			cfg, err := config.Decode(data, config.Origin{Scope: scope, Path: at})
			if err != nil {
				return nil, nil, err
			}
			tree.Config = cfg

		case IsTemplate(child):
			f, err := fsys.Open(full)
			if err != nil {
				return nil, nil, fmt.Errorf("opening %s: %w", full, err)
			}
			td, err := ParseTemplate(f, child)
			f.Close()
			if err != nil {
				return nil, nil, err
			}
			tree.Templates = append(tree.Templates, td)

		case IsSupported(child):
			p, err := ForPath(child)
			if err != nil {
				return nil, nil, err
			}
			f, err := fsys.Open(full)
			if err != nil {
				return nil, nil, fmt.Errorf("opening %s: %w", full, err)
			}
			doc, err := p.Parse(f, child)
			f.Close()
			if err != nil {
				return nil, nil, err
			}
			if child.Basename() == "index" && tree.TitleDocument == nil {
				tree.TitleDocument = doc
			} else {
				tree.Content = append(tree.Content, doc)
			}

		default:
			statics = append(statics, child)
		}
	}
	return tree, statics, nil
}
