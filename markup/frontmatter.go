package markup

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/docweave/config"
	"github.com/dgallion1/docweave/vpath"
)

var frontmatterFence = []byte("---")

// splitFrontmatter separates a leading YAML front matter block, delimited
// by "---" lines, from the document body. Documents without one get a nil
// configuration and the unchanged source.
func splitFrontmatter(src []byte, path vpath.Path) (*config.Config, []byte, error) {
	rest, ok := cutFence(src)
	if !ok {
		return nil, src, nil
	}
	end := -1
	offset := 0
	for buf := rest; len(buf) > 0; {
		line := buf
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			line = buf[:i+1]
		}
		buf = buf[len(line):]
		if bytes.Equal(bytes.TrimRight(line, "\r\n"), frontmatterFence) {
			end = offset
			offset += len(line)
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter in %s", path)
	}
	cfg, err := config.Decode(rest[:end], config.Origin{Scope: config.ScopeDocument, Path: path})
	if err != nil {
		return nil, nil, fmt.Errorf("front matter in %s: %w", path, err)
	}
	return cfg, rest[offset:], nil
}

// cutFence strips the opening "---" line, reporting whether it was there.
func cutFence(src []byte) ([]byte, bool) {
	if !bytes.HasPrefix(src, frontmatterFence) {
		return src, false
	}
	rest := src[len(frontmatterFence):]
	switch {
	case bytes.HasPrefix(rest, []byte("\n")):
		return rest[1:], true
	case bytes.HasPrefix(rest, []byte("\r\n")):
		return rest[2:], true
	default:
		return src, false
	}
}
