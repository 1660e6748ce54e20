package filestore

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

var plainTextExtensions = map[string]bool{
	".txt": true, ".csv": true, ".log": true,
	".py": true, ".java": true, ".cpp": true, ".c": true,
	".js": true, ".html": true, ".css": true, ".go": true,
}

// ExtractText turns a fetched object into indexable text. Markdown is
// flattened through its AST; plain-text extensions pass through as-is.
// Unsupported formats (pdf, docx, binaries) yield empty text, not an error.
func ExtractText(name string, data []byte) string {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case ext == ".md" || ext == ".markdown":
		return strings.TrimSpace(markdownToText(data))
	case plainTextExtensions[ext]:
		if !utf8.Valid(data) {
			return ""
		}
		return strings.TrimSpace(string(data))
	default:
		return ""
	}
}

func markdownToText(source []byte) string {
	parser := goldmark.New().Parser()
	root := parser.Parse(gmtext.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				b.Write(text.Segment.Value(source))
				if text.SoftLineBreak() || text.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading, ast.KindListItem, ast.KindCodeBlock, ast.KindFencedCodeBlock:
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
