package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// MarkdownToPlain flattens markdown for terminals and MCP clients.
func MarkdownToPlain(md []byte) string {
	text, err := html2text.FromString(string(renderHTML(parse(md))), html2text.Options{
		OmitLinks:    false,
		PrettyTables: true,
	})
	if err != nil {
		return string(md)
	}
	return strings.TrimSpace(text)
}
