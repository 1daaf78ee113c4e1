package conv

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// MarkdownToSlack renders model output as Slack mrkdwn.
// https://api.slack.com/reference/surfaces/formatting
func MarkdownToSlack(md []byte) string {
	var buf bytes.Buffer

	ast.WalkFunc(parse(md), func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				buf.WriteString(slackEscaper.Replace(string(n.Literal)))
			}
		case *ast.Strong:
			buf.WriteByte('*')
		case *ast.Emph:
			buf.WriteByte('_')
		case *ast.Del:
			buf.WriteByte('~')
		case *ast.Code:
			if entering {
				buf.WriteString("`" + slackEscaper.Replace(string(n.Literal)) + "`")
			}
		case *ast.CodeBlock:
			if entering {
				buf.WriteString("```\n" + slackEscaper.Replace(string(n.Literal)) + "```\n")
				blockGap(&buf, n)
			}
		case *ast.Link:
			if entering {
				buf.WriteString("<" + string(n.Destination) + "|")
			} else {
				buf.WriteByte('>')
			}
		case *ast.Heading:
			if entering {
				buf.WriteByte('*')
			} else {
				buf.WriteString("*\n")
				blockGap(&buf, n)
			}
		case *ast.BlockQuote:
			if entering {
				buf.WriteString("> ")
			}
		case *ast.ListItem:
			if entering {
				buf.WriteString(listMarker(n))
			}
		case *ast.List:
			if !entering {
				blockGap(&buf, n)
			}
		case *ast.Paragraph:
			if !entering {
				buf.WriteByte('\n')
				blockGap(&buf, n)
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				buf.WriteByte('\n')
			}
		case *ast.HTMLSpan, *ast.HTMLBlock:
			return ast.SkipChildren
		}
		return ast.GoToNext
	})

	return strings.TrimSpace(buf.String())
}

// blockGap separates top-level blocks with an empty line.
func blockGap(buf *bytes.Buffer, n ast.Node) {
	if _, ok := n.GetParent().(*ast.Document); ok {
		buf.WriteByte('\n')
	}
}

func listMarker(item *ast.ListItem) string {
	if item.ListFlags&ast.ListTypeOrdered == 0 {
		return "• "
	}
	idx := 1
	if parent := item.GetParent(); parent != nil {
		for i, c := range parent.GetChildren() {
			if c == ast.Node(item) {
				idx = i + 1
				break
			}
		}
	}
	return strconv.Itoa(idx) + ". "
}
