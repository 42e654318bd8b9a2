package governance

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// proposalHeading extracts a one-line title from a markdown proposal
// description: the first heading, else the first line of the first
// paragraph, else the trimmed description itself.
func proposalHeading(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse([]byte(description), p)

	var heading, paragraph ast.Node
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch node.(type) {
		case *ast.Heading:
			heading = node
			return ast.Terminate
		case *ast.Paragraph:
			if paragraph == nil {
				paragraph = node
			}
		}
		return ast.GoToNext
	})

	title := ""
	switch {
	case heading != nil:
		title = nodeText(heading)
	case paragraph != nil:
		title = nodeText(paragraph)
	}
	if line := firstLine(title); line != "" {
		return line
	}
	return firstLine(description)
}

func nodeText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if _, ok := n.(*ast.Hardbreak); ok {
			sb.WriteString("\n")
		} else if leaf := n.AsLeaf(); leaf != nil {
			sb.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return sb.String()
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
