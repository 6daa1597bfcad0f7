package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Structure summarizes the block-level shape of a markdown body.
type Structure struct {
	Headings      int
	Paragraphs    int
	Lists         int
	ListItems     int
	Links         int
	Images        int
	CodeBlocks    int
	CodeLanguages []string
}

// Analyze walks the goldmark AST of content and counts structural elements.
// CodeLanguages holds the distinct fenced-code info strings in first-seen order.
func Analyze(content string) Structure {
	source := []byte(content)
	doc := parseAST(source)

	var s Structure
	seenLang := make(map[string]bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			s.Headings++
		case *ast.Paragraph:
			s.Paragraphs++
		case *ast.List:
			s.Lists++
		case *ast.ListItem:
			s.ListItems++
		case *ast.Link, *ast.AutoLink:
			s.Links++
		case *ast.Image:
			s.Images++
		case *ast.FencedCodeBlock:
			s.CodeBlocks++
			lang := strings.ToLower(strings.TrimSpace(string(node.Language(source))))
			if lang != "" && !seenLang[lang] {
				seenLang[lang] = true
				s.CodeLanguages = append(s.CodeLanguages, lang)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			s.CodeBlocks++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return s
}

// Links returns the destinations of all inline links in content.
func Links(content string) []string {
	source := []byte(content)
	doc := parseAST(source)

	var links []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			links = append(links, string(node.Destination))
		case *ast.AutoLink:
			links = append(links, string(node.URL(source)))
		}
		return ast.WalkContinue, nil
	})
	return links
}
