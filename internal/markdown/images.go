package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// ImageRef is an image found in markdown body text.
type ImageRef struct {
	URL   string
	Alt   string
	Title string
	Type  string
}

// ImageCategory is one entry of an image classification vocabulary.
type ImageCategory struct {
	Type     string
	Keywords []string
}

// OtherImageType is the classification used when no keyword matches.
const OtherImageType = "other"

// DefaultImageTypes is the base classification vocabulary. Parsers may pass
// their own.
var DefaultImageTypes = []ImageCategory{
	{Type: "screenshot", Keywords: []string{"screenshot", "screen", "capture"}},
	{Type: "diagram", Keywords: []string{"diagram", "architecture", "flow", "chart"}},
	{Type: "logo", Keywords: []string{"logo", "icon"}},
	{Type: "banner", Keywords: []string{"banner", "header", "hero", "cover"}},
}

// ClassifyImage returns the first vocabulary type whose keyword occurs in the
// URL or alt text, or OtherImageType.
func ClassifyImage(url, alt string, vocab []ImageCategory) string {
	haystack := strings.ToLower(url + " " + alt)
	for _, cat := range vocab {
		for _, kw := range cat.Keywords {
			if strings.Contains(haystack, kw) {
				return cat.Type
			}
		}
	}
	return OtherImageType
}

// ExtractImages returns all markdown images in document order, classified
// with vocab (DefaultImageTypes when nil).
func ExtractImages(body string, vocab []ImageCategory) []ImageRef {
	if vocab == nil {
		vocab = DefaultImageTypes
	}

	source := []byte(body)
	doc := parseAST(source)

	var images []ImageRef
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		url := strings.TrimSpace(string(img.Destination))
		alt := strings.TrimSpace(nodeText(img, source))
		images = append(images, ImageRef{
			URL:   url,
			Alt:   alt,
			Title: string(img.Title),
			Type:  ClassifyImage(url, alt, vocab),
		})
		return ast.WalkSkipChildren, nil
	})
	return images
}
