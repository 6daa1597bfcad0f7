// Package markdown holds the text utilities shared by every content parser:
// heading and section extraction, image and list extraction, structural
// analysis, and text cleaning.
//
// Structural work (headings, images, code blocks, links) walks the goldmark
// AST so fenced code is never mistaken for prose. Line-oriented helpers that
// goldmark does not cover (list items, hashtags) track fences with FenceState.
package markdown
