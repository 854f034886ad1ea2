// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package post

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading found in an article.
type Heading struct {
	Level int
	Text  string
}

var markdown = goldmark.New()

// Outline parses article Markdown and returns its headings in document order.
func Outline(article string) []Heading {
	src := []byte(article)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var heads []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		inlineText(&buf, h, src)
		heads = append(heads, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(buf.String()),
		})
		return ast.WalkSkipChildren, nil
	})
	return heads
}

func inlineText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		default:
			inlineText(buf, c, src)
		}
	}
}

// StructureWarnings reports requested structure the article is missing:
// section headings and a closing FAQ section. The article is still usable,
// so these are advisory.
func StructureWarnings(article string) []string {
	heads := Outline(article)

	var sections int
	var faq bool
	for _, h := range heads {
		if h.Level == 2 || h.Level == 3 {
			sections++
		}
		lower := strings.ToLower(h.Text)
		if strings.Contains(lower, "faq") || strings.Contains(lower, "frequently asked") {
			faq = true
		}
	}

	var warnings []string
	if sections == 0 {
		warnings = append(warnings, "article has no H2/H3 headings")
	}
	if !faq {
		warnings = append(warnings, "article has no FAQ section")
	}
	return warnings
}
