// Package content normalizes editor payloads. The rich-text editor
// may submit HTML; the diff, scoring, and suggestion pipeline all
// operate on plain text.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags are elements whose boundaries become newlines so
// paragraph structure survives normalization.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"blockquote": true,
}

// Normalize converts editor content to plain text. Plain-text input
// passes through untouched apart from newline normalization; HTML is
// flattened with paragraph breaks preserved.
func Normalize(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	if !looksLikeHTML(normalized) {
		return normalized
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(normalized))
	if err != nil {
		return normalized
	}

	var sb strings.Builder
	doc.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		writeNode(&sb, sel)
	})

	out := sb.String()
	out = collapseBlankLines(out)
	return strings.TrimSpace(out)
}

func writeNode(sb *strings.Builder, sel *goquery.Selection) {
	node := sel.Get(0)
	if node.Type == html.TextNode {
		sb.WriteString(node.Data)
		return
	}
	tag := goquery.NodeName(sel)
	if tag == "script" || tag == "style" {
		return
	}
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		writeNode(sb, child)
	})
	if blockTags[tag] {
		sb.WriteString("\n")
	}
}

// looksLikeHTML is a cheap check: an angle-bracketed tag anywhere.
func looksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return false
	}
	close := strings.IndexByte(s[open:], '>')
	return close > 1
}

// collapseBlankLines squeezes runs of blank lines down to one.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

// WordCount counts whitespace-separated words in normalized content.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
