// Package extract converts rendered page markup into cleaned forms suitable
// for an LLM: a pruned structural subtree, or a lightweight marked-up text
// rendering. All functions are pure; nothing here touches a live browser.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Format selects the extraction output form.
type Format string

const (
	// FormatStructural returns a pruned HTML subtree.
	FormatStructural Format = "structural"

	// FormatText returns a marked-up plain-text rendering.
	FormatText Format = "text"
)

// DefaultMaxLength bounds extracted content so tool results stay small
// enough for the agent loop's message payloads.
const DefaultMaxLength = 10000

// Structural returns a cleaned HTML subtree rooted at selector (document
// body when empty). Scripts, styles, meta noise, comments, and empty leaves
// are pruned; attributes useful for element targeting are preserved.
func Structural(rawHTML, selector string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if selector == "" {
		selector = "body"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("no element matches selector %q", selector)
	}

	var b strings.Builder
	renderClean(sel.Nodes[0], &b)
	return truncate(strings.TrimSpace(b.String()), maxLength), nil
}

// renderClean writes a cleaned rendering of n. It returns true when any
// visible content was produced, which is how empty leaves get dropped.
func renderClean(n *html.Node, b *strings.Builder) bool {
	switch n.Type {
	case html.CommentNode:
		return false

	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			return false
		}
		b.WriteString(text)
		return true

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isNoiseElement(tag) {
			return false
		}

		// Render children into a scratch buffer first so empty
		// non-void elements can be dropped entirely.
		var inner strings.Builder
		hasContent := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if renderClean(c, &inner) {
				hasContent = true
			}
		}
		if !hasContent && !isVoidElement(tag) {
			return false
		}

		if isBlockElement(tag) {
			b.WriteString("\n")
		}
		b.WriteString("<")
		b.WriteString(tag)
		for _, attr := range n.Attr {
			if keepAttribute(tag, strings.ToLower(attr.Key)) {
				fmt.Fprintf(b, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
			}
		}
		b.WriteString(">")
		b.WriteString(inner.String())
		if !isVoidElement(tag) {
			fmt.Fprintf(b, "</%s>", tag)
		}
		return true

	default:
		had := false
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if renderClean(c, b) {
				had = true
			}
		}
		return had
	}
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + fmt.Sprintf("\n[content truncated: %d of %d characters shown]", maxLength, len(s))
}

// isNoiseElement reports tags removed entirely from structural output.
func isNoiseElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "meta", "link", "iframe", "embed", "object", "svg", "template":
		return true
	}
	return false
}

func isBlockElement(tag string) bool {
	switch tag {
	case "div", "p", "section", "article", "header", "footer", "nav", "main", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"table", "tr", "td", "th", "form", "fieldset", "blockquote", "pre":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "hr", "img", "input", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// keepAttribute preserves attributes useful for later element targeting.
func keepAttribute(tag, attr string) bool {
	switch attr {
	case "id", "class", "role", "aria-label", "href", "for":
		return true
	}
	if strings.HasPrefix(attr, "data-") {
		return true
	}
	switch tag {
	case "input", "textarea", "select", "button":
		switch attr {
		case "name", "type", "placeholder", "value", "required":
			return true
		}
	case "img":
		return attr == "src" || attr == "alt"
	case "form":
		return attr == "action" || attr == "method"
	case "option":
		return attr == "value" || attr == "selected"
	case "a":
		return attr == "target"
	}
	return false
}
