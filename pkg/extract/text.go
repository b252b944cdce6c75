package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Text renders the whole page as lightweight marked-up text: headings become
// hash-prefixed lines, links become [text](href), and block elements break
// paragraphs. Scripts, styles, and comments never appear.
func Text(rawHTML string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	renderText(doc, &b)

	out := collapseBlankLines(strings.TrimSpace(b.String()))
	return truncate(out, maxLength), nil
}

func renderText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return

	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			if needsSpace(b) {
				b.WriteString(" ")
			}
			b.WriteString(text)
		}
		return

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if isNoiseElement(tag) || tag == "head" {
			return
		}

		switch tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n\n")
			b.WriteString(strings.Repeat("#", int(tag[1]-'0')))
			b.WriteString(" ")
		case "p", "div", "section", "article", "tr", "blockquote":
			b.WriteString("\n\n")
		case "li":
			b.WriteString("\n- ")
		case "br":
			b.WriteString("\n")
			return
		case "a":
			href := attrValue(n, "href")
			if href != "" {
				b.WriteString(" [")
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					renderText(c, b)
				}
				fmt.Fprintf(b, "](%s)", href)
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, b)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// needsSpace reports whether a word separator should precede the next text.
func needsSpace(b *strings.Builder) bool {
	s := b.String()
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last != ' ' && last != '\n' && last != '[' && last != '#' && last != '-'
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
