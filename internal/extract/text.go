package extract

import (
	"strings"

	"golang.org/x/net/html"
)

var blockLevelTags = map[string]struct{}{
	"p":          {},
	"div":        {},
	"section":    {},
	"article":    {},
	"header":     {},
	"footer":     {},
	"h1":         {},
	"h2":         {},
	"h3":         {},
	"h4":         {},
	"h5":         {},
	"h6":         {},
	"li":         {},
	"ul":         {},
	"ol":         {},
	"table":      {},
	"tr":         {},
	"figure":     {},
	"figcaption": {},
}

var skippedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"iframe":   {},
}

// FlattenHTML renders the text content of an HTML fragment with block-level
// elements and <br> breaking lines, approximating the text a browser
// produces for innerText. Parse failures yield the empty string.
func FlattenHTML(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	acc := &textAccumulator{}
	content := findContentRoot(root)
	for child := content.FirstChild; child != nil; child = child.NextSibling {
		accumulateText(child, acc)
	}
	return strings.TrimSpace(acc.String())
}

func findContentRoot(node *html.Node) *html.Node {
	if body := findFirstElement(node, "body"); body != nil {
		return body
	}
	if htmlNode := findFirstElement(node, "html"); htmlNode != nil {
		return htmlNode
	}
	return node
}

func findFirstElement(node *html.Node, tag string) *html.Node {
	if node == nil {
		return nil
	}
	if node.Type == html.ElementNode && strings.EqualFold(node.Data, tag) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirstElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

type textAccumulator struct {
	builder  strings.Builder
	lastRune rune
	hasLast  bool
}

func (t *textAccumulator) String() string {
	return t.builder.String()
}

func (t *textAccumulator) append(value string) {
	if value == "" {
		return
	}
	t.builder.WriteString(value)
	for _, r := range value {
		t.lastRune = r
		t.hasLast = true
	}
}

func (t *textAccumulator) ensureNewline() {
	if !t.hasLast || t.lastRune == '\n' {
		return
	}
	t.append("\n")
}

func (t *textAccumulator) ensureSpace() {
	if !t.hasLast || t.lastRune == ' ' || t.lastRune == '\n' {
		return
	}
	t.append(" ")
}

func accumulateText(node *html.Node, acc *textAccumulator) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		text := normalizeWhitespace(node.Data)
		if text == "" {
			return
		}
		acc.ensureSpace()
		acc.append(text)
	case html.ElementNode:
		tag := strings.ToLower(node.Data)
		if _, skip := skippedTags[tag]; skip {
			return
		}
		if tag == "br" {
			acc.ensureNewline()
			return
		}

		_, block := blockLevelTags[tag]
		if block {
			acc.ensureNewline()
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			accumulateText(child, acc)
		}
		switch tag {
		case "td", "th":
			acc.ensureSpace()
		default:
			if block {
				acc.ensureNewline()
			}
		}
	}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
