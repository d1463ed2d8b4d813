package walker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mrkutin/legalacts-parser/internal/extract"
)

// LawHeaderText returns the flattened text of a law page's title heading.
// The heading carries the adoption date, the registration number and the
// quoted name on consecutive lines.
func LawHeaderText(htmlStr string) string {
	return selectionText(htmlStr, LawHeaderSelector)
}

// LawBodyText joins the law's body paragraphs in document order, one
// paragraph per line. Only the three paragraph classes the portal uses for
// law text are taken; navigation and commentary markup is left behind.
func LawBodyText(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	var paragraphs []string
	doc.Find(LawTextSelectors).Each(func(_ int, p *goquery.Selection) {
		inner, err := p.Html()
		if err != nil {
			return
		}
		if text := extract.FlattenHTML(inner); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}
