package walker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mrkutin/legalacts-parser/internal/extract"
	"github.com/mrkutin/legalacts-parser/pkg/types"
)

// ParseCodeLinks reads the codes listing page and returns one CrawlTarget
// per code link. Only anchors pointing under /kodeks/ with non-empty text
// qualify.
func ParseCodeLinks(htmlStr, baseURL string) []types.CrawlTarget {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	var targets []types.CrawlTarget
	doc.Find(CodesListSelector + " a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if !strings.HasPrefix(href, "/kodeks/") || text == "" {
			return
		}
		targets = append(targets, types.CrawlTarget{
			Slug:        SlugFromHref(href),
			DisplayName: text,
			IndexURL:    baseURL + href,
		})
	})
	return targets
}

// ParseOutline reads one code's index page into its flattened table of
// contents, in document order. Entries without an anchor come back with
// empty text and href; the traversal loop skips them but still paces.
func ParseOutline(htmlStr string) []types.HeadingLine {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	var lines []types.HeadingLine
	doc.Find(CenterBlockSelector + " p.text-start").Each(func(_ int, p *goquery.Selection) {
		a := p.Find("a").First()
		text := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")
		lines = append(lines, types.HeadingLine{
			Kind: extract.Classify(text, href),
			Text: text,
			Href: href,
		})
	})
	return lines
}

// SlugFromHref derives the identifying path segment of a catalog entry,
// e.g. "/kodeks/GK-RF/" -> "GK-RF".
func SlugFromHref(href string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) > 1 {
		return parts[1]
	}
	return parts[len(parts)-1]
}

// ArticleText returns the flattened body text of an article page.
func ArticleText(htmlStr string) string {
	return selectionText(htmlStr, ArticleTextSelector)
}

// CenterBlockText returns the flattened text of the whole center block,
// where the revision date lives.
func CenterBlockText(htmlStr string) string {
	return selectionText(htmlStr, ArticleDateSelector)
}

func selectionText(htmlStr, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	inner, err := sel.Html()
	if err != nil {
		return ""
	}
	return extract.FlattenHTML(inner)
}
