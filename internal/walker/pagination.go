package walker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var pageParamRe = regexp.MustCompile(`[?&]page=(\d+)`)

// LawLink is one law entry on a paginated index page.
type LawLink struct {
	Href string
	Text string
}

// ParseLawLinks reads the law links on one index page. Only anchors under
// /doc/ with non-empty text qualify; an empty result terminates the page
// loop.
func ParseLawLinks(htmlStr string) []LawLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	var links []LawLink
	doc.Find(CenterBlockSelector + " div.pb-4 a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if !strings.HasPrefix(href, "/doc/") || text == "" {
			return
		}
		links = append(links, LawLink{Href: href, Text: text})
	})
	return links
}

// MaxPage scans the pagination controls for the highest page-number token.
// Used for bounds checks when resuming; the page loop itself terminates on
// the first empty page.
func MaxPage(htmlStr string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return 1
	}

	maxPage := 1
	doc.Find(PaginationSelector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := pageParamRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}

// PageURL builds the URL for the given 1-based index page. Page 1 is the
// bare index path; later pages append the page query parameter.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	return fmt.Sprintf("%s?page=%d", base, page)
}
