// Package walker turns captured portal HTML into typed index entries: the
// flattened table of contents of a code, the law links of one index page,
// and the pagination controls of the laws index.
package walker

// Portal markup anchors. The crawler captures rendered outer HTML and all
// structure is read off these selectors.
const (
	CenterBlockSelector = "div.main-center-block.col-12.col-lg-8"
	CodesListSelector   = "div.main-center-block-linkslist-noleft.ps-0"
	ArticleTextSelector = "div.main-center-block-article-text"
	ArticleDateSelector = "div.main-center-block"
	LawHeaderSelector   = "h1.main-center-block-title.pb-4"
	LawTextSelectors    = "p.pCenter, p.pRight, p.pBoth"
	PaginationSelector  = "li.page-item a.page-link"
)
