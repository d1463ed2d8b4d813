package extract

import (
	"strings"

	"github.com/mrkutin/legalacts-parser/pkg/types"
)

var (
	lowerSection = strings.ToLower(KeywordSection)
	lowerChapter = strings.ToLower(KeywordChapter)
	lowerArticle = strings.ToLower(KeywordArticle)
)

// Classify assigns a heading kind from the line's leading keyword. Article
// lines must carry a link; a "Статья ..." line without one stays
// unclassified.
func Classify(text, href string) types.HeadingKind {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(lower, lowerSection):
		return types.HeadingSection
	case strings.HasPrefix(lower, lowerChapter):
		return types.HeadingChapter
	case strings.HasPrefix(lower, lowerArticle) && href != "":
		return types.HeadingArticle
	default:
		return types.HeadingUnclassified
	}
}

// Advance returns the breadcrumb context after observing one outline line.
// Section lines overwrite the section fields, chapter lines the chapter
// fields; article and unclassified lines leave the context unchanged.
//
// A section line does not reset the chapter fields: the previous chapter
// persists until the next chapter heading arrives. Sections without any
// chapter heading before their first article therefore inherit the prior
// chapter.
func Advance(ctx types.BreadcrumbContext, line types.HeadingLine) types.BreadcrumbContext {
	switch line.Kind {
	case types.HeadingSection:
		ctx.SectionNumber, ctx.SectionName = TitleNumberAndName(line.Text, KeywordSection)
	case types.HeadingChapter:
		ctx.ChapterNumber, ctx.ChapterName = TitleNumberAndName(line.Text, KeywordChapter)
	}
	return ctx
}
