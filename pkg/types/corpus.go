package types

// CrawlTarget identifies one catalog entry discovered on the portal: a
// single code from the codes listing, or the laws index. Immutable once
// created.
type CrawlTarget struct {
	Slug        string
	DisplayName string
	IndexURL    string
}

// HeadingKind classifies one line of a flattened table of contents.
type HeadingKind int

const (
	HeadingUnclassified HeadingKind = iota
	HeadingSection
	HeadingChapter
	HeadingArticle
)

func (k HeadingKind) String() string {
	switch k {
	case HeadingSection:
		return "section"
	case HeadingChapter:
		return "chapter"
	case HeadingArticle:
		return "article"
	default:
		return "unclassified"
	}
}

// HeadingLine is a classified outline entry from an index page. Article
// lines carry the link to the article page; section and chapter lines
// usually do not.
type HeadingLine struct {
	Kind HeadingKind
	Text string
	Href string
}

// BreadcrumbContext carries the most recently seen section and chapter
// identification forward onto article records until superseded.
type BreadcrumbContext struct {
	SectionNumber string
	SectionName   string
	ChapterNumber string
	ChapterName   string
}

// RecordMeta is the per-record metadata block. Code records fill the
// section/chapter/article fields, law records fill the law fields.
// Absent values are empty strings, never an error condition.
type RecordMeta struct {
	SectionNumber string
	SectionName   string
	ChapterNumber string
	ChapterName   string
	ArticleNumber string
	ArticleName   string
	LawNumber     string
	LawName       string
	UpdatedAt     string
}

// Record is one self-contained metadata+body unit of the output format,
// corresponding to one article or one law. Written exactly once.
type Record struct {
	Meta RecordMeta
	Body string
}
