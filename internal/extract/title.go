package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Localized heading keywords used by the portal's outlines.
const (
	KeywordSection = "Раздел"
	KeywordChapter = "Глава"
	KeywordArticle = "Статья"
)

var (
	// Roman numeral or decimal number with optional dot/hyphen sub-parts,
	// terminated by '.', ':' or ')', remainder captured as the name.
	titleNumberRe = regexp.MustCompile(`(?i)^([IVXLCDM]+|\d+(?:[.\-]\d+)*)[.:)]\s*(.*)$`)

	dateRe = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
)

// TitleNumberAndName splits a heading title such as "Статья 241.2. Утрата..."
// into its number and name. The keyword prefix is matched case-insensitively;
// if it is absent the number is empty and the name is the original title.
// The function is total: malformed input degrades, it never fails.
func TitleNumberAndName(title, keyword string) (number, name string) {
	t := strings.TrimSpace(title)
	tr := []rune(t)
	kr := []rune(keyword)
	if len(tr) < len(kr) || !strings.EqualFold(string(tr[:len(kr)]), keyword) {
		return "", t
	}

	rest := strings.TrimSpace(string(tr[len(kr):]))
	if m := titleNumberRe.FindStringSubmatch(rest); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}

	// Fallback: split on the first whitespace run.
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		return rest[:i], strings.TrimSpace(rest[i:])
	}
	if rest != "" {
		return rest, ""
	}
	return "", t
}

// FindDateInText returns the last DD.MM.YYYY token in text, or "".
// The last occurrence wins: the revision date typically trails editorial
// metadata that mentions earlier dates.
func FindDateInText(text string) string {
	matches := dateRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}
