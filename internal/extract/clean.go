package extract

import (
	"regexp"
	"strings"
)

// Navigation artifacts echoed into article bodies: prev/next arrows and the
// repeated article heading line.
var navArtifactRe = regexp.MustCompile(`^(<|>|Статья\s+\d+[.:\s]|Статья\s+[IVXLCDM]+[.:\s])`)

// CleanArticleText trims every line, drops navigation-artifact lines, and
// collapses runs of blank lines into a single blank line. Idempotent:
// cleaning already-clean text returns it unchanged.
func CleanArticleText(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		if navArtifactRe.MatchString(ln) {
			continue
		}
		out = append(out, ln)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
