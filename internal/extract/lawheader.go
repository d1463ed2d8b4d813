package extract

import (
	"regexp"
	"strings"

	"github.com/mrkutin/legalacts-parser/pkg/types"
)

var (
	// Law number like "297-ФЗ", with dotted/hyphenated segments allowed
	// before the suffix. The №/N marker form takes precedence over a bare
	// match anywhere in the header.
	lawNumberMarkedRe = regexp.MustCompile(`(?:N|№)\s*([0-9]+(?:[.\-][0-9]+)*-ФЗ)`)
	lawNumberBareRe   = regexp.MustCompile(`[0-9]+(?:[.\-][0-9]+)*-ФЗ`)

	typographicQuoteRe = regexp.MustCompile(`“([^”]+)”`)
	straightQuoteRe    = regexp.MustCompile(`"([^"]+)"`)
)

// LawHeader parses the raw header block of a law page into metadata.
// All three fields degrade independently to empty strings.
func LawHeader(header string) types.RecordMeta {
	var lines []string
	for _, ln := range strings.Split(header, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	text := strings.Join(lines, "\n")

	var meta types.RecordMeta

	if m := dateRe.FindStringSubmatch(text); m != nil {
		meta.UpdatedAt = m[1]
	}

	if m := lawNumberMarkedRe.FindStringSubmatch(text); m != nil {
		meta.LawNumber = m[1]
	} else if m := lawNumberBareRe.FindString(text); m != "" {
		meta.LawNumber = m
	}

	if m := typographicQuoteRe.FindStringSubmatch(text); m != nil {
		meta.LawName = strings.TrimSpace(m[1])
	} else if m := straightQuoteRe.FindStringSubmatch(text); m != nil {
		meta.LawName = strings.TrimSpace(m[1])
	} else if len(lines) > 0 {
		meta.LawName = strings.Trim(lines[len(lines)-1], `"“”`)
	}

	return meta
}
