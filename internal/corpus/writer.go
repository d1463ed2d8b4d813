// Package corpus implements the flat-text record format shared by the
// crawler (producer) and the uploader (consumer): per record, `[key] value`
// metadata lines in fixed order, a blank separator, the body text, and a
// blank line before the next record.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrkutin/legalacts-parser/pkg/types"
)

// Metadata keys in emission order. Code records use the first six plus
// updated_at, law records the law pair plus updated_at; empty fields are
// never emitted, so one order serves both kinds.
var fieldOrder = []struct {
	key   string
	value func(types.RecordMeta) string
}{
	{"section_number", func(m types.RecordMeta) string { return m.SectionNumber }},
	{"section_name", func(m types.RecordMeta) string { return m.SectionName }},
	{"chapter_number", func(m types.RecordMeta) string { return m.ChapterNumber }},
	{"chapter_name", func(m types.RecordMeta) string { return m.ChapterName }},
	{"article_number", func(m types.RecordMeta) string { return m.ArticleNumber }},
	{"article_name", func(m types.RecordMeta) string { return m.ArticleName }},
	{"law_number", func(m types.RecordMeta) string { return m.LawNumber }},
	{"law_name", func(m types.RecordMeta) string { return m.LawName }},
	{"updated_at", func(m types.RecordMeta) string { return m.UpdatedAt }},
}

// Writer appends records to one corpus file. Append-only: it never seeks
// or rewrites, so an interrupted run leaves a prefix of complete records.
type Writer struct {
	f    *os.File
	path string
}

// NewWriter opens the corpus file for appending, creating parent
// directories as needed.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	return &Writer{f: f, path: path}, nil
}

// Append serializes one record. The record is buffered in full and written
// with a single call, so a crash never leaves a partial record.
func (w *Writer) Append(rec types.Record) error {
	var b strings.Builder
	for _, field := range fieldOrder {
		if v := field.value(rec.Meta); v != "" {
			fmt.Fprintf(&b, "[%s] %s\n", field.key, v)
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(rec.Body)
	b.WriteString("\n\n")

	if _, err := w.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append record to %s: %w", w.path, err)
	}
	return nil
}

// Path returns the destination file path.
func (w *Writer) Path() string {
	return w.path
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}
