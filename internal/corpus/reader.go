package corpus

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var headerLineRe = regexp.MustCompile(`(?i)^\[([a-z_]+)\]\s*(.*)$`)

// Entry is one parsed record: its raw metadata keys plus the body text.
// The reader keeps keys as strings so consumers see exactly what was
// written, including keys a newer producer may add.
type Entry struct {
	Meta map[string]string
	Body string
}

// Reader stream-parses a corpus file without loading it whole. A header
// line starts or continues a metadata block, a blank line ends it, and the
// next header line after a complete metadata+body pair closes the record.
// Records whose body collapses to nothing are dropped.
type Reader struct {
	sc       *bufio.Scanner
	meta     map[string]string
	body     []string
	inHeader bool
	done     bool
}

// NewReader wraps r for streaming record iteration.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next complete record, or io.EOF after the last one.
func (r *Reader) Next() (Entry, error) {
	for !r.done {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return Entry{}, err
			}
			r.done = true
			break
		}
		line := r.sc.Text()

		if m := headerLineRe.FindStringSubmatch(line); m != nil {
			completed, ok := r.takeCompleted()
			r.inHeader = true
			if r.meta == nil {
				r.meta = make(map[string]string)
			}
			r.meta[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
			if ok {
				return completed, nil
			}
			continue
		}

		if r.inHeader && strings.TrimSpace(line) == "" {
			r.inHeader = false
			continue
		}

		r.body = append(r.body, line)
	}

	if completed, ok := r.takeCompleted(); ok {
		return completed, nil
	}
	return Entry{}, io.EOF
}

// takeCompleted flushes the pending record if both metadata and body were
// seen. Pending state is cleared either way once both parts exist.
func (r *Reader) takeCompleted() (Entry, bool) {
	if len(r.meta) == 0 || len(r.body) == 0 {
		return Entry{}, false
	}
	body := strings.TrimSpace(strings.Join(r.body, "\n"))
	meta := r.meta
	r.meta = nil
	r.body = nil
	if body == "" {
		return Entry{}, false
	}
	return Entry{Meta: meta, Body: body}, true
}

// ReadAll drains the reader, optionally stopping after limit records
// (limit <= 0 means no limit).
func ReadAll(r io.Reader, limit int) ([]Entry, error) {
	reader := NewReader(r)
	var entries []Entry
	for {
		entry, err := reader.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			return entries, nil
		}
	}
}
