package dupfind

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

// Reporter writes the results file: a headline describing the run
// followed by one line per member of each duplicate class (the first
// occurrence included), grounded on the teacher's
// internals/reports_write.go ReportHeadLine/ReportTailLine pair. The
// teacher's format tracks a tree-diffing report; dupfind's tracks flat
// duplicate classes instead, so the line shape is adapted rather than
// copied verbatim: hex digest, one-letter type tag, size, inode, path.
type Reporter struct {
	w *bufio.Writer
}

// NewReporter wraps w for buffered writing, flushed by Close.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: bufio.NewWriter(w)}
}

// WriteHead writes the report's single headline, matching the teacher's
// "# <version> <timestamp> <checksum> <basepath...>" shape.
func (r *Reporter) WriteHead(cfg *Config, roots []string) error {
	_, err := fmt.Fprintf(r.w, "# dupfind 1.0 %s checksum=%s roots=%s\n",
		time.Now().UTC().Format(time.RFC3339), cfg.Checksum, strings.Join(roots, ","))
	return err
}

// WriteGroup writes one duplicate class: the first-occurrence record
// first, then every duplicate, one per line, each tagged with its
// duptype so the results file preserves the within-tree/outside-tree
// distinction spec.md §3 assigns at mark_duplicates.
func (r *Reporter) WriteGroup(group []*FileRecord) error {
	if len(group) == 0 {
		return nil
	}
	for _, rec := range group {
		if err := r.writeLine(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeLine(rec *FileRecord) error {
	_, err := fmt.Fprintf(r.w, "%s %s %d %d %s\n",
		hex.EncodeToString(rec.Checksum), dupTypeTag(rec.Dup), rec.Size, rec.Inode, byteEncode(rec.Path))
	return err
}

// dupTypeTag renders a DupType as the results file's short type tag:
// 'F' first occurrence, 'W' within the same tree, 'O' outside the tree.
func dupTypeTag(d DupType) string {
	switch d {
	case DupFirstOccurrence:
		return "F"
	case DupWithinSameTree:
		return "W"
	case DupOutsideTree:
		return "O"
	default:
		return "?"
	}
}

// Close flushes buffered output.
func (r *Reporter) Close() error {
	return r.w.Flush()
}

// byteEncode escapes control characters and the space/newline delimiters
// that would otherwise break the report's line-oriented format, the way
// the teacher's internals/auxiliary.go byteEncode escapes basenames
// before writing them into a report line.
func byteEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == ' ':
			b.WriteString(`\ `)
		case c == '\n':
			b.WriteString(`\n`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// byteDecode reverses byteEncode, used by tooling that reads a results
// file back in (not exercised by the CLI itself, but kept symmetric with
// the teacher's own reports_read.go counterpart).
func byteDecode(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case ' ':
			b.WriteByte(' ')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'x':
			if i+3 >= len(s) {
				return "", fmt.Errorf("dupfind: truncated escape in %q", s)
			}
			var v byte
			if _, err := fmt.Sscanf(s[i+2:i+4], "%02x", &v); err != nil {
				return "", err
			}
			b.WriteByte(v)
			i += 3
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}
