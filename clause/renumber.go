package clause

import (
	"regexp"
	"strconv"

	"github.com/tsawler/rider/docx"
)

// Placeholder is the number written for a freshly inserted top-level clause
// until the clauses are renumbered.
const Placeholder = "XXX"

var numberedPrefix = regexp.MustCompile(`^(\d+|XXX)\.\s+`)

// runSpan is the part of one run covered by a text range.
type runSpan struct {
	run        *docx.Run
	start, end int // byte offsets within the run's text
}

// spansFor maps the byte range [start, end) of the concatenated text of runs
// onto the runs it covers, in order.
func spansFor(runs []*docx.Run, start, end int) []runSpan {
	var spans []runSpan
	offset := 0
	for _, r := range runs {
		n := len(r.Text())
		lo, hi := max(start, offset), min(end, offset+n)
		if lo < hi {
			spans = append(spans, runSpan{run: r, start: lo - offset, end: hi - offset})
		}
		offset += n
		if offset >= end {
			break
		}
	}
	return spans
}

// RenumberTopLevelClauses rewrites the leading "N. " (or "XXX. ") of every
// top-level numbered paragraph so the numbers run 1, 2, 3, … in document
// order. Only the characters of the prefix change; when the prefix spans
// several runs, the new number goes into the first and the rest of the
// prefix is removed from the others, so no run's formatting is touched. It
// returns the number of clauses found.
func RenumberTopLevelClauses(doc *docx.Document) int {
	n := 0
	for _, p := range doc.Paragraphs() {
		loc := numberedPrefix.FindStringIndex(p.Text())
		if loc == nil {
			continue
		}
		n++
		for i, s := range spansFor(p.Runs(), loc[0], loc[1]) {
			old := s.run.Text()
			replacement := ""
			if i == 0 {
				replacement = strconv.Itoa(n) + ". "
			}
			if updated := old[:s.start] + replacement + old[s.end:]; updated != old {
				s.run.SetText(updated)
			}
		}
	}
	return n
}
