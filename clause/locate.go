package clause

import (
	"fmt"
	"strings"

	"github.com/tsawler/rider/docx"
)

// quoteChars are stripped from both ends of text before headings are
// compared.
const quoteChars = "\"“”„‟″‶"

// mainHeadingMaxWords bounds the length of a section heading.
const mainHeadingMaxWords = 10

// normalize trims text, strips surrounding quote characters and case-folds
// it, so `“Affiliate”`, `"affiliate"` and `Affiliate` compare equal.
func normalize(text string) string {
	t := strings.Trim(strings.TrimSpace(text), quoteChars)
	return normalizeCase(strings.TrimSpace(t))
}

// quotedTerm returns the text between a leading quote and its close, e.g.
// `Affiliate` for `“Affiliate” means any entity`.
func quotedTerm(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for _, q := range []QuotePair{StraightQuotes, CurlyQuotes} {
		if !strings.HasPrefix(text, q.Open) {
			continue
		}
		rest := text[len(q.Open):]
		if end := strings.Index(rest, q.Close); end >= 0 {
			return rest[:end], true
		}
	}
	return "", false
}

// FindClauseIndexByHeading returns the index of the first paragraph whose
// text matches heading, ignoring surrounding whitespace, quotes and case. A
// paragraph that opens with a quoted defined term also matches on the term
// alone.
func FindClauseIndexByHeading(doc *docx.Document, heading string) (int, error) {
	target := normalize(heading)
	if target == "" {
		return -1, fmt.Errorf("%w: empty heading", ErrAnchorNotFound)
	}
	for i, p := range doc.Paragraphs() {
		text := p.Text()
		if normalize(text) == target {
			return i, nil
		}
		if term, ok := quotedTerm(text); ok && normalize(term) == target {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: heading %q", ErrAnchorNotFound, heading)
}

// isMainHeading reports whether p looks like a section heading: short,
// ending in a period and not opening with a quote.
func isMainHeading(p *docx.Paragraph) bool {
	text := strings.TrimSpace(p.Text())
	if !strings.HasSuffix(text, ".") {
		return false
	}
	if len(strings.Fields(text)) >= mainHeadingMaxWords {
		return false
	}
	return !strings.ContainsAny(firstRune(text), quoteChars)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// FindNextMainHeadingIndex returns the index of the first main heading after
// start.
func FindNextMainHeadingIndex(doc *docx.Document, start int) (int, error) {
	paras := doc.Paragraphs()
	for i := start + 1; i < len(paras); i++ {
		if isMainHeading(paras[i]) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no main heading after paragraph %d", ErrAnchorNotFound, start)
}

// FindNextHeadingIndex returns the index of the first clause heading under
// profile after start.
func FindNextHeadingIndex(doc *docx.Document, start int, profile Profile) (int, error) {
	paras := doc.Paragraphs()
	for i := start + 1; i < len(paras); i++ {
		if IsClauseHeading(paras[i], profile) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no clause heading after paragraph %d", ErrAnchorNotFound, start)
}

// quotePairOf returns the quotes text is wrapped in, if any.
func quotePairOf(text string) (QuotePair, bool) {
	text = strings.TrimSpace(text)
	if !HasQuotes(text) {
		return QuotePair{}, false
	}
	if strings.HasPrefix(text, StraightQuotes.Open) {
		return StraightQuotes, true
	}
	return CurlyQuotes, true
}

// FindFirstHeadingWithQuotes returns the quote pair used by the first
// quote-wrapped paragraph after start.
func FindFirstHeadingWithQuotes(doc *docx.Document, start int) (QuotePair, error) {
	paras := doc.Paragraphs()
	for i := start + 1; i < len(paras); i++ {
		if pair, ok := quotePairOf(paras[i].Text()); ok {
			return pair, nil
		}
	}
	return QuotePair{}, fmt.Errorf("%w: no quoted heading after paragraph %d", ErrAnchorNotFound, start)
}
