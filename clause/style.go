package clause

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/rider/docx"
)

// sampleMaxLen is the longest trimmed text still considered a heading
// sample by DetectHeadingStyle.
const sampleMaxLen = 60

// HasQuotes reports whether text opens with a straight or curly quote and
// closes it somewhere later.
func HasQuotes(text string) bool {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, `"`):
		return strings.Contains(text[1:], `"`)
	case strings.HasPrefix(text, CurlyQuotes.Open):
		return strings.Contains(text[len(CurlyQuotes.Open):], CurlyQuotes.Close)
	}
	return false
}

// anyBold reports whether any run of p is directly bold.
func anyBold(p *docx.Paragraph) bool {
	for _, r := range p.Runs() {
		if b := r.Bold(); b != nil && *b {
			return true
		}
	}
	return false
}

// anyUnderline reports whether any run of p is directly underlined.
func anyUnderline(p *docx.Paragraph) bool {
	for _, r := range p.Runs() {
		if u := r.Underline(); u != nil && *u {
			return true
		}
	}
	return false
}

// anyItalic reports whether p renders italic anywhere. Direct formatting and
// character styles come first, then the paragraph's style chain, then any
// <w:i> that is not switched off.
func anyItalic(doc *docx.Document, p *docx.Paragraph) bool {
	styles := doc.Styles()
	for _, r := range p.Runs() {
		if styles.ResolveRun(p.StyleID(), r).Italic {
			return true
		}
	}
	if styles.Resolve(p.StyleID()).Italic {
		return true
	}
	return p.HasMarkup("w:i")
}

// IsClauseHeading classifies p under profile: quote-wrapped text when the
// profile uses quotes, otherwise a bold run (and an underlined one, if the
// profile underlines).
func IsClauseHeading(p *docx.Paragraph, profile Profile) bool {
	text := strings.TrimSpace(p.Text())
	if text == "" {
		return false
	}
	if profile.Quotes && HasQuotes(text) {
		return true
	}
	if profile.Bold && anyBold(p) {
		return !profile.Underline || anyUnderline(p)
	}
	return false
}

// DocumentScope covers every paragraph of doc.
func DocumentScope(doc *docx.Document) Scope {
	return Scope{Start: 0, End: len(doc.Paragraphs())}
}

// SectionScope covers the paragraphs after the main heading at index up to,
// but not including, the next main heading.
func SectionScope(doc *docx.Document, index int) Scope {
	end, err := FindNextMainHeadingIndex(doc, index)
	if err != nil {
		end = len(doc.Paragraphs())
	}
	return Scope{Start: index + 1, End: end}
}

// DetectHeadingStyle returns the coarse heading profile of scope: the
// bold, underline and quote flags of the first short paragraph that has any
// of them. Italic is never set. Scopes without such a paragraph get
// {Bold: true}.
func DetectHeadingStyle(doc *docx.Document, scope Scope) Profile {
	profile, _ := detectHeadingStyle(doc, scope)
	return profile
}

func detectHeadingStyle(doc *docx.Document, scope Scope) (Profile, bool) {
	paras := doc.Paragraphs()
	start, end := clampScope(scope, len(paras))
	for _, p := range paras[start:end] {
		text := strings.TrimSpace(p.Text())
		if text == "" || len(p.Runs()) == 0 || utf8.RuneCountInString(text) >= sampleMaxLen {
			continue
		}
		profile := Profile{
			Bold:      anyBold(p),
			Underline: anyUnderline(p),
			Quotes:    HasQuotes(text),
		}
		if profile.Bold || profile.Underline || profile.Quotes {
			return profile, true
		}
	}
	return defaultProfile, false
}

// SectionClauseStyle infers the full profile of the clause headings in the
// section that starts at the main heading at sectionIndex. Paragraphs are
// classified with coarse; each flag is set when more than half of them carry
// it, so ties are unstyled. A section without clause headings yields coarse
// with Italic cleared.
func SectionClauseStyle(doc *docx.Document, sectionIndex int, coarse Profile) Profile {
	return majorityStyle(doc, SectionScope(doc, sectionIndex), coarse)
}

func majorityStyle(doc *docx.Document, scope Scope, coarse Profile) Profile {
	paras := doc.Paragraphs()
	start, end := clampScope(scope, len(paras))

	var total, quotes, bold, italic, underline int
	for _, p := range paras[start:end] {
		if !IsClauseHeading(p, coarse) {
			continue
		}
		total++
		if HasQuotes(p.Text()) {
			quotes++
		}
		if anyBold(p) {
			bold++
		}
		if anyItalic(doc, p) {
			italic++
		}
		if anyUnderline(p) {
			underline++
		}
	}

	if total == 0 {
		fallback := coarse
		fallback.Italic = false
		return fallback
	}
	half := total / 2
	return Profile{
		Quotes:    quotes > half,
		Bold:      bold > half,
		Italic:    italic > half,
		Underline: underline > half,
	}
}

func clampScope(s Scope, n int) (int, int) {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
