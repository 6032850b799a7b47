package clause

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/tsawler/rider/docx"
)

// InsertNumberedClauseAfterHeading adds a defined-term clause to the section
// headed sectionHeading. The clause goes right after the clause whose
// heading starts with afterClause, or first in the section when afterClause
// is empty. It imitates the majority style of the section's clause headings
// and joins the native numbering list of the clause it is placed before, so
// the viewer renumbers the list by itself.
func InsertNumberedClauseAfterHeading(doc *docx.Document, sectionHeading, heading, body, afterClause string, opts ...Option) (*docx.Paragraph, error) {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("section", sectionHeading))

	sectionIdx, err := FindClauseIndexByHeading(doc, sectionHeading)
	if err != nil {
		return nil, err
	}
	scope := SectionScope(doc, sectionIdx)
	coarse, found := detectHeadingStyle(doc, scope)
	if !found {
		log.Debug("no styled clause heading in section, using default profile")
	}

	insertAfter := sectionIdx
	if afterClause != "" {
		insertAfter, err = findClauseInScope(doc, scope, afterClause, coarse)
		if err != nil {
			return nil, fmt.Errorf("%w (section %q)", err, sectionHeading)
		}
	}

	profile := SectionClauseStyle(doc, sectionIdx, coarse)

	paras := doc.Paragraphs()
	var template, numberingSource *docx.Paragraph
	if next, err := FindNextHeadingIndex(doc, insertAfter, coarse); err == nil && next < scope.End {
		template = paras[next]
		numberingSource = template
	} else if insertAfter != sectionIdx {
		numberingSource = paras[insertAfter]
	}

	quotes, ok := QuotePair{}, false
	if template != nil {
		quotes, ok = quotePairOf(template.Text())
	}
	if !ok {
		quotes, err = FindFirstHeadingWithQuotes(doc, insertAfter)
		if err != nil {
			log.Debug("no quoted heading to imitate, using curly quotes")
			quotes = CurlyQuotes
		}
	}

	var p *docx.Paragraph
	switch {
	case template != nil:
		p = doc.InsertParagraphBefore(template)
	case scope.End < len(paras):
		p = doc.InsertParagraphBefore(paras[scope.End])
	default:
		p = doc.AddParagraph()
	}
	if numberingSource != nil {
		p.SetStyleID(numberingSource.StyleID())
	}

	ComposeQuotedHeading(p, quotes, strings.Trim(strings.TrimSpace(heading), quoteChars), body, profile)

	if !CopyListNumbering(p, numberingSource) {
		log.Debug("no native numbering to copy")
	}

	log.Info("inserted numbered clause",
		zap.String("heading", heading),
		zap.Int("index", doc.IndexOf(p)),
		zap.Bool("quotes", profile.Quotes),
		zap.Bool("bold", profile.Bold),
		zap.Bool("italic", profile.Italic),
		zap.Bool("underline", profile.Underline))
	return p, nil
}

// findClauseInScope finds the clause heading in scope whose normalized text
// starts with the normalized name.
func findClauseInScope(doc *docx.Document, scope Scope, name string, profile Profile) (int, error) {
	target := normalize(name)
	paras := doc.Paragraphs()
	start, end := clampScope(scope, len(paras))
	for i := start; i < end; i++ {
		p := paras[i]
		if IsClauseHeading(p, profile) && strings.HasPrefix(normalize(p.Text()), target) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: clause %q", ErrAnchorNotFound, name)
}

var (
	leadingNumber = regexp.MustCompile(`^(\d+|XXX)\.\s*`)
	clauseHeading = regexp.MustCompile(`^((?:(?:\d+|XXX)\.\s*)?[^.]+\.)`)
)

// clauseKey reduces a clause heading to the text it is matched on: no
// number, no surrounding quotes, no closing period, case-folded.
func clauseKey(text string) string {
	key := normalize(leadingNumber.ReplaceAllString(strings.TrimSpace(text), ""))
	return strings.TrimSpace(strings.TrimSuffix(key, "."))
}

// clauseHeadingOf returns the heading a clause paragraph opens with: its
// optional number and the text up to the first period ("10. Title."), or
// the whole trimmed text when there is no period.
func clauseHeadingOf(text string) string {
	text = strings.TrimSpace(text)
	if m := clauseHeading.FindString(text); m != "" {
		return m
	}
	return text
}

// findNumberedClause returns the first paragraph whose heading matches
// anchor, with or without its number.
func findNumberedClause(doc *docx.Document, anchor string) (*docx.Paragraph, error) {
	target := clauseKey(anchor)
	if target == "" {
		return nil, fmt.Errorf("%w: empty clause heading", ErrAnchorNotFound)
	}
	for _, p := range doc.Paragraphs() {
		if clauseKey(clauseHeadingOf(p.Text())) == target {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: clause %q", ErrAnchorNotFound, anchor)
}

// InsertClauseAfterClause inserts a single-paragraph numbered clause after
// the clause headed anchor, separated from it by a blank paragraph, then
// renumbers every top-level clause.
func InsertClauseAfterClause(doc *docx.Document, anchor, heading, body string, opts ...Option) (*docx.Paragraph, error) {
	return insertClauseNear(doc, anchor, heading, body, true, opts)
}

// InsertClauseBeforeClause inserts a blank paragraph and then a
// single-paragraph numbered clause before the clause headed anchor, then
// renumbers every top-level clause.
func InsertClauseBeforeClause(doc *docx.Document, anchor, heading, body string, opts ...Option) (*docx.Paragraph, error) {
	return insertClauseNear(doc, anchor, heading, body, false, opts)
}

func insertClauseNear(doc *docx.Document, anchor, heading, body string, after bool, opts []Option) (*docx.Paragraph, error) {
	o := buildOptions(opts)
	log := o.logger.With(zap.String("anchor", anchor))

	ref, err := findNumberedClause(doc, anchor)
	if err != nil {
		return nil, err
	}

	profile, found := detectHeadingStyle(doc, DocumentScope(doc))
	if !found {
		log.Debug("no styled clause heading in document, using default profile")
	}

	parts := HeadingParts{
		Number:  Placeholder + ". ",
		Heading: strings.TrimRight(strings.TrimSpace(heading), "."),
		Period:  ". ",
	}
	if !numberedPrefix.MatchString(ref.Text()) {
		// Without a numbered anchor there is nothing to renumber against.
		log.Debug("anchor clause is not numbered, inserting without a number")
		parts.Number = ""
	}

	// anchor, spacer, clause / spacer, clause, anchor
	var p *docx.Paragraph
	if after {
		spacer := doc.InsertParagraphAfter(ref)
		p = doc.InsertParagraphAfter(spacer)
	} else {
		doc.InsertParagraphBefore(ref)
		p = doc.InsertParagraphBefore(ref)
	}

	var refRun *docx.Run
	if runs := ref.Runs(); len(runs) > 0 {
		refRun = runs[0]
	}
	ComposeHeadingRuns(p, parts, refRun, profile)
	composeBody(p, body, refRun)

	p.SetAlignment(ref.Alignment())
	p.SetIndent(ref.Indent())

	count := RenumberTopLevelClauses(doc)
	log.Info("inserted clause",
		zap.String("heading", heading),
		zap.Bool("after", after),
		zap.Int("index", doc.IndexOf(p)),
		zap.Int("clauses", count))
	return p, nil
}
