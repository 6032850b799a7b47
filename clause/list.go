package clause

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tsawler/rider/docx"
)

// ListClauses returns every paragraph classified as a clause heading under
// the document-wide profile.
func ListClauses(doc *docx.Document) []Heading {
	profile := DetectHeadingStyle(doc, DocumentScope(doc))

	var headings []Heading
	for i, p := range doc.Paragraphs() {
		if IsClauseHeading(p, profile) {
			headings = append(headings, Heading{Index: i, Text: strings.TrimSpace(p.Text())})
		}
	}
	return headings
}

// InsertClauseAt inserts a heading paragraph followed by a body paragraph so
// that the heading lands at paragraph index position. A negative position,
// or one past the end, appends both. The heading is styled with the
// document-wide profile and quoted the way the document quotes, falling back
// to straight quotes.
func InsertClauseAt(doc *docx.Document, position int, heading, body string, opts ...Option) (headingPara, bodyPara *docx.Paragraph) {
	o := buildOptions(opts)

	profile, found := detectHeadingStyle(doc, DocumentScope(doc))
	if !found {
		o.logger.Debug("no styled clause heading in document, using default profile")
	}

	text := strings.Trim(strings.TrimSpace(heading), quoteChars)
	if profile.Quotes {
		quotes, err := FindFirstHeadingWithQuotes(doc, -1)
		if err != nil {
			quotes = StraightQuotes
		}
		text = quotes.Open + text + quotes.Close
	}

	if ref := doc.Paragraph(position); ref != nil {
		headingPara = doc.InsertParagraphBefore(ref)
	} else {
		headingPara = doc.AddParagraph()
	}
	r := headingPara.AddRun(text)
	r.SetBold(profile.Bold)
	r.SetUnderline(profile.Underline)

	bodyPara = doc.InsertParagraphAfter(headingPara)
	bodyPara.AddRun(body)

	o.logger.Info("inserted clause",
		zap.String("heading", heading),
		zap.Int("index", doc.IndexOf(headingPara)))
	return headingPara, bodyPara
}
