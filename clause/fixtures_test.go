package clause

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/rider/docx"
)

const (
	bold      = `<w:b/>`
	italic    = `<w:i/>`
	underline = `<w:u w:val="single"/>`
	arial     = `<w:rFonts w:ascii="Arial" w:hAnsi="Arial"/>`
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// r renders a run with the given rPr children.
func r(text string, props ...string) string {
	rPr := ""
	if len(props) > 0 {
		rPr = "<w:rPr>" + strings.Join(props, "") + "</w:rPr>"
	}
	return `<w:r>` + rPr + `<w:t xml:space="preserve">` + textEscaper.Replace(text) + `</w:t></w:r>`
}

// p renders a paragraph with the given pPr children and runs.
func p(pPr string, runs ...string) string {
	if pPr != "" {
		pPr = "<w:pPr>" + pPr + "</w:pPr>"
	}
	return "<w:p>" + pPr + strings.Join(runs, "") + "</w:p>"
}

func numPr(numID, ilvl string) string {
	return `<w:numPr><w:ilvl w:val="` + ilvl + `"/><w:numId w:val="` + numID + `"/></w:numPr>`
}

// buildDoc assembles a document from body paragraphs and optional styles.
func buildDoc(t *testing.T, styles string, paras ...string) *docx.Document {
	t.Helper()
	files := map[string][]byte{
		"word/document.xml": []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			strings.Join(paras, "") + `<w:sectPr/></w:body></w:document>`),
	}
	if styles != "" {
		files["word/styles.xml"] = []byte(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + styles + `</w:styles>`)
	}
	doc, err := docx.FromParts(files)
	require.NoError(t, err)
	return doc
}

func texts(doc *docx.Document) []string {
	var out []string
	for _, para := range doc.Paragraphs() {
		out = append(out, para.Text())
	}
	return out
}

// definition renders a bold, curly-quoted defined term on list 3, level 1.
func definition(term, body string) string {
	return p(`<w:pStyle w:val="ListNumber2"/>`+numPr("3", "1"),
		r("“"), r(term, bold), r("”"), r(" "+body))
}

// definitionsDoc is an NDA whose Definitions section has three bold,
// curly-quoted, natively numbered definitions.
//
//	0 MUTUAL NON-DISCLOSURE AGREEMENT
//	1 preamble
//	2 Definitions.
//	3 “Confidential Information” …
//	4 “Disclosing Party” …
//	5 “Receiving Party” …
//	6 Obligations.
//	7 obligations body
func definitionsDoc(t *testing.T) *docx.Document {
	return buildDoc(t, "",
		p(`<w:jc w:val="center"/>`, r("MUTUAL NON-DISCLOSURE AGREEMENT", bold)),
		p("", r("This Agreement is entered into by the parties listed below as of the Effective Date.")),
		p("", r("Definitions.", bold)),
		definition("Confidential Information", "means all non-public information disclosed by either party to the other."),
		definition("Disclosing Party", "means the party disclosing Confidential Information under this Agreement."),
		definition("Receiving Party", "means the party receiving Confidential Information under this Agreement."),
		p("", r("Obligations.", bold)),
		p("", r("The Receiving Party shall hold all Confidential Information in strict confidence and shall not disclose it.")),
	)
}

// numberedClause renders "N. Title. Body" as number, title, period and body
// runs, justified and indented.
func numberedClause(n int, title, body string) string {
	return p(`<w:ind w:left="360" w:firstLine="0"/><w:jc w:val="both"/>`,
		r(fmt.Sprintf("%d. ", n), arial, bold, `<w:sz w:val="22"/>`),
		r(title, arial, bold, underline),
		r(". ", arial),
		r(body, arial))
}

// servicesDoc has clauses 1 to 11, where 10 is "Prohibition on Use of Open
// AI Systems" and 11 is "Confidentiality".
func servicesDoc(t *testing.T) *docx.Document {
	paras := []string{p("", r("SERVICES AGREEMENT", bold))}
	for n := 1; n <= 9; n++ {
		paras = append(paras, numberedClause(n, fmt.Sprintf("Clause %d", n), "The parties agree to the terms of this clause."))
	}
	paras = append(paras,
		numberedClause(10, "Prohibition on Use of Open AI Systems", "Neither party shall input Confidential Information into any publicly available AI system."),
		numberedClause(11, "Confidentiality", "Each party shall protect the other party's Confidential Information."),
	)
	return buildDoc(t, "", paras...)
}

// numberedHeadings returns the "N. Title." heading of every numbered
// paragraph.
func numberedHeadings(doc *docx.Document) []string {
	var out []string
	for _, text := range texts(doc) {
		if numberedPrefix.MatchString(text) {
			out = append(out, clauseHeadingOf(text))
		}
	}
	return out
}
