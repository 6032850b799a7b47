// Package preview renders a contract as a standalone HTML page so edits can
// be reviewed without opening Word. Run emphasis is shown as it resolves
// through the style chain, list paragraphs carry their computed labels, and
// chosen paragraphs are highlighted.
package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/rider/docx"
)

// Options controls rendering.
type Options struct {
	// Title is used for <title>; the document title when empty.
	Title string

	// Highlight lists paragraph indices to mark as changed.
	Highlight []int
}

const stylesheet = `body{font-family:Georgia,serif;max-width:48em;margin:2em auto;line-height:1.5}
p{margin:0 0 .6em}
.label{display:inline-block;min-width:2.5em}
.changed{background:#fff4c2;outline:1px solid #e0c050}
.caps{text-transform:uppercase}`

// Render writes doc as an HTML page to w.
func Render(w io.Writer, doc *docx.Document, opts Options) error {
	title := opts.Title
	if title == "" {
		title = doc.Title()
	}
	if title == "" {
		title = "Contract preview"
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	page := element(atom.Html)
	root.AppendChild(page)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	titleEl := element(atom.Title)
	titleEl.AppendChild(text(title))
	head.AppendChild(titleEl)
	style := element(atom.Style)
	style.AppendChild(text(stylesheet))
	head.AppendChild(style)
	page.AppendChild(head)

	body := element(atom.Body)
	page.AppendChild(body)
	article := element(atom.Article)
	body.AppendChild(article)

	highlight := make(map[int]bool, len(opts.Highlight))
	for _, i := range opts.Highlight {
		highlight[i] = true
	}

	labeler := docx.NewLabeler(doc.Numbering())
	for i, p := range doc.Paragraphs() {
		article.AppendChild(paragraph(doc, p, labeler.Label(p), highlight[i]))
	}

	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	return nil
}

// String renders doc and returns the page.
func String(doc *docx.Document, opts Options) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, doc, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func paragraph(doc *docx.Document, p *docx.Paragraph, label string, changed bool) *html.Node {
	el := element(atom.P)

	var css []string
	switch p.Alignment() {
	case "center":
		css = append(css, "text-align:center")
	case "right", "end":
		css = append(css, "text-align:right")
	case "both", "distribute":
		css = append(css, "text-align:justify")
	}
	if left := twipsToPoints(p.Indent().Left); left > 0 {
		css = append(css, "margin-left:"+strconv.FormatFloat(left, 'f', -1, 64)+"pt")
	}
	if len(css) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "style", Val: strings.Join(css, ";")})
	}
	if changed {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: "changed"})
	}

	if label != "" {
		span := element(atom.Span, html.Attribute{Key: "class", Val: "label"})
		span.AppendChild(text(label))
		el.AppendChild(span)
	}

	styleID := p.StyleID()
	for _, r := range p.Runs() {
		if t := r.Text(); t != "" {
			el.AppendChild(run(doc.Styles().ResolveRun(styleID, r), t))
		}
	}
	return el
}

// run wraps t in the emphasis elements rs calls for, innermost last.
func run(rs *docx.ResolvedStyle, t string) *html.Node {
	node := text(t)
	if rs.AllCaps {
		span := element(atom.Span, html.Attribute{Key: "class", Val: "caps"})
		span.AppendChild(node)
		node = span
	}
	for _, w := range []struct {
		on bool
		a  atom.Atom
	}{
		{rs.Underline, atom.U},
		{rs.Italic, atom.Em},
		{rs.Bold, atom.Strong},
	} {
		if w.on {
			outer := element(w.a)
			outer.AppendChild(node)
			node = outer
		}
	}
	return node
}

func twipsToPoints(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / 20
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
