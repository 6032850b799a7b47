package docx

import "strings"

// pPrOrder is the CT_PPr child sequence. New paragraph properties are
// inserted at their schema position so Word accepts the result.
var pPrOrder = []string{
	"w:pStyle", "w:keepNext", "w:keepLines", "w:pageBreakBefore", "w:framePr",
	"w:widowControl", "w:numPr", "w:suppressLineNumbers", "w:pBdr", "w:shd",
	"w:tabs", "w:suppressAutoHyphens", "w:kinsoku", "w:wordWrap",
	"w:overflowPunct", "w:topLinePunct", "w:autoSpaceDE", "w:autoSpaceDN",
	"w:bidi", "w:adjustRightInd", "w:snapToGrid", "w:spacing", "w:ind",
	"w:contextualSpacing", "w:mirrorIndents", "w:suppressOverlap", "w:jc",
	"w:textDirection", "w:textAlignment", "w:textboxTightWrap",
	"w:outlineLvl", "w:divId", "w:cnfStyle", "w:rPr", "w:sectPr", "w:pPrChange",
}

// Paragraph is a handle onto a <w:p> element. The handle stays valid across
// insertions; use Document.IndexOf for its current position.
type Paragraph struct {
	node *Node
	doc  *Document
}

// Indent holds paragraph indentation in twips, as written in the document.
// Empty fields are not set on the paragraph.
type Indent struct {
	Left      string
	Right     string
	FirstLine string
	Hanging   string
}

// Node exposes the underlying <w:p> element.
func (p *Paragraph) Node() *Node {
	return p.node
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Runs returns the paragraph's direct runs in order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.node.Children {
		if c.Is("w:r") {
			runs = append(runs, &Run{node: c})
		}
	}
	return runs
}

// AddRun appends a run holding text.
func (p *Paragraph) AddRun(text string) *Run {
	n := NewElement("w:r")
	p.node.Append(n)
	r := &Run{node: n}
	if text != "" {
		r.SetText(text)
	}
	return r
}

// RemoveRuns deletes every direct run, leaving paragraph properties alone.
func (p *Paragraph) RemoveRuns() {
	for _, c := range p.node.ChildrenNamed("w:r") {
		p.node.Remove(c)
	}
}

// props returns the existing <w:pPr>, or nil.
func (p *Paragraph) props() *Node {
	return p.node.Child("w:pPr")
}

// ensureProps returns <w:pPr>, creating it as the first child.
func (p *Paragraph) ensureProps() *Node {
	return p.node.ensureChild("w:pPr", []string{"w:pPr"})
}

func (p *Paragraph) propVal(name string) string {
	pPr := p.props()
	if pPr == nil {
		return ""
	}
	el := pPr.Child(name)
	if el == nil {
		return ""
	}
	v, _ := el.AttrValue("w:val")
	return v
}

func (p *Paragraph) setPropVal(name, val string) {
	if val == "" {
		if pPr := p.props(); pPr != nil {
			if el := pPr.Child(name); el != nil {
				pPr.Remove(el)
			}
		}
		return
	}
	el := p.ensureProps().ensureChild(name, pPrOrder)
	el.SetAttr("w:val", val)
}

// StyleID returns the paragraph style ID, or "" for the default style.
func (p *Paragraph) StyleID() string {
	return p.propVal("w:pStyle")
}

// SetStyleID sets the paragraph style. An empty ID removes the reference.
func (p *Paragraph) SetStyleID(id string) {
	p.setPropVal("w:pStyle", id)
}

// Alignment returns the paragraph justification (left, center, right, both).
func (p *Paragraph) Alignment() string {
	return p.propVal("w:jc")
}

// SetAlignment sets the paragraph justification. An empty value removes it.
func (p *Paragraph) SetAlignment(v string) {
	p.setPropVal("w:jc", v)
}

// Indent returns the paragraph's direct indentation.
func (p *Paragraph) Indent() Indent {
	var ind Indent
	pPr := p.props()
	if pPr == nil {
		return ind
	}
	el := pPr.Child("w:ind")
	if el == nil {
		return ind
	}
	ind.Left = firstAttr(el, "w:left", "w:start")
	ind.Right = firstAttr(el, "w:right", "w:end")
	ind.FirstLine, _ = el.AttrValue("w:firstLine")
	ind.Hanging, _ = el.AttrValue("w:hanging")
	return ind
}

// SetIndent applies the non-empty fields of ind. Fields left empty keep
// whatever the paragraph already has.
func (p *Paragraph) SetIndent(ind Indent) {
	if ind == (Indent{}) {
		return
	}
	el := p.ensureProps().ensureChild("w:ind", pPrOrder)
	if ind.Left != "" {
		el.SetAttr("w:left", ind.Left)
	}
	if ind.Right != "" {
		el.SetAttr("w:right", ind.Right)
	}
	if ind.FirstLine != "" {
		el.RemoveAttr("w:hanging")
		el.SetAttr("w:firstLine", ind.FirstLine)
	}
	if ind.Hanging != "" {
		el.RemoveAttr("w:firstLine")
		el.SetAttr("w:hanging", ind.Hanging)
	}
}

// NumberingProps returns the list numbering reference (numId, ilvl) of the
// paragraph. Both are empty when the paragraph is not on a list.
func (p *Paragraph) NumberingProps() (numID, ilvl string) {
	pPr := p.props()
	if pPr == nil {
		return "", ""
	}
	numPr := pPr.Child("w:numPr")
	if numPr == nil {
		return "", ""
	}
	if el := numPr.Child("w:numId"); el != nil {
		numID, _ = el.AttrValue("w:val")
	}
	if el := numPr.Child("w:ilvl"); el != nil {
		ilvl, _ = el.AttrValue("w:val")
	}
	return numID, ilvl
}

// SetNumberingProps attaches a newly built <w:numPr> to the paragraph,
// replacing any numbering reference it already had.
func (p *Paragraph) SetNumberingProps(numID, ilvl string) {
	pPr := p.ensureProps()
	for _, old := range pPr.ChildrenNamed("w:numPr") {
		pPr.Remove(old)
	}
	numPr := NewElement("w:numPr")
	numPr.Append(NewElement("w:ilvl", "w:val", ilvl))
	numPr.Append(NewElement("w:numId", "w:val", numID))
	pPr.insertOrdered(numPr, pPrOrder)
}

// HasMarkup reports whether any descendant element of the paragraph is
// called name and not switched off with w:val="0", "false" or "off",
// regardless of where it sits.
func (p *Paragraph) HasMarkup(name string) bool {
	for _, el := range p.node.Find(name) {
		if onOff(el) {
			return true
		}
	}
	return false
}

func firstAttr(n *Node, names ...string) string {
	for _, name := range names {
		if v, ok := n.AttrValue(name); ok {
			return v
		}
	}
	return ""
}
