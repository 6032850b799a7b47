package docx

import "strings"

// rPrOrder is the CT_RPr child sequence.
var rPrOrder = []string{
	"w:rStyle", "w:rFonts", "w:b", "w:bCs", "w:i", "w:iCs", "w:caps",
	"w:smallCaps", "w:strike", "w:dstrike", "w:outline", "w:shadow",
	"w:emboss", "w:imprint", "w:noProof", "w:snapToGrid", "w:vanish",
	"w:webHidden", "w:color", "w:spacing", "w:w", "w:kern", "w:position",
	"w:sz", "w:szCs", "w:highlight", "w:u", "w:effect", "w:bdr", "w:shd",
	"w:fitText", "w:vertAlign", "w:rtl", "w:cs", "w:em", "w:lang",
	"w:eastAsianLayout", "w:specVanish", "w:oMath",
}

// Run is a handle onto a <w:r> element: a span of text sharing one set of
// character properties.
type Run struct {
	node *Node
}

// Text returns the run's visible text. Tabs and breaks become "\t" and "\n".
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.node.Children {
		if c.Kind != ElementNode {
			continue
		}
		switch {
		case c.Is("w:t"):
			for _, t := range c.Children {
				if t.Kind == TextNode {
					sb.WriteString(t.Data)
				}
			}
		case c.Is("w:tab"):
			sb.WriteString("\t")
		case c.Is("w:br"), c.Is("w:cr"):
			sb.WriteString("\n")
		case c.Is("w:noBreakHyphen"):
			sb.WriteString("-")
		}
	}
	return sb.String()
}

// SetText replaces the run's content, keeping its properties.
func (r *Run) SetText(s string) {
	for i := len(r.node.Children) - 1; i >= 0; i-- {
		c := r.node.Children[i]
		if !c.Is("w:rPr") {
			r.node.Remove(c)
		}
	}

	var pending strings.Builder
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		text := pending.String()
		t := NewElement("w:t")
		if strings.TrimSpace(text) != text {
			t.SetAttr("xml:space", "preserve")
		}
		t.Append(NewText(text))
		r.node.Append(t)
		pending.Reset()
	}
	for _, ch := range s {
		switch ch {
		case '\t':
			flush()
			r.node.Append(NewElement("w:tab"))
		case '\n':
			flush()
			r.node.Append(NewElement("w:br"))
		default:
			pending.WriteRune(ch)
		}
	}
	flush()
}

func (r *Run) props() *Node {
	return r.node.Child("w:rPr")
}

func (r *Run) ensureProps() *Node {
	return r.node.ensureChild("w:rPr", []string{"w:rPr"})
}

func (r *Run) prop(name string) *Node {
	rPr := r.props()
	if rPr == nil {
		return nil
	}
	return rPr.Child(name)
}

// boolProp reads an OOXML on/off property. nil means "not set on the run".
func (r *Run) boolProp(name string) *bool {
	el := r.prop(name)
	if el == nil {
		return nil
	}
	v := onOff(el)
	return &v
}

func (r *Run) setBoolProp(name string, v bool) {
	el := r.ensureProps().ensureChild(name, rPrOrder)
	if v {
		el.RemoveAttr("w:val")
	} else {
		el.SetAttr("w:val", "0")
	}
}

func (r *Run) valProp(name string) string {
	el := r.prop(name)
	if el == nil {
		return ""
	}
	v, _ := el.AttrValue("w:val")
	return v
}

func (r *Run) setValProp(name, v string) {
	r.ensureProps().ensureChild(name, rPrOrder).SetAttr("w:val", v)
}

// onOff interprets an ST_OnOff element: present without a value means on.
func onOff(el *Node) bool {
	v, ok := el.AttrValue("w:val")
	if !ok {
		return true
	}
	switch strings.ToLower(v) {
	case "0", "false", "off":
		return false
	}
	return true
}

// Bold reports direct bold formatting; nil when inherited.
func (r *Run) Bold() *bool { return r.boolProp("w:b") }

// SetBold sets direct bold formatting.
func (r *Run) SetBold(v bool) { r.setBoolProp("w:b", v) }

// Italic reports direct italic formatting; nil when inherited.
func (r *Run) Italic() *bool { return r.boolProp("w:i") }

// SetItalic sets direct italic formatting.
func (r *Run) SetItalic(v bool) { r.setBoolProp("w:i", v) }

// AllCaps reports direct all-caps formatting; nil when inherited.
func (r *Run) AllCaps() *bool { return r.boolProp("w:caps") }

// SetAllCaps sets direct all-caps formatting.
func (r *Run) SetAllCaps(v bool) { r.setBoolProp("w:caps", v) }

// Underline reports direct underlining; nil when inherited. Any underline
// style other than "none" counts as underlined.
func (r *Run) Underline() *bool {
	el := r.prop("w:u")
	if el == nil {
		return nil
	}
	v, _ := el.AttrValue("w:val")
	on := v != "none"
	return &on
}

// SetUnderline sets single underlining on or off.
func (r *Run) SetUnderline(v bool) {
	if v {
		r.setValProp("w:u", "single")
	} else {
		r.setValProp("w:u", "none")
	}
}

// FontName returns the run's direct font, or "".
func (r *Run) FontName() string {
	el := r.prop("w:rFonts")
	if el == nil {
		return ""
	}
	return firstAttr(el, "w:ascii", "w:hAnsi")
}

// SetFontName sets the run's font for ASCII and high-ANSI text.
func (r *Run) SetFontName(name string) {
	el := r.ensureProps().ensureChild("w:rFonts", rPrOrder)
	el.SetAttr("w:ascii", name)
	el.SetAttr("w:hAnsi", name)
}

// FontSize returns the run's direct font size in half-points, or "".
func (r *Run) FontSize() string { return r.valProp("w:sz") }

// SetFontSize sets the font size in half-points.
func (r *Run) SetFontSize(halfPoints string) { r.setValProp("w:sz", halfPoints) }

// Color returns the run's direct RGB color, or "" when unset or automatic.
func (r *Run) Color() string {
	v := r.valProp("w:color")
	if strings.EqualFold(v, "auto") {
		return ""
	}
	return v
}

// SetColor sets the run's RGB color (hex, e.g. "1F3864").
func (r *Run) SetColor(hex string) { r.setValProp("w:color", hex) }

// StyleID returns the character style applied to the run, or "".
func (r *Run) StyleID() string { return r.valProp("w:rStyle") }
