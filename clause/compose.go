package clause

import (
	"github.com/tsawler/rider/docx"
)

// HeadingParts is a numbered heading split into the runs it is written as:
// "11. " + "Residuals" + ". ".
type HeadingParts struct {
	Number  string
	Heading string
	Period  string
}

// copyFont copies the font name, size and color of src onto dst. Each
// attribute is copied only when src sets it.
func copyFont(dst, src *docx.Run) {
	if src == nil {
		return
	}
	if name := src.FontName(); name != "" {
		dst.SetFontName(name)
	}
	if size := src.FontSize(); size != "" {
		dst.SetFontSize(size)
	}
	if color := src.Color(); color != "" {
		dst.SetColor(color)
	}
}

func setEmphasis(r *docx.Run, bold, italic, underline bool) {
	r.SetBold(bold)
	r.SetItalic(italic)
	r.SetUnderline(underline)
}

// pick returns the explicit value v when set, otherwise fallback.
func pick(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

// ComposeHeadingRuns appends the number, heading and period runs of a
// numbered heading to p. The number is bold; the heading takes ref's
// explicit bold, italic and underline, falling back to profile; the period
// is plain. All three carry ref's font.
func ComposeHeadingRuns(p *docx.Paragraph, parts HeadingParts, ref *docx.Run, profile Profile) (number, heading, period *docx.Run) {
	number = p.AddRun(parts.Number)
	copyFont(number, ref)
	setEmphasis(number, true, false, false)

	bold, italic, underline := profile.Bold, profile.Italic, profile.Underline
	if ref != nil {
		bold = pick(ref.Bold(), bold)
		italic = pick(ref.Italic(), italic)
		underline = pick(ref.Underline(), underline)
	}
	heading = p.AddRun(parts.Heading)
	copyFont(heading, ref)
	setEmphasis(heading, bold, italic, underline)

	period = p.AddRun(parts.Period)
	copyFont(period, ref)
	setEmphasis(period, false, false, false)

	return number, heading, period
}

// composeBody appends a plain body run carrying ref's font.
func composeBody(p *docx.Paragraph, body string, ref *docx.Run) *docx.Run {
	r := p.AddRun(body)
	copyFont(r, ref)
	setEmphasis(r, false, false, false)
	return r
}

// ComposeQuotedHeading appends a defined-term heading and its body to p.
// When style uses quotes the heading run is flanked by unstyled open and
// close quote runs; the body follows after a single space.
func ComposeQuotedHeading(p *docx.Paragraph, quotes QuotePair, heading, body string, style Profile) {
	if style.Quotes {
		p.AddRun(quotes.Open)
	}
	r := p.AddRun(heading)
	setEmphasis(r, style.Bold, style.Italic, style.Underline)
	if style.Quotes {
		p.AddRun(quotes.Close)
	}
	p.AddRun(" " + body)
}
