package docx

import (
	"strconv"
)

// ResolvedStyle contains the fully resolved properties for a style.
type ResolvedStyle struct {
	// Identity
	ID   string
	Name string
	Type string // paragraph, character, table

	// Paragraph properties
	Alignment   string  // left, center, right, both (justify)
	IndentLeft  float64 // points
	IndentRight float64 // points
	IndentFirst float64 // points (first line indent, can be negative for hanging)

	// Run/character properties
	FontName  string
	FontSize  float64 // points
	Bold      bool
	Italic    bool
	Underline bool
	AllCaps   bool
	Color     string // hex color like "FF0000"
}

// StyleResolver resolves styles with inheritance support.
type StyleResolver struct {
	styles      map[string]*styleDefXML
	defaults    *docDefaultsXML
	resolved    map[string]*ResolvedStyle
	defaultFont string
	defaultSize float64
	defaultPara string
}

// NewStyleResolver creates a new style resolver from parsed styles. A nil
// argument yields a resolver that only knows Word's defaults.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:      make(map[string]*styleDefXML),
		resolved:    make(map[string]*ResolvedStyle),
		defaultFont: "Calibri", // Word default
		defaultSize: 11,        // Word default (11pt)
	}

	if styles == nil {
		return sr
	}

	// Build style map
	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
		if style.Type == "paragraph" && style.Default == "1" {
			sr.defaultPara = style.StyleID
		}
	}

	sr.defaults = &styles.DocDefaults
	if sr.defaults.RPrDefault.RPr.Font.ASCII != "" {
		sr.defaultFont = sr.defaults.RPrDefault.RPr.Font.ASCII
	}
	if sr.defaults.RPrDefault.RPr.FontSize.Val != "" {
		if size := parseHalfPoints(sr.defaults.RPrDefault.RPr.FontSize.Val); size > 0 {
			sr.defaultSize = size
		}
	}

	return sr
}

// Resolve returns the fully resolved style for the given style ID. An empty
// ID resolves the document's default paragraph style.
func (sr *StyleResolver) Resolve(styleID string) *ResolvedStyle {
	if styleID == "" {
		styleID = sr.defaultPara
	}
	if styleID == "" {
		return sr.defaultStyle()
	}

	if resolved, ok := sr.resolved[styleID]; ok {
		return resolved
	}

	resolved := sr.defaultStyle()
	resolved.ID = styleID

	if styleDef, ok := sr.styles[styleID]; ok {
		resolved.Name = styleDef.Name.Val
		resolved.Type = styleDef.Type

		// Apply properties from base to derived
		for _, sid := range sr.InheritanceChain(styleID) {
			if def, ok := sr.styles[sid]; ok {
				sr.applyStyleDef(resolved, def)
			}
		}
	}

	sr.resolved[styleID] = resolved
	return resolved
}

// defaultStyle returns a style with default values.
func (sr *StyleResolver) defaultStyle() *ResolvedStyle {
	rs := &ResolvedStyle{
		FontName:  sr.defaultFont,
		FontSize:  sr.defaultSize,
		Alignment: "left",
	}
	if sr.defaults != nil {
		sr.applyRunProps(rs, sr.defaults.RPrDefault.RPr)
	}
	return rs
}

// InheritanceChain returns style IDs from base to derived, following basedOn.
// Cycles are cut at the first repeated ID.
func (sr *StyleResolver) InheritanceChain(styleID string) []string {
	var chain []string
	visited := make(map[string]bool)

	current := styleID
	for current != "" && !visited[current] {
		visited[current] = true
		chain = append([]string{current}, chain...) // Prepend

		if def, ok := sr.styles[current]; ok {
			current = def.BasedOn.Val
		} else {
			break
		}
	}

	return chain
}

// applyStyleDef applies a style definition's properties to a resolved style.
func (sr *StyleResolver) applyStyleDef(resolved *ResolvedStyle, def *styleDefXML) {
	ppr := def.PPr
	if ppr.Justification.Val != "" {
		resolved.Alignment = ppr.Justification.Val
	}
	if ppr.Indent.Left != "" {
		resolved.IndentLeft = parseTwips(ppr.Indent.Left)
	}
	if ppr.Indent.Right != "" {
		resolved.IndentRight = parseTwips(ppr.Indent.Right)
	}
	if ppr.Indent.FirstLine != "" {
		resolved.IndentFirst = parseTwips(ppr.Indent.FirstLine)
	}
	if ppr.Indent.Hanging != "" {
		resolved.IndentFirst = -parseTwips(ppr.Indent.Hanging)
	}

	sr.applyRunProps(resolved, def.RPr)
}

// applyRunProps overlays the explicit run properties in rpr.
func (sr *StyleResolver) applyRunProps(resolved *ResolvedStyle, rpr runPropsXML) {
	if rpr.Font.ASCII != "" {
		resolved.FontName = rpr.Font.ASCII
	}
	if rpr.FontSize.Val != "" {
		if size := parseHalfPoints(rpr.FontSize.Val); size > 0 {
			resolved.FontSize = size
		}
	}
	if ok, on := rpr.Bold.set(); ok {
		resolved.Bold = on
	}
	if ok, on := rpr.Italic.set(); ok {
		resolved.Italic = on
	}
	if ok, on := rpr.Caps.set(); ok {
		resolved.AllCaps = on
	}
	if rpr.Underline.Val != "" {
		resolved.Underline = rpr.Underline.Val != "none"
	}
	if rpr.Color.Val != "" && rpr.Color.Val != "auto" {
		resolved.Color = rpr.Color.Val
	}
}

// ResolveRun resolves the effective character formatting of a run inside a
// paragraph of the given style: paragraph style chain, then the run's
// character style chain, then direct formatting.
func (sr *StyleResolver) ResolveRun(paragraphStyle string, r *Run) *ResolvedStyle {
	base := *sr.Resolve(paragraphStyle)
	resolved := &base

	if cs := r.StyleID(); cs != "" {
		for _, sid := range sr.InheritanceChain(cs) {
			if def, ok := sr.styles[sid]; ok {
				sr.applyRunProps(resolved, def.RPr)
			}
		}
	}

	if v := r.Bold(); v != nil {
		resolved.Bold = *v
	}
	if v := r.Italic(); v != nil {
		resolved.Italic = *v
	}
	if v := r.Underline(); v != nil {
		resolved.Underline = *v
	}
	if v := r.AllCaps(); v != nil {
		resolved.AllCaps = *v
	}
	if name := r.FontName(); name != "" {
		resolved.FontName = name
	}
	if size := parseHalfPoints(r.FontSize()); size > 0 {
		resolved.FontSize = size
	}
	if c := r.Color(); c != "" {
		resolved.Color = c
	}

	return resolved
}

// parseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func parseHalfPoints(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 2
}

// parseTwips parses a size in twips to points.
// 1 point = 20 twips.
func parseTwips(s string) float64 {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val / 20
}
