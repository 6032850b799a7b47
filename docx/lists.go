package docx

import (
	"strconv"
	"strings"
)

// ListType represents the type of list.
type ListType int

const (
	ListTypeUnordered ListType = iota // Bullet list
	ListTypeOrdered                   // Numbered list
)

// LevelFormat describes how one level of a numbering definition renders.
type LevelFormat struct {
	Type    ListType
	NumFmt  string // decimal, lowerLetter, upperRoman, bullet, ...
	LvlText string // e.g. "%1.", "%1.%2."
	Bullet  string // bullet character for unordered levels
	StartAt int
}

// NumberingResolver resolves numbering definitions from numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]string          // numId -> abstractNumId
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
	}

	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}

	for _, num := range numbering.Nums {
		nr.numMappings[num.NumID] = num.AbstractNumID.Val
	}

	return nr
}

// Defined reports whether numID refers to a numbering instance in
// numbering.xml.
func (nr *NumberingResolver) Defined(numID string) bool {
	_, ok := nr.numMappings[numID]
	return ok
}

// ResolveLevel returns the format info for a given numId and level.
func (nr *NumberingResolver) ResolveLevel(numID string, level int) LevelFormat {
	// Default to bullet list
	lf := LevelFormat{
		Type:    ListTypeUnordered,
		Bullet:  "•",
		StartAt: 1,
	}

	if numID == "" {
		return lf
	}

	abstractID, ok := nr.numMappings[numID]
	if !ok {
		return lf
	}

	abstractNum, ok := nr.abstractNums[abstractID]
	if !ok {
		return lf
	}

	levelStr := strconv.Itoa(level)
	for _, lvl := range abstractNum.Levels {
		if lvl.ILvl != levelStr {
			continue
		}
		lf.NumFmt = lvl.NumFmt.Val
		lf.LvlText = lvl.LvlText.Val
		switch lvl.NumFmt.Val {
		case "decimal", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman":
			lf.Type = ListTypeOrdered
			lf.Bullet = ""
		case "bullet":
			lf.Bullet = getBulletChar(lvl.LvlText.Val, level)
		default:
			lf.NumFmt = "bullet"
		}

		if lvl.Start.Val != "" {
			if s, err := strconv.Atoi(lvl.Start.Val); err == nil {
				lf.StartAt = s
			}
		}
		return lf
	}

	return lf
}

// IsListParagraph returns true if the paragraph has numbering properties.
// numId 0 explicitly removes numbering.
func (nr *NumberingResolver) IsListParagraph(numID, ilvl string) bool {
	return numID != "" && numID != "0"
}

// getBulletChar returns the appropriate bullet character for the level.
func getBulletChar(lvlText string, level int) string {
	bullets := []string{"•", "○", "■", "□", "▪", "▫", "►", "◦"}

	if lvlText != "" && !strings.Contains(lvlText, "%") && isRenderableBullet(lvlText) {
		return lvlText
	}

	if level >= 0 && level < len(bullets) {
		return bullets[level]
	}
	return "•"
}

// isRenderableBullet checks if a bullet character will render properly.
// Returns false for Private Use Area characters that require special fonts.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		// Word commonly uses U+F0xx for Symbol/Wingdings characters
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}

// Labeler computes the labels a viewer would render for list paragraphs,
// walking the document in order.
type Labeler struct {
	resolver *NumberingResolver
	counters map[string][]int // numId -> per-level counters
}

// NewLabeler creates a labeler backed by resolver.
func NewLabeler(resolver *NumberingResolver) *Labeler {
	return &Labeler{
		resolver: resolver,
		counters: make(map[string][]int),
	}
}

// Label advances the counter for p's list level and returns the rendered
// label ("3.", "(b)", "•"), or "" if p is not a list paragraph.
func (l *Labeler) Label(p *Paragraph) string {
	numID, ilvl := p.NumberingProps()
	if !l.resolver.IsListParagraph(numID, ilvl) {
		return ""
	}
	level, err := strconv.Atoi(ilvl)
	if err != nil || level < 0 || level > 8 {
		level = 0
	}

	counts := l.counters[numID]
	if counts == nil {
		counts = make([]int, 9)
		l.counters[numID] = counts
	}

	lf := l.resolver.ResolveLevel(numID, level)
	if counts[level] == 0 {
		counts[level] = lf.StartAt
	} else {
		counts[level]++
	}
	for deeper := level + 1; deeper < len(counts); deeper++ {
		counts[deeper] = 0
	}

	if lf.Type == ListTypeUnordered {
		return lf.Bullet
	}

	text := lf.LvlText
	if text == "" {
		text = "%" + strconv.Itoa(level+1) + "."
	}
	for k := 0; k <= level; k++ {
		n := counts[k]
		if n == 0 {
			n = l.resolver.ResolveLevel(numID, k).StartAt
		}
		fmtName := l.resolver.ResolveLevel(numID, k).NumFmt
		text = strings.ReplaceAll(text, "%"+strconv.Itoa(k+1), formatNumber(n, fmtName))
	}
	return text
}

// formatNumber renders n in an ST_NumberFormat.
func formatNumber(n int, numFmt string) string {
	switch numFmt {
	case "lowerLetter":
		return strings.ToLower(letters(n))
	case "upperLetter":
		return letters(n)
	case "lowerRoman":
		return strings.ToLower(roman(n))
	case "upperRoman":
		return roman(n)
	default:
		return strconv.Itoa(n)
	}
}

// letters renders 1 → A, 26 → Z, 27 → AA, as Word does.
func letters(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	ch := string(rune('A' + (n-1)%26))
	return strings.Repeat(ch, (n-1)/26+1)
}

func roman(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	vals := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syms := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var sb strings.Builder
	for i, v := range vals {
		for n >= v {
			sb.WriteString(syms[i])
			n -= v
		}
	}
	return sb.String()
}
