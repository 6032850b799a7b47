package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolOf(t *testing.T, v *bool) bool {
	t.Helper()
	require.NotNil(t, v)
	return *v
}

func TestComposeHeadingRuns(t *testing.T) {
	doc := buildDoc(t, "",
		p("", r("4. ", `<w:rFonts w:ascii="Georgia" w:hAnsi="Georgia"/>`, italic, `<w:sz w:val="24"/>`), r("Fees", bold)),
		p(""),
	)
	ref := doc.Paragraph(0).Runs()[0]
	target := doc.Paragraph(1)

	number, heading, period := ComposeHeadingRuns(target,
		HeadingParts{Number: "XXX. ", Heading: "Audit", Period: ". "}, ref, Profile{Bold: true, Underline: true})

	assert.Equal(t, "XXX. Audit. ", target.Text())

	assert.True(t, boolOf(t, number.Bold()))
	assert.False(t, boolOf(t, number.Italic()))
	assert.False(t, boolOf(t, number.Underline()))

	// ref is explicitly italic and says nothing about bold or underline
	assert.True(t, boolOf(t, heading.Bold()))
	assert.True(t, boolOf(t, heading.Italic()))
	assert.True(t, boolOf(t, heading.Underline()))

	assert.False(t, boolOf(t, period.Bold()))
	assert.False(t, boolOf(t, period.Italic()))

	for _, run := range target.Runs() {
		assert.Equal(t, "Georgia", run.FontName())
		assert.Equal(t, "24", run.FontSize())
		assert.Empty(t, run.Color())
	}
}

func TestComposeHeadingRuns_NoReference(t *testing.T) {
	doc := buildDoc(t, "", p(""))
	target := doc.Paragraph(0)

	_, heading, _ := ComposeHeadingRuns(target, HeadingParts{Heading: "Residuals", Period: ". "}, nil, Profile{Italic: true})

	assert.Equal(t, "Residuals. ", target.Text())
	assert.False(t, boolOf(t, heading.Bold()))
	assert.True(t, boolOf(t, heading.Italic()))
	assert.False(t, boolOf(t, heading.Underline()))
	assert.Empty(t, heading.FontName())
}

func TestComposeQuotedHeading(t *testing.T) {
	tests := []struct {
		name     string
		quotes   QuotePair
		style    Profile
		wantText string
		wantRuns int
	}{
		{"curly", CurlyQuotes, Profile{Bold: true, Quotes: true}, "“Affiliate” means an affiliate.", 4},
		{"straight", StraightQuotes, Profile{Bold: true, Quotes: true}, `"Affiliate" means an affiliate.`, 4},
		{"unquoted", CurlyQuotes, Profile{Underline: true}, "Affiliate means an affiliate.", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t, "", p(""))
			target := doc.Paragraph(0)

			ComposeQuotedHeading(target, tt.quotes, "Affiliate", "means an affiliate.", tt.style)

			assert.Equal(t, tt.wantText, target.Text())
			runs := target.Runs()
			require.Len(t, runs, tt.wantRuns)

			heading := runs[0]
			if tt.style.Quotes {
				heading = runs[1]
				assert.Nil(t, runs[0].Bold())
				assert.Nil(t, runs[2].Bold())
			}
			assert.Equal(t, "Affiliate", heading.Text())
			assert.Equal(t, tt.style.Bold, boolOf(t, heading.Bold()))
			assert.Equal(t, tt.style.Underline, boolOf(t, heading.Underline()))
			assert.Nil(t, runs[len(runs)-1].Bold(), "body is unstyled")
		})
	}
}

func TestCopyListNumbering(t *testing.T) {
	doc := buildDoc(t, "",
		definition("Term", "means a term."),
		p(`<w:numPr><w:numId w:val="2"/></w:numPr>`, r("level missing")),
		p("", r("target")),
		p(numPr("9", "0"), r("already numbered")),
	)
	paras := doc.Paragraphs()

	assert.True(t, CopyListNumbering(paras[2], paras[0]))
	numID, ilvl := paras[2].NumberingProps()
	assert.Equal(t, "3", numID)
	assert.Equal(t, "1", ilvl)

	assert.True(t, CopyListNumbering(paras[3], paras[0]), "existing numbering is replaced")
	numID, ilvl = paras[3].NumberingProps()
	assert.Equal(t, "3", numID)
	assert.Equal(t, "1", ilvl)
	assert.Len(t, paras[3].Node().Find("w:numPr"), 1)

	fresh := doc.AddParagraph()
	assert.False(t, CopyListNumbering(fresh, paras[1]), "template without a level")
	assert.False(t, CopyListNumbering(fresh, nil))
	numID, _ = fresh.NumberingProps()
	assert.Empty(t, numID)
}
