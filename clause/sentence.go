package clause

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/rider/docx"
)

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences splits text after every '.', '!' or '?' that is followed by
// whitespace. The punctuation stays with its sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	var sentences []string
	prev := 0
	for _, m := range sentenceEnd.FindAllStringSubmatchIndex(text, -1) {
		sentences = append(sentences, text[prev:m[3]])
		prev = m[1]
	}
	if rest := strings.TrimSpace(text[prev:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// prefixKey prepares a sentence prefix for matching. A trailing ellipsis
// only marks the prefix as abbreviated and is dropped.
func prefixKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "...")
	s = strings.TrimSuffix(s, "…")
	return normalizeCase(s)
}

func normalizeCase(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// findParagraphStartingWith returns the first paragraph whose trimmed text
// starts with prefix, ignoring case.
func findParagraphStartingWith(doc *docx.Document, prefix string) (*docx.Paragraph, error) {
	key := prefixKey(prefix)
	if key == "" {
		return nil, fmt.Errorf("%w: empty paragraph prefix", ErrAnchorNotFound)
	}
	for _, p := range doc.Paragraphs() {
		text := strings.TrimSpace(p.Text())
		if text != "" && strings.HasPrefix(normalizeCase(text), key) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no paragraph starts with %q", ErrAnchorNotFound, prefix)
}

// InsertSentence inserts sentence into the first paragraph starting with
// startsWith, as sentence number index (0-based). An index of -1, or one
// past the last sentence, appends. The paragraph's runs are replaced by a
// single run holding the rejoined text, which keeps the font of the original
// first run and stays all-caps if the paragraph was.
func InsertSentence(doc *docx.Document, startsWith, sentence string, index int, opts ...Option) (*docx.Paragraph, error) {
	o := buildOptions(opts)

	p, err := findParagraphStartingWith(doc, startsWith)
	if err != nil {
		return nil, err
	}

	sentences := SplitSentences(p.Text())
	sentence = strings.TrimSpace(sentence)
	if index < 0 || index >= len(sentences) {
		sentences = append(sentences, sentence)
	} else {
		sentences = slices.Insert(sentences, index, sentence)
	}

	var ref *docx.Run
	for _, r := range p.Runs() {
		if strings.TrimSpace(r.Text()) != "" {
			ref = r
			break
		}
	}
	caps := wasAllCaps(p)

	p.RemoveRuns()
	r := p.AddRun(strings.Join(sentences, " "))
	copyFont(r, ref)
	if caps {
		r.SetAllCaps(true)
	}

	o.logger.Info("inserted sentence",
		zap.String("starts_with", startsWith),
		zap.Int("index", doc.IndexOf(p)),
		zap.Int("position", index),
		zap.Int("sentences", len(sentences)))
	return p, nil
}

// wasAllCaps reports whether every non-blank run of p is all-caps, either
// by formatting or by its text.
func wasAllCaps(p *docx.Paragraph) bool {
	seen := false
	for _, r := range p.Runs() {
		text := r.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		seen = true
		if c := r.AllCaps(); c != nil && *c {
			continue
		}
		if !isUpper(text) {
			return false
		}
	}
	return seen
}

// isUpper reports whether s has at least one cased letter and no lower-case
// ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}
