package rider

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tsawler/rider/clause"
	"github.com/tsawler/rider/docx"
	"github.com/tsawler/rider/format"
	"github.com/tsawler/rider/plan"
	"github.com/tsawler/rider/preview"
)

// ErrNoSource is returned by Save for a Contract built from a document.
var ErrNoSource = errors.New("rider: contract has no source file")

// Contract is a contract document and the edits applied to it so far.
// A Contract is not safe for concurrent use.
type Contract struct {
	// Source
	filename string
	doc      *docx.Document

	// Configuration
	options Options

	// Accumulated error (fail-fast)
	err error

	// Paragraphs written by edits, for preview highlighting
	changed []*docx.Paragraph
	edits   int
}

// ensureDocument loads the document if not already loaded.
func (c *Contract) ensureDocument() error {
	if c.doc != nil {
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	if !c.options.skipFormatCheck {
		if err := format.Check(c.filename); err != nil {
			return err
		}
	}
	doc, err := docx.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open DOCX: %w", err)
	}
	c.doc = doc
	c.options.logger.Debug("opened contract",
		zap.String("file", c.filename),
		zap.Int("paragraphs", len(doc.Paragraphs())))
	return nil
}

// edit runs fn against the document unless an earlier step failed.
func (c *Contract) edit(name string, fn func(*docx.Document) (*docx.Paragraph, error)) *Contract {
	if c.err != nil {
		return c
	}
	if err := c.ensureDocument(); err != nil {
		c.err = err
		return c
	}
	p, err := fn(c.doc)
	if err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		return c
	}
	c.edits++
	if p != nil {
		c.changed = append(c.changed, p)
	}
	return c
}

// ============================================================================
// Configuration Methods
// ============================================================================

// WithLogger sets the logger edits report to. A nil logger disables logging.
func (c *Contract) WithLogger(l *zap.Logger) *Contract {
	if l == nil {
		l = zap.NewNop()
	}
	c.options.logger = l
	return c
}

// SkipFormatCheck opens the file as a Word package without first sniffing
// its content.
func (c *Contract) SkipFormatCheck() *Contract {
	c.options.skipFormatCheck = true
	return c
}

// ============================================================================
// Edits
// ============================================================================

// InsertDefinition adds a numbered definition to the section headed
// section, styled and quoted like the section's existing definitions. With
// after empty it becomes the section's first definition; otherwise it goes
// immediately after the definition whose heading starts with after.
func (c *Contract) InsertDefinition(section, heading, body, after string) *Contract {
	return c.edit("insert definition "+quote(heading), func(doc *docx.Document) (*docx.Paragraph, error) {
		return clause.InsertNumberedClauseAfterHeading(doc, section, heading, body, after, c.options.clauseOptions()...)
	})
}

// InsertClauseAfter adds a top-level numbered clause after the clause whose
// heading is anchor, then renumbers all top-level clauses.
func (c *Contract) InsertClauseAfter(anchor, heading, body string) *Contract {
	return c.edit("insert clause "+quote(heading), func(doc *docx.Document) (*docx.Paragraph, error) {
		return clause.InsertClauseAfterClause(doc, anchor, heading, body, c.options.clauseOptions()...)
	})
}

// InsertClauseBefore adds a top-level numbered clause before the clause
// whose heading is anchor, then renumbers all top-level clauses.
func (c *Contract) InsertClauseBefore(anchor, heading, body string) *Contract {
	return c.edit("insert clause "+quote(heading), func(doc *docx.Document) (*docx.Paragraph, error) {
		return clause.InsertClauseBeforeClause(doc, anchor, heading, body, c.options.clauseOptions()...)
	})
}

// InsertSentence adds sentence to the first paragraph starting with
// startsWith, at sentence position index. An index of -1 appends.
func (c *Contract) InsertSentence(startsWith, sentence string, index int) *Contract {
	return c.edit("insert sentence", func(doc *docx.Document) (*docx.Paragraph, error) {
		return clause.InsertSentence(doc, startsWith, sentence, index, c.options.clauseOptions()...)
	})
}

// Renumber rewrites the numbers of all top-level clauses to run 1, 2, 3, ...
func (c *Contract) Renumber() *Contract {
	return c.edit("renumber", func(doc *docx.Document) (*docx.Paragraph, error) {
		n := clause.RenumberTopLevelClauses(doc)
		c.options.logger.Info("renumbered clauses", zap.Int("count", n))
		return nil, nil
	})
}

// Apply runs one plan edit.
func (c *Contract) Apply(e plan.Edit) *Contract {
	if c.err != nil {
		return c
	}
	if err := e.Validate(); err != nil {
		c.err = err
		return c
	}
	switch e.Op {
	case plan.OpInsertDefinition:
		return c.InsertDefinition(e.Section, e.Heading, e.Body, e.After)
	case plan.OpInsertClauseAfter:
		return c.InsertClauseAfter(e.Anchor, e.Heading, e.Body)
	case plan.OpInsertClauseBefore:
		return c.InsertClauseBefore(e.Anchor, e.Heading, e.Body)
	case plan.OpInsertSentence:
		return c.InsertSentence(e.StartsWith, e.Sentence, e.Position())
	default:
		return c.Renumber()
	}
}

// ApplyAll runs edits in order, stopping at the first failure.
func (c *Contract) ApplyAll(edits []plan.Edit) *Contract {
	for i, e := range edits {
		c.Apply(e)
		if c.err != nil {
			c.err = fmt.Errorf("edit %d: %w", i+1, c.err)
			break
		}
	}
	return c
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Err returns the first error of the chain, loading the document if no
// edit has done so yet.
func (c *Contract) Err() error {
	if c.err == nil {
		c.err = c.ensureDocument()
	}
	return c.err
}

// Document returns the underlying document.
func (c *Contract) Document() (*docx.Document, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.doc, nil
}

// Edits returns the number of edits applied successfully.
func (c *Contract) Edits() int {
	return c.edits
}

// Changed returns the current indices of the paragraphs written by edits,
// in the order they were written.
func (c *Contract) Changed() []int {
	var out []int
	for _, p := range c.changed {
		if i := c.doc.IndexOf(p); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

// Outline lists the paragraphs detected as clause headings.
func (c *Contract) Outline() ([]clause.Heading, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	return clause.ListClauses(c.doc), nil
}

// Text returns the text of every body paragraph.
func (c *Contract) Text() ([]string, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	var out []string
	for _, p := range c.doc.Paragraphs() {
		out = append(out, p.Text())
	}
	return out, nil
}

// Write serializes the edited document to w.
func (c *Contract) Write(w io.Writer) error {
	if err := c.Err(); err != nil {
		return err
	}
	return c.doc.Write(w)
}

// Save overwrites the source file with the edited document.
func (c *Contract) Save() error {
	if c.filename == "" {
		return ErrNoSource
	}
	return c.SaveAs(c.filename)
}

// SaveAs writes the edited document to path, creating its directory. The
// file is written in full before it replaces anything at path.
func (c *Contract) SaveAs(path string) error {
	if err := c.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.doc.Write(&buf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	c.options.logger.Info("saved contract",
		zap.String("file", path),
		zap.Int("edits", c.edits))
	return nil
}

// Preview renders the document as HTML to w, highlighting changed
// paragraphs.
func (c *Contract) Preview(w io.Writer) error {
	if err := c.Err(); err != nil {
		return err
	}
	return preview.Render(w, c.doc, preview.Options{
		Title:     filepath.Base(c.filename),
		Highlight: c.Changed(),
	})
}

// SavePreview writes the HTML preview to path, creating its directory.
func (c *Contract) SavePreview(path string) error {
	var buf bytes.Buffer
	if err := c.Preview(&buf); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}

// writeFile writes data to a temporary file beside path and renames it
// into place.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
