// Package docx provides a small read/modify/write model of DOCX (Office Open
// XML) documents: paragraphs, runs, styles and list numbering.
//
// Only word/document.xml is rewritten on save. Every other part of the
// package is written back byte-for-byte, and markup inside document.xml that
// this package does not model is preserved as-is.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sort"
	"strings"
	"time"
)

// XML namespaces used in DOCX files
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsCT = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPR = "http://schemas.openxmlformats.org/package/2006/relationships"
)

const (
	partContentTypes = "[Content_Types].xml"
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partCoreProps    = "docProps/core.xml"
)

var (
	// ErrMissingPart indicates a required package part is absent.
	ErrMissingPart = errors.New("docx: missing required part")

	// ErrNoBody indicates word/document.xml has no <w:body>.
	ErrNoBody = errors.New("docx: document has no body")
)

// part is one file of the OPC package.
type part struct {
	name     string
	data     []byte
	method   uint16
	modified time.Time
}

// Document is an editable DOCX document.
type Document struct {
	parts     []*part
	tree      *Node // word/document.xml
	body      *Node
	styles    *StyleResolver
	numbering *NumberingResolver
	coreProps *corePropertiesXML
}

// Open opens a DOCX file and loads it fully into memory. The file is not
// kept open.
func Open(filename string) (*Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return load(zr.File)
}

// OpenReader loads a DOCX package from r.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return load(zr.File)
}

// New returns an empty document with a minimal package.
func New() *Document {
	doc, err := FromParts(map[string][]byte{
		partDocument: []byte(xml.Header + `<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `"><w:body></w:body></w:document>`),
	})
	if err != nil {
		panic(err) // the built-in package is well formed
	}
	return doc
}

// FromParts builds a document from raw part contents keyed by part name.
// [Content_Types].xml and the package relationships are synthesized when
// absent. This is mostly useful for tests and generated documents.
func FromParts(files map[string][]byte) (*Document, error) {
	files = maps.Clone(files)
	names := []string{partContentTypes, "_rels/.rels", "word/_rels/document.xml.rels", partDocument, partStyles, partNumbering}
	if _, ok := files[partContentTypes]; !ok {
		files[partContentTypes] = defaultContentTypes(files)
	}
	if _, ok := files["_rels/.rels"]; !ok {
		files["_rels/.rels"] = []byte(xml.Header + `<Relationships xmlns="` + nsPR + `"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`)
	}
	if _, ok := files["word/_rels/document.xml.rels"]; !ok {
		files["word/_rels/document.xml.rels"] = defaultDocumentRels(files)
	}

	seen := make(map[string]bool)
	var parts []*part
	add := func(name string) {
		if data, ok := files[name]; ok && !seen[name] {
			seen[name] = true
			parts = append(parts, &part{name: name, data: data, method: zip.Deflate})
		}
	}
	for _, name := range names {
		add(name)
	}
	rest := make([]string, 0, len(files))
	for name := range files {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		add(name)
	}
	return fromParts(parts)
}

func defaultContentTypes(files map[string][]byte) []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header + `<Types xmlns="` + nsCT + `">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	if _, ok := files[partStyles]; ok {
		sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	}
	if _, ok := files[partNumbering]; ok {
		sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	}
	sb.WriteString(`</Types>`)
	return []byte(sb.String())
}

func defaultDocumentRels(files map[string][]byte) []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header + `<Relationships xmlns="` + nsPR + `">`)
	if _, ok := files[partStyles]; ok {
		sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	}
	if _, ok := files[partNumbering]; ok {
		sb.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	}
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}

// load reads every archive member into memory.
func load(files []*zip.File) (*Document, error) {
	parts := make([]*part, 0, len(files))
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		parts = append(parts, &part{
			name:     f.Name,
			data:     data,
			method:   f.Method,
			modified: f.Modified,
		})
	}
	return fromParts(parts)
}

func fromParts(parts []*part) (*Document, error) {
	d := &Document{parts: parts}

	if err := d.validate(); err != nil {
		return nil, err
	}

	if err := d.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Styles and numbering are optional; a document without them still edits.
	d.styles = NewStyleResolver(d.parseStyles())
	d.numbering = NewNumberingResolver(d.parseNumbering())
	d.parseCoreProperties()

	return d, nil
}

// validate checks that required DOCX parts exist.
func (d *Document) validate() error {
	required := []string{
		partContentTypes,
		partDocument,
	}

	for _, name := range required {
		if d.part(name) == nil {
			return fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}

	return nil
}

func (d *Document) part(name string) *part {
	for _, p := range d.parts {
		if p.name == name {
			return p
		}
	}
	return nil
}

// parseDocument parses the main document content into an editable tree.
func (d *Document) parseDocument() error {
	tree, err := ParseXML(d.part(partDocument).data)
	if err != nil {
		return err
	}
	root := tree.Root()
	if !root.Is("w:document") {
		return fmt.Errorf("unexpected root element in %s", partDocument)
	}
	body := root.Child("w:body")
	if body == nil {
		return ErrNoBody
	}
	d.tree = tree
	d.body = body
	return nil
}

// parseStyles parses the styles definition part.
func (d *Document) parseStyles() *stylesXML {
	p := d.part(partStyles)
	if p == nil {
		return nil
	}
	styles := &stylesXML{}
	if err := xml.Unmarshal(p.data, styles); err != nil {
		return nil
	}
	return styles
}

// parseNumbering parses the numbering definitions part.
func (d *Document) parseNumbering() *numberingXML {
	p := d.part(partNumbering)
	if p == nil {
		return nil
	}
	numbering := &numberingXML{}
	if err := xml.Unmarshal(p.data, numbering); err != nil {
		return nil
	}
	return numbering
}

// parseCoreProperties parses Dublin Core metadata.
func (d *Document) parseCoreProperties() {
	p := d.part(partCoreProps)
	if p == nil {
		return
	}
	props := &corePropertiesXML{}
	if err := xml.Unmarshal(p.data, props); err == nil {
		d.coreProps = props
	}
}

// Title returns the document title from the core properties, if any.
func (d *Document) Title() string {
	if d.coreProps == nil {
		return ""
	}
	return strings.TrimSpace(d.coreProps.Title)
}

// Styles returns the document's style resolver.
func (d *Document) Styles() *StyleResolver {
	return d.styles
}

// Numbering returns the document's numbering resolver.
func (d *Document) Numbering() *NumberingResolver {
	return d.numbering
}

// Paragraphs returns the body-level paragraphs in document order. The slice
// is rebuilt on every call, so positions are always current.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, c := range d.body.Children {
		if c.Is("w:p") {
			paras = append(paras, &Paragraph{node: c, doc: d})
		}
	}
	return paras
}

// Paragraph returns the paragraph at index i, or nil when out of range.
func (d *Document) Paragraph(i int) *Paragraph {
	if i < 0 {
		return nil
	}
	for _, c := range d.body.Children {
		if c.Is("w:p") {
			if i == 0 {
				return &Paragraph{node: c, doc: d}
			}
			i--
		}
	}
	return nil
}

// IndexOf resolves the current position of p, or -1 if p is no longer part
// of the document body.
func (d *Document) IndexOf(p *Paragraph) int {
	i := 0
	for _, c := range d.body.Children {
		if c.Is("w:p") {
			if c == p.node {
				return i
			}
			i++
		}
	}
	return -1
}

// InsertParagraphBefore inserts an empty paragraph immediately before p.
func (d *Document) InsertParagraphBefore(p *Paragraph) *Paragraph {
	n := NewElement("w:p")
	p.node.Parent.InsertBefore(n, p.node)
	return &Paragraph{node: n, doc: d}
}

// InsertParagraphAfter inserts an empty paragraph immediately after p.
func (d *Document) InsertParagraphAfter(p *Paragraph) *Paragraph {
	n := NewElement("w:p")
	p.node.Parent.InsertAfter(n, p.node)
	return &Paragraph{node: n, doc: d}
}

// AddParagraph appends an empty paragraph to the body, keeping the final
// section properties last.
func (d *Document) AddParagraph() *Paragraph {
	n := NewElement("w:p")
	var sectPr *Node
	for i := len(d.body.Children) - 1; i >= 0; i-- {
		c := d.body.Children[i]
		if c.Kind != ElementNode {
			continue
		}
		if c.Is("w:sectPr") {
			sectPr = c
		}
		break
	}
	if sectPr != nil {
		d.body.InsertBefore(n, sectPr)
	} else {
		d.body.Append(n)
	}
	return &Paragraph{node: n, doc: d}
}

// Save writes the document to filename.
func (d *Document) Save(filename string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// Write serializes the document as a DOCX package.
func (d *Document) Write(w io.Writer) error {
	docXML, err := d.tree.Bytes()
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}

	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if p.name == partDocument {
			data = docXML
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   p.method,
			Modified: p.modified,
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	return zw.Close()
}
