package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_Basic(t *testing.T) {
	body := `<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
<w:sectPr/>`
	doc := openTestDOCX(t, body, "", "")

	paras := doc.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("Paragraphs() = %d, want 2", len(paras))
	}
	if got := paras[0].Text(); got != "Hello World" {
		t.Errorf("paras[0].Text() = %q", got)
	}
	if got := doc.Paragraph(1).Text(); got != "Second paragraph" {
		t.Errorf("Paragraph(1).Text() = %q", got)
	}
	if doc.Paragraph(2) != nil || doc.Paragraph(-1) != nil {
		t.Error("out-of-range Paragraph() should be nil")
	}
}

func TestOpen_NonExistent(t *testing.T) {
	_, err := Open("/nonexistent/path/file.docx")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpen_InvalidZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.docx")
	if err := os.WriteFile(path, []byte("not a zip file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for invalid zip")
	}
}

func TestOpen_MissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<Types/>`))
	zw.Close()

	_, err := OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if !errors.Is(err, ErrMissingPart) {
		t.Errorf("err = %v, want ErrMissingPart", err)
	}
}

func TestFromParts_NoBody(t *testing.T) {
	_, err := FromParts(map[string][]byte{
		"word/document.xml": []byte(`<w:document xmlns:w="urn:w"></w:document>`),
	})
	if !errors.Is(err, ErrNoBody) {
		t.Errorf("err = %v, want ErrNoBody", err)
	}
}

func TestFromParts_DoesNotMutateInput(t *testing.T) {
	files := map[string][]byte{
		"word/document.xml": []byte(`<w:document xmlns:w="urn:w"><w:body/></w:document>`),
	}
	if _, err := FromParts(files); err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("input map has %d entries, want 1", len(files))
	}
}

func TestNew_AddParagraph(t *testing.T) {
	doc := New()
	p := doc.AddParagraph()
	p.AddRun("first")
	doc.AddParagraph().AddRun("second")

	out := roundTrip(t, doc)
	paras := out.Paragraphs()
	if len(paras) != 2 || paras[0].Text() != "first" || paras[1].Text() != "second" {
		t.Errorf("unexpected paragraphs after round trip: %d", len(paras))
	}
}

func TestAddParagraph_KeepsSectPrLast(t *testing.T) {
	doc := openTestDOCX(t, `<w:p><w:r><w:t>a</w:t></w:r></w:p><w:sectPr><w:pgSz w:w="12240"/></w:sectPr>`, "", "")
	doc.AddParagraph().AddRun("b")

	last := doc.body.Children[len(doc.body.Children)-1]
	if !last.Is("w:sectPr") {
		t.Errorf("last body child = %s, want w:sectPr", qualified(last.Name))
	}
	if got := doc.Paragraph(1).Text(); got != "b" {
		t.Errorf("Paragraph(1) = %q, want b", got)
	}
}

func TestInsertParagraph_HandlesStayValid(t *testing.T) {
	doc := openTestDOCX(t, `<w:p><w:r><w:t>A</w:t></w:r></w:p><w:p><w:r><w:t>C</w:t></w:r></w:p>`, "", "")
	a := doc.Paragraph(0)
	c := doc.Paragraph(1)

	b := doc.InsertParagraphAfter(a)
	b.AddRun("B")
	z := doc.InsertParagraphBefore(a)
	z.AddRun("Z")

	if got := doc.IndexOf(c); got != 3 {
		t.Errorf("IndexOf(c) = %d, want 3", got)
	}
	if got := doc.IndexOf(a); got != 1 {
		t.Errorf("IndexOf(a) = %d, want 1", got)
	}

	var texts []string
	for _, p := range doc.Paragraphs() {
		texts = append(texts, p.Text())
	}
	if got := strings.Join(texts, ""); got != "ZABC" {
		t.Errorf("order = %s, want ZABC", got)
	}

	detached := &Paragraph{node: NewElement("w:p"), doc: doc}
	if doc.IndexOf(detached) != -1 {
		t.Error("IndexOf(detached) should be -1")
	}
}

func TestParagraphs_SkipsTables(t *testing.T) {
	body := `<w:p><w:r><w:t>before</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>after</w:t></w:r></w:p>`
	doc := openTestDOCX(t, body, "", "")

	paras := doc.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("Paragraphs() = %d, want 2", len(paras))
	}
	if paras[1].Text() != "after" {
		t.Errorf("paras[1] = %q", paras[1].Text())
	}
}

func TestWrite_PreservesOtherParts(t *testing.T) {
	styles := `<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>`
	path := createTestDOCX(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`, styles, "")

	doc, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	doc.Paragraph(0).AddRun("y")

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	before := readPart(t, path, "word/styles.xml")
	after := readPart(t, out, "word/styles.xml")
	if !bytes.Equal(before, after) {
		t.Error("styles.xml changed on save")
	}

	saved, err := Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := saved.Paragraph(0).Text(); got != "xy" {
		t.Errorf("saved text = %q, want xy", got)
	}

	// Part order is kept.
	if names := partNames(t, path); strings.Join(names, "|") != strings.Join(partNames(t, out), "|") {
		t.Errorf("part order changed: %v", names)
	}
}

func TestWrite_PreservesUnknownMarkup(t *testing.T) {
	body := `<w:p><w:bookmarkStart w:id="0" w:name="x"/><w:r><w:t>keep</w:t></w:r><w:bookmarkEnd w:id="0"/></w:p>`
	doc := openTestDOCX(t, body, "", "")
	out := roundTrip(t, doc)

	if !out.Paragraph(0).HasMarkup("w:bookmarkStart") {
		t.Error("bookmark lost on round trip")
	}
}

func TestTitle(t *testing.T) {
	doc, err := FromParts(map[string][]byte{
		"word/document.xml": []byte(`<w:document xmlns:w="urn:w"><w:body/></w:document>`),
		"docProps/core.xml": []byte(`<cp:coreProperties xmlns:cp="urn:cp" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title> Master Services Agreement </dc:title></cp:coreProperties>`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Title(); got != "Master Services Agreement" {
		t.Errorf("Title() = %q", got)
	}
	if New().Title() != "" {
		t.Error("New().Title() should be empty")
	}
}

func readPart(t *testing.T, path, name string) []byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}
			return data
		}
	}
	t.Fatalf("part %s not found", name)
	return nil
}

func partNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}
