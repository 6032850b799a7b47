package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`

// createTestDOCX writes a DOCX with the given body, styles and numbering
// content to a temporary file. styles and numbering may be empty.
func createTestDOCX(t *testing.T, bodyXML, stylesXML, numberingXML string) string {
	t.Helper()

	tmpDir := t.TempDir()
	docxPath := filepath.Join(tmpDir, "test.docx")

	f, err := os.Create(docxPath)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	zw := zip.NewWriter(f)

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(contentTypes))

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
	w, _ = zw.Create("_rels/.rels")
	w.Write([]byte(rels))

	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(testDocumentHeader + `<w:body>` + bodyXML + `</w:body></w:document>`))

	if stylesXML != "" {
		w, _ = zw.Create("word/styles.xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + stylesXML + `</w:styles>`))
	}

	if numberingXML != "" {
		w, _ = zw.Create("word/numbering.xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + numberingXML + `</w:numbering>`))
	}

	zw.Close()
	f.Close()

	return docxPath
}

// openTestDOCX builds and opens a document in one step.
func openTestDOCX(t *testing.T, bodyXML, stylesXML, numberingXML string) *Document {
	t.Helper()
	doc, err := Open(createTestDOCX(t, bodyXML, stylesXML, numberingXML))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return doc
}

// roundTrip writes doc and opens the result again.
func roundTrip(t *testing.T, doc *Document) *Document {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out, err := OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	return out
}
