package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{DOCM, "DOCM"},
		{DOTX, "DOTX"},
		{DOC, "DOC"},
		{PDF, "PDF"},
		{ODT, "ODT"},
		{RTF, "RTF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, ".docx"},
		{DOTX, ".dotx"},
		{PDF, ".pdf"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Editable(t *testing.T) {
	for _, f := range []Format{DOCX, DOCM, DOTX} {
		if !f.Editable() {
			t.Errorf("%v should be editable", f)
		}
	}
	for _, f := range []Format{Unknown, DOC, PDF, ODT, RTF} {
		if f.Editable() {
			t.Errorf("%v should not be editable", f)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"Contract 1.docx", DOCX},
		{"contract.DOCX", DOCX},
		{"contract.docm", DOCM},
		{"template.dotx", DOTX},
		{"legacy.doc", DOC},
		{"signed.pdf", PDF},
		{"draft.odt", ODT},
		{"draft.rtf", RTF},
		{"notes.txt", Unknown},
		{"contract", Unknown},
		{"", Unknown},
		{"/path/to/Contract 2.docx", DOCX},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"PDF", []byte("%PDF-1.7"), PDF},
		{"OLE compound file", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}, DOC},
		{"RTF", []byte(`{\rtf1\ansi`), RTF},
		{"ZIP needs inspection", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, Unknown},
		{"empty", []byte{}, Unknown},
		{"text", []byte("Hello, World!"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

// buildZIP returns a ZIP archive holding files in the given order.
func buildZIP(t *testing.T, files ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 0; i+1 < len(files); i += 2 {
		w, err := zw.Create(files[i])
		if err != nil {
			t.Fatalf("Create(%s): %v", files[i], err)
		}
		if _, err := w.Write([]byte(files[i+1])); err != nil {
			t.Fatalf("Write(%s): %v", files[i], err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func contentTypesFor(mainType string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="` + mainType + `"/>
</Types>`
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
		want Format
	}{
		{"document", func(t *testing.T) []byte {
			return buildZIP(t,
				"[Content_Types].xml", contentTypesFor("application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"),
				"word/document.xml", "<w:document/>")
		}, DOCX},
		{"macro-enabled", func(t *testing.T) []byte {
			return buildZIP(t,
				"[Content_Types].xml", contentTypesFor("application/vnd.ms-word.document.macroEnabled.main+xml"),
				"word/document.xml", "<w:document/>")
		}, DOCM},
		{"template", func(t *testing.T) []byte {
			return buildZIP(t,
				"[Content_Types].xml", contentTypesFor("application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml"),
				"word/document.xml", "<w:document/>")
		}, DOTX},
		{"no content types", func(t *testing.T) []byte {
			return buildZIP(t, "word/document.xml", "<w:document/>")
		}, DOCX},
		{"opendocument", func(t *testing.T) []byte {
			return buildZIP(t, "mimetype", "application/vnd.oasis.opendocument.text", "content.xml", "<office:document-content/>")
		}, ODT},
		{"spreadsheet", func(t *testing.T) []byte {
			return buildZIP(t, "[Content_Types].xml", contentTypesFor("x"), "xl/workbook.xml", "<workbook/>")
		}, Unknown},
		{"pdf", func(t *testing.T) []byte { return []byte("%PDF-1.4\n%%EOF") }, PDF},
		{"short", func(t *testing.T) []byte { return []byte("%P") }, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data(t)
			got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("DetectFromReader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromReader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x01, 0x02, 0x03}
	if _, err := DetectFromReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for truncated archive")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	docx := filepath.Join(dir, "contract.docx")
	if err := os.WriteFile(docx, buildZIP(t, "word/document.xml", "<w:document/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Check(docx); err != nil {
		t.Errorf("Check(docx) = %v, want nil", err)
	}

	// a PDF renamed to .docx is still a PDF
	renamed := filepath.Join(dir, "renamed.docx")
	if err := os.WriteFile(renamed, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Check(renamed)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Check(renamed) = %v, want ErrUnsupported", err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("PDF")) {
		t.Errorf("error %q should name the detected format", err)
	}

	if err := Check(filepath.Join(dir, "missing.docx")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Check(missing) = %v, want os.ErrNotExist", err)
	}
}
