// Package format sniffs contract files so that only WordprocessingML
// packages reach the editor.
package format

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by Check for files the editor cannot modify.
var ErrUnsupported = errors.New("format: unsupported document format")

// Format represents a document format a contract may arrive in.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word document (.docx).
	DOCX
	// DOCM indicates a macro-enabled Word document (.docm).
	DOCM
	// DOTX indicates a Word template (.dotx).
	DOTX
	// DOC indicates a legacy binary Word document (.doc).
	DOC
	// PDF indicates a PDF document.
	PDF
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// RTF indicates a Rich Text Format document.
	RTF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case DOCM:
		return "DOCM"
	case DOTX:
		return "DOTX"
	case DOC:
		return "DOC"
	case PDF:
		return "PDF"
	case ODT:
		return "ODT"
	case RTF:
		return "RTF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	if f == Unknown {
		return ""
	}
	return "." + strings.ToLower(f.String())
}

// Editable reports whether documents of this format can be edited: all
// three carry their body in word/document.xml.
func (f Format) Editable() bool {
	return f == DOCX || f == DOCM || f == DOTX
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".docm":
		return DOCM
	case ".dotx":
		return DOTX
	case ".doc":
		return DOC
	case ".pdf":
		return PDF
	case ".odt":
		return ODT
	case ".rtf":
		return RTF
	default:
		return Unknown
	}
}

var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFromMagic checks leading bytes. ZIP packages yield Unknown because
// telling them apart needs the archive itself; use DetectFromReader.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, oleMagic):
		return DOC
	case bytes.HasPrefix(data, []byte(`{\rtf`)):
		return RTF
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format, looking inside
// ZIP packages to tell Word documents, templates and OpenDocument apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// Main document part content types, keyed by format.
var mainPartTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml": DOCX,
	"application/vnd.ms-word.document.macroEnabled.main+xml":                           DOCM,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml": DOTX,
}

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// detectZIPFormat classifies a ZIP package by its mimetype entry
// (OpenDocument) or by the content type of /word/document.xml (OOXML).
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	hasWordBody := false
	var types *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "mimetype":
			data, err := readEntry(f, 256)
			if err == nil && strings.HasPrefix(string(data), "application/vnd.oasis.opendocument.text") {
				return ODT, nil
			}
		case "[Content_Types].xml":
			types = f
		case "word/document.xml":
			hasWordBody = true
		}
	}
	if !hasWordBody {
		return Unknown, nil
	}
	if types == nil {
		return DOCX, nil
	}

	data, err := readEntry(types, 1<<20)
	if err != nil {
		return Unknown, fmt.Errorf("reading content types: %w", err)
	}
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return Unknown, fmt.Errorf("parsing content types: %w", err)
	}
	for _, o := range ct.Overrides {
		if o.PartName == "/word/document.xml" {
			if f, ok := mainPartTypes[o.ContentType]; ok {
				return f, nil
			}
		}
	}
	return DOCX, nil
}

func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, limit))
}

// Check opens filename and returns nil when its content is an editable Word
// package. Anything else yields an error wrapping ErrUnsupported that names
// the format found.
func Check(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	got, err := DetectFromReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupported, filename, err)
	}
	if !got.Editable() {
		return fmt.Errorf("%w: %s is %s", ErrUnsupported, filename, got)
	}
	return nil
}
