// Package rider inserts clauses, definitions and sentences into .docx
// contracts so that the new text looks hand-authored: it borrows the
// heading emphasis, quoting, fonts and list numbering already in use and
// renumbers the clauses that follow.
//
// Basic usage:
//
//	err := rider.Open("Contract 1.docx").
//	    InsertDefinition("Definitions.", "Affiliate", "means any entity that controls ...", "").
//	    InsertClauseAfter("Prohibition on Use of Open AI Systems.", "Residuals", "Nothing in this Agreement ...").
//	    SaveAs("updated_contracts/Contract 1.docx")
//
// Edits run in order against one in-memory document. The first failing edit
// stops the chain; later edits are skipped and its error is returned by the
// terminal operation (SaveAs, Save, Preview, Err, ...).
//
// For lower-level control, the clause and docx packages are also available.
package rider

import (
	"github.com/tsawler/rider/docx"
)

// Open returns a Contract for the .docx file at filename. The file is read
// on first use; a missing or non-Word file surfaces as the chain's error.
//
// Example:
//
//	headings, err := rider.Open("Contract 1.docx").Outline()
func Open(filename string) *Contract {
	return &Contract{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument wraps an already loaded document. Save is unavailable
// because there is no source file; use SaveAs or Write.
func FromDocument(doc *docx.Document) *Contract {
	return &Contract{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	headings := rider.Must(rider.Open("Contract 1.docx").Outline())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
