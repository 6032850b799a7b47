package clause

import "github.com/tsawler/rider/docx"

// CopyListNumbering puts dst on the same native list level as template.
// Nothing happens unless template carries both a numbering id and a level.
// Any numbering dst already had is replaced.
func CopyListNumbering(dst, template *docx.Paragraph) bool {
	if template == nil {
		return false
	}
	numID, ilvl := template.NumberingProps()
	if numID == "" || ilvl == "" {
		return false
	}
	dst.SetNumberingProps(numID, ilvl)
	return true
}
