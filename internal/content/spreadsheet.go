package content

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetText renders every sheet of a workbook as a tab-delimited text block
// labeled by sheet name, concatenated in sheet order.
func sheetText(content []byte) string {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return ""
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("SHEET: ")
		b.WriteString(sheet)
		b.WriteString("\n")
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
