package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSheetName is the worksheet name of the items report.
const ExportSheetName = "Items by Shop"

// GenerateExcel renders the grouped items report and returns the xlsx bytes.
//
// Layout: title on row 1 merged across every column, a blank row, then for
// each shop a merged shop-name row, a header row, one row per item and a
// blank separator row.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := ExportSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(ExportHeaders))

	widths := []float64{25, 18, 10, 12, 12, 12, 12, 12, 12, 12, 12, 12, 15}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	shopStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#70AD47"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create shop style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	// NumFmt 2 is the built-in "0.00".
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	// ── Title ───────────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	// ── Shop sections (row 3 onwards) ───────────────────────────────────

	row := 3
	for _, g := range data.Groups {
		shopRow := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheet, "A"+shopRow, lastCol+shopRow); err != nil {
			return nil, fmt.Errorf("merge shop %q: %w", g.ShopName, err)
		}
		f.SetCellValue(sheet, "A"+shopRow, sanitizeExcelCell(g.ShopName))
		f.SetCellStyle(sheet, "A"+shopRow, lastCol+shopRow, shopStyle)
		row++

		headerRow := fmt.Sprintf("%d", row)
		for i, h := range ExportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, h)
		}
		f.SetCellStyle(sheet, "A"+headerRow, lastCol+headerRow, headerStyle)
		row++

		for _, r := range g.Rows {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(r.ItemName))
			f.SetCellValue(sheet, "B"+rowStr, r.Date)
			f.SetCellStyle(sheet, "A"+rowStr, "B"+rowStr, textStyle)

			for i, v := range r.values() {
				cell, _ := excelize.CoordinatesToCellName(i+3, row)
				f.SetCellValue(sheet, cell, v)
			}
			f.SetCellStyle(sheet, "C"+rowStr, "C"+rowStr, textStyle)
			f.SetCellStyle(sheet, "D"+rowStr, lastCol+rowStr, numberStyle)
			row++
		}

		// Blank separator row.
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin black borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
