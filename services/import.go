package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// importColumns maps accepted header labels to request fields. Derived
// columns from an export (RMB Amount, Final Value, ...) are ignored and
// recomputed.
var importColumns = []struct {
	Label string
	Key   string
}{
	{"Shop", "shop_name"},
	{"Item Name", "item_name"},
	{"Quantity", "qty"},
	{"RMB Price", "rmb_price"},
	{"CMB Rate", "cmb_rate"},
	{"CMB Amount", "cmb_amount"},
	{"Extra Tax", "extra_tax"},
	{"Exchange Rate", "exchange_rate"},
}

func importLabel(key string) string {
	for _, c := range importColumns {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// ImportRowError is a single field-level error on one file row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportReport is returned after validating, and possibly committing, a file.
type ImportReport struct {
	FileName     string           `json:"file_name"`
	DryRun       bool             `json:"dry_run"`
	TotalRows    int              `json:"total_rows"`
	ValidRows    int              `json:"valid_rows"`
	ErrorRows    int              `json:"error_rows"`
	Created      int              `json:"created"`
	ShopsCreated int              `json:"shops_created"`
	Errors       []ImportRowError `json:"errors"`
}

// ImportOptions control a single import run.
type ImportOptions struct {
	DryRun bool
	// ChunkSize is the number of rows inserted per transaction.
	ChunkSize int
	// FallbackRate fills rows without an Exchange Rate value.
	FallbackRate float64
}

type importRow struct {
	line     int
	shopName string
	req      CalculationRequest
}

// ImportCalculations parses an .xlsx or .csv upload, validates every row and,
// unless the run is a dry run or any row failed, creates missing shops and
// inserts the calculations.
func ImportCalculations(app core.App, file io.Reader, fileName string, opts ImportOptions) (*ImportReport, error) {
	headers, dataRows, err := parseImportFile(file, fileName)
	if err != nil {
		return nil, err
	}

	rows, report := validateImportRows(headers, dataRows, opts.FallbackRate)
	report.FileName = fileName
	report.DryRun = opts.DryRun

	if opts.DryRun || len(report.Errors) > 0 {
		return report, nil
	}

	if err := commitImport(app, rows, opts.ChunkSize, report); err != nil {
		return report, err
	}
	return report, nil
}

func parseImportFile(file io.Reader, fileName string) ([]string, [][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(file)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseExcel(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads the first sheet of an xlsx file.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapImportHeaders returns the field key of every column ("" for columns
// that are not imported) and the required labels that are missing.
func mapImportHeaders(headers []string) ([]string, []string) {
	labelToKey := make(map[string]string, len(importColumns))
	for _, c := range importColumns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
	}

	keys := make([]string, len(headers))
	seen := make(map[string]bool)
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(h), "*")))
		if key, ok := labelToKey[norm]; ok {
			keys[i] = key
			seen[key] = true
		}
	}

	var missing []string
	for _, key := range []string{"shop_name", "item_name", "qty"} {
		if !seen[key] {
			missing = append(missing, importLabel(key))
		}
	}
	return keys, missing
}

func validateImportRows(headers []string, dataRows [][]string, fallbackRate float64) ([]importRow, *ImportReport) {
	report := &ImportReport{}
	keys, missing := mapImportHeaders(headers)
	if len(missing) > 0 {
		for _, label := range missing {
			report.Errors = append(report.Errors, ImportRowError{
				Row:     1,
				Field:   label,
				Message: fmt.Sprintf("Missing column %q", label),
			})
		}
		report.TotalRows = len(dataRows)
		report.ErrorRows = len(dataRows)
		return nil, report
	}

	var rows []importRow
	for idx, raw := range dataRows {
		line := idx + 2 // 1-indexed, +1 for header row

		values := make(map[string]string, len(keys))
		blank := true
		for col, key := range keys {
			if key == "" || col >= len(raw) {
				continue
			}
			v := strings.TrimSpace(raw[col])
			values[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		report.TotalRows++

		var rowErrs []ImportRowError
		number := func(key string) float64 {
			v := values[key]
			if v == "" {
				return 0
			}
			f, err := cast.ToFloat64E(strings.ReplaceAll(v, ",", ""))
			if err != nil {
				rowErrs = append(rowErrs, ImportRowError{Row: line, Field: importLabel(key), Message: importLabel(key) + " must be a number"})
			}
			return f
		}

		req := CalculationRequest{
			ItemName:     values["item_name"],
			Qty:          number("qty"),
			RMBPrice:     number("rmb_price"),
			CMBRate:      number("cmb_rate"),
			CMBAmount:    number("cmb_amount"),
			ExtraTax:     number("extra_tax"),
			ExchangeRate: number("exchange_rate"),
		}
		if values["exchange_rate"] == "" {
			req.ExchangeRate = fallbackRate
		}

		shopName := values["shop_name"]
		if shopName == "" {
			rowErrs = append(rowErrs, ImportRowError{Row: line, Field: "Shop", Message: "Shop is required"})
		}

		if len(rowErrs) == 0 {
			if fields, ok := FieldErrors(req.ValidatePricing()); ok {
				for _, key := range sortedKeys(fields) {
					rowErrs = append(rowErrs, ImportRowError{Row: line, Field: importLabel(key), Message: fields[key]})
				}
			}
		}

		if len(rowErrs) > 0 {
			report.ErrorRows++
			report.Errors = append(report.Errors, rowErrs...)
			continue
		}
		rows = append(rows, importRow{line: line, shopName: shopName, req: req})
	}
	report.ValidRows = len(rows)
	return rows, report
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// commitImport resolves shops by name, then inserts rows in chunks of one
// transaction each. A failed chunk is rolled back and its rows reported;
// later chunks still run.
func commitImport(app core.App, rows []importRow, chunkSize int, report *ImportReport) error {
	if chunkSize <= 0 {
		chunkSize = 100
	}

	shopsBefore, err := app.CountRecords("shops")
	if err != nil {
		return fmt.Errorf("count shops: %w", err)
	}

	shopIDs := make(map[string]string)
	for i := range rows {
		name := rows[i].shopName
		id, ok := shopIDs[name]
		if !ok {
			shop, err := FindOrCreateShopByName(app, name)
			if err != nil {
				return fmt.Errorf("resolve shop %q: %w", name, err)
			}
			id = shop.Id
			shopIDs[name] = id
		}
		rows[i].req.ShopID = id
	}

	if shopsAfter, err := app.CountRecords("shops"); err == nil {
		report.ShopsCreated = int(shopsAfter - shopsBefore)
	}

	col, err := app.FindCollectionByNameOrId("calculations")
	if err != nil {
		return fmt.Errorf("find calculations collection: %w", err)
	}

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		err := app.RunInTransaction(func(txApp core.App) error {
			for _, r := range chunk {
				rec := core.NewRecord(col)
				ApplyRequest(rec, r.req)
				if err := txApp.Save(rec); err != nil {
					return fmt.Errorf("row %d: %w", r.line, err)
				}
			}
			return nil
		})
		if err != nil {
			app.Logger().Error("import chunk failed", "component", "import", "first_row", chunk[0].line, "error", err)
			for _, r := range chunk {
				report.Errors = append(report.Errors, ImportRowError{Row: r.line, Field: "", Message: "Failed to save row"})
			}
			report.ErrorRows += len(chunk)
			report.ValidRows -= len(chunk)
			continue
		}
		report.Created += len(chunk)
	}
	return nil
}

// ImportTemplateHeaders are the columns of the downloadable import template.
func ImportTemplateHeaders() []string {
	out := make([]string, len(importColumns))
	for i, c := range importColumns {
		out[i] = c.Label
	}
	return out
}

// GenerateImportTemplate creates an xlsx with the import headers and one
// example row.
func GenerateImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Calculations"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
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

	headers := ImportTemplateHeaders()
	example := []any{"Pettah Traders", "LED Strip 5m", 10, 25.5, 1200, 0.35, 500, 42.1}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		cell, _ = excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, example[i])
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, name, name, 16)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}
