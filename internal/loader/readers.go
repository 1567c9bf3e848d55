package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/parsererror"
)

// readCSV reads content as comma separated text, skipping the first skip
// records.
func readCSV(content []byte, skip int, filename string) (*models.RawTable, error) {
	r := newCSVReader(content)
	for i := 0; i < skip; i++ {
		if _, err := r.Read(); errors.Is(err, io.EOF) {
			return nil, &parsererror.InvalidFormatError{
				FilePath: filename, ExpectedFormat: "CSV", Msg: "no header row",
			}
		}
	}

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &parsererror.InvalidFormatError{
				FilePath: filename, ExpectedFormat: "CSV", Msg: "malformed record", Err: err,
			}
		}
		records = append(records, record)
	}
	return tableFromRecords(records, filename, "CSV")
}

// readXLSX reads the first worksheet of an Office Open XML workbook.
func readXLSX(content []byte, filename string) (*models.RawTable, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath: filename, ExpectedFormat: "XLSX workbook", Msg: "cannot open workbook", Err: err,
		}
	}
	defer xl.Close()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath: filename, ExpectedFormat: "XLSX workbook", Msg: "cannot read first sheet", Err: err,
		}
	}
	return tableFromRecords(rows, filename, "XLSX workbook")
}

// readXLS reads the first sheet of a legacy BIFF workbook. Date-styled
// number cells are converted to ISO dates.
func readXLS(content []byte, filename string) (table *models.RawTable, err error) {
	invalid := func(msg string, err error) error {
		return &parsererror.InvalidFormatError{
			FilePath: filename, ExpectedFormat: "XLS workbook", Msg: msg, Err: err,
		}
	}
	// xlsReader indexes record data without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, invalid("corrupt workbook", fmt.Errorf("%v", r))
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, invalid("cannot open workbook", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, invalid("no sheets found", err)
	}

	var records [][]string
	for _, row := range sheet.GetRows() {
		var record []string
		for _, col := range row.GetCols() {
			record = append(record, xlsCellText(&book, col))
		}
		records = append(records, record)
	}
	return tableFromRecords(records, filename, "XLS workbook")
}

// tableFromRecords treats the first record as the header row. Header cells
// are trimmed; blank data rows are dropped; short rows are padded. A row with
// non-empty cells beyond the header is malformed.
func tableFromRecords(records [][]string, filename, format string) (*models.RawTable, error) {
	if len(records) == 0 {
		return nil, &parsererror.InvalidFormatError{
			FilePath: filename, ExpectedFormat: format, Msg: "no header row",
		}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	table := &models.RawTable{Headers: headers}
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := make([]string, len(headers))
		for j, cell := range record {
			if j < len(headers) {
				row[j] = cell
				continue
			}
			if strings.TrimSpace(cell) != "" {
				return nil, &parsererror.InvalidFormatError{
					FilePath:       filename,
					ExpectedFormat: format,
					Msg: fmt.Sprintf("row %d has %d cells but the header has %d",
						i+1, len(record), len(headers)),
				}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
