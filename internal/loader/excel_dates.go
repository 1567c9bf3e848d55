package loader

import (
	"math"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-categorizer/internal/dateutils"
)

// isDateFormat reports whether number format id (with its format code, when
// the workbook defines one) displays a serial number as a date or time.
func isDateFormat(id int, code string) bool {
	if code != "" {
		return isDateFormatCode(code)
	}
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for day, month-name or year tokens outside quoted
// literals, escapes and bracketed sections such as colors and locales.
func isDateFormatCode(code string) bool {
	var plain strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			plain.WriteRune(r)
		}
	}
	lower := strings.ToLower(plain.String())
	if lower == "general" || lower == "@" {
		return false
	}
	return strings.ContainsAny(lower, "dy") || strings.Contains(lower, "mmm")
}

// excelSerialText renders an Excel serial date as ISO text, with the time of
// day only when there is one.
func excelSerialText(serial float64) (string, bool) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	if serial == math.Trunc(serial) {
		return dateutils.ToISODate(t), true
	}
	return t.Format(dateutils.DateLayoutFull), true
}

// xlsCellText returns the text of a BIFF cell. Numbers styled with a date
// format are converted from their serial value.
func xlsCellText(book *xls.Workbook, cell structure.CellData) string {
	switch cell.GetType() {
	case "*record.Number", "*record.Rk":
	default:
		return cell.GetString()
	}

	xf := book.GetXFbyIndex(cell.GetXFIndex())
	formatID := xf.GetFormatIndex()
	format := book.GetFormatByIndex(formatID)
	if !isDateFormat(formatID, format.String()) {
		return cell.GetString()
	}
	if text, ok := excelSerialText(cell.GetFloat64()); ok {
		return text
	}
	return cell.GetString()
}
