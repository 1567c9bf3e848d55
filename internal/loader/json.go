package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/parsererror"
)

// orderedTable accumulates columns in first-seen order and rows keyed by a
// row label.
type orderedTable struct {
	headers   []string
	colIndex  map[string]int
	rowLabels []string
	rowIndex  map[string]int
	cells     map[int]map[int]string
}

func newOrderedTable() *orderedTable {
	return &orderedTable{
		colIndex: make(map[string]int),
		rowIndex: make(map[string]int),
		cells:    make(map[int]map[int]string),
	}
}

func (t *orderedTable) set(row, col, value string) {
	c, ok := t.colIndex[col]
	if !ok {
		c = len(t.headers)
		t.colIndex[col] = c
		t.headers = append(t.headers, col)
	}
	r, ok := t.rowIndex[row]
	if !ok {
		r = len(t.rowLabels)
		t.rowIndex[row] = r
		t.rowLabels = append(t.rowLabels, row)
		t.cells[r] = make(map[int]string)
	}
	t.cells[r][c] = value
}

func (t *orderedTable) records() [][]string {
	records := make([][]string, 0, len(t.rowLabels)+1)
	records = append(records, t.headers)
	for r := range t.rowLabels {
		record := make([]string, len(t.headers))
		for c, v := range t.cells[r] {
			record[c] = v
		}
		records = append(records, record)
	}
	return records
}

// readJSON accepts two layouts: a list of records
// ([{"Date": ..., "Amount": ...}, ...]) and an object of columns whose values
// are either arrays or objects keyed by row label. Key order is preserved, so
// column order matches the document. Scalars are kept as their literal text.
func readJSON(content []byte, filename string) (*models.RawTable, error) {
	invalid := func(msg string, err error) error {
		return &parsererror.InvalidFormatError{
			FilePath: filename, ExpectedFormat: "JSON records or columns", Msg: msg, Err: err,
		}
	}

	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, invalid("cannot decode document", err)
	}

	table := newOrderedTable()
	switch tok {
	case json.Delim('['):
		err = readJSONRecords(dec, table)
	case json.Delim('{'):
		err = readJSONColumns(dec, table)
	default:
		return nil, invalid("top-level value must be an array or an object", nil)
	}
	if err != nil {
		return nil, invalid("unexpected structure", err)
	}
	if len(table.headers) == 0 {
		return nil, invalid("no columns", nil)
	}
	return tableFromRecords(table.records(), filename, "JSON records or columns")
}

func readJSONRecords(dec *json.Decoder, table *orderedTable) error {
	for n := 0; dec.More(); n++ {
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		label := strconv.Itoa(n)
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return err
			}
			value, err := readScalar(dec)
			if err != nil {
				return fmt.Errorf("record %d, key %q: %w", n, key, err)
			}
			table.set(label, key, value)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, ']')
}

func readJSONColumns(dec *json.Decoder, table *orderedTable) error {
	for dec.More() {
		column, err := readKey(dec)
		if err != nil {
			return err
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('['):
			for i := 0; dec.More(); i++ {
				value, err := readScalar(dec)
				if err != nil {
					return fmt.Errorf("column %q: %w", column, err)
				}
				table.set(strconv.Itoa(i), column, value)
			}
			if err := expectDelim(dec, ']'); err != nil {
				return err
			}
		case json.Delim('{'):
			for dec.More() {
				label, err := readKey(dec)
				if err != nil {
					return err
				}
				value, err := readScalar(dec)
				if err != nil {
					return fmt.Errorf("column %q: %w", column, err)
				}
				table.set(label, column, value)
			}
			if err := expectDelim(dec, '}'); err != nil {
				return err
			}
		default:
			return fmt.Errorf("column %q is not an array or an object", column)
		}
	}
	return expectDelim(dec, '}')
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func readScalar(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("nested value %v is not supported", v)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}
