package models

// RawTable is a loaded statement before normalization. Every cell is raw text
// and every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the named header, or -1.
func (t *RawTable) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named header exists.
func (t *RawTable) HasColumn(name string) bool {
	return t.Column(name) >= 0
}

// Value returns the cell of row i under the named header, or "" when the
// column does not exist.
func (t *RawTable) Value(i int, name string) string {
	col := t.Column(name)
	if col < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][col]
}

// Record returns row i as a header to value mapping.
func (t *RawTable) Record(i int) map[string]string {
	record := make(map[string]string, len(t.Headers))
	for col, h := range t.Headers {
		record[h] = t.Rows[i][col]
	}
	return record
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}
