package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/rules"
)

// DefaultHeaderScanRows is how many leading records are probed for a header.
const DefaultHeaderScanRows = 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HeaderLocator finds the header row of a CSV export that starts with
// preamble lines (account number, statement period and the like).
type HeaderLocator struct {
	registry *rules.SynonymRegistry
	maxRows  int
}

// NewHeaderLocator creates a locator probing the first maxRows records.
func NewHeaderLocator(registry *rules.SynonymRegistry, maxRows int) *HeaderLocator {
	if maxRows < 1 {
		maxRows = DefaultHeaderScanRows
	}
	return &HeaderLocator{registry: registry, maxRows: maxRows}
}

// Locate returns the number of records to skip before the header. A record
// is a header when it names a date, an amount and a description column. When
// no record qualifies, or content cannot be read at all, Locate returns 0.
func (l *HeaderLocator) Locate(content []byte) int {
	for offset := 0; offset < l.maxRows; offset++ {
		headers, err := recordAt(content, offset)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			continue
		}
		if l.isHeader(headers) {
			return offset
		}
	}
	return 0
}

func (l *HeaderLocator) isHeader(headers []string) bool {
	var hasDate, hasAmount, hasDescription bool
	for _, h := range headers {
		h = strings.TrimSpace(h)
		hasDate = hasDate || l.registry.Recognizes(models.FieldDate, h)
		hasAmount = hasAmount || l.registry.Recognizes(models.FieldAmount, h)
		hasDescription = hasDescription || l.registry.Recognizes(models.FieldDescription, h)
	}
	return hasDate && hasAmount && hasDescription
}

func newCSVReader(content []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

// recordAt reads only as far as the record at offset. Malformed records
// before it are skipped like any other preamble line.
func recordAt(content []byte, offset int) ([]string, error) {
	r := newCSVReader(content)
	for i := 0; ; i++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		if i < offset {
			continue
		}
		return record, err
	}
}
