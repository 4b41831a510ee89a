// Package csvfile reads transaction CSV uploads. It hides charset detection
// and header bookkeeping behind a Next-style reader so the import pipeline
// can make a single forward pass over the file.
package csvfile

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mlipski/salesledger/internal/encoding"
)

// Column names every upload must carry. Extra columns are ignored.
const (
	ColTransactionID = "transaction_id"
	ColTimestamp     = "timestamp"
	ColAmount        = "amount"
	ColCurrency      = "currency"
	ColCustomerID    = "customer_id"
	ColProductID     = "product_id"
	ColQuantity      = "quantity"
)

// RequiredHeaders lists the columns a file must declare in its header line.
var RequiredHeaders = []string{
	ColTransactionID,
	ColTimestamp,
	ColAmount,
	ColCurrency,
	ColCustomerID,
	ColProductID,
	ColQuantity,
}

// HeaderError reports a file whose first line does not declare every
// required column, or a file with no content at all. It is always
// attributed to row 0.
type HeaderError struct {
	Empty   bool
	Missing []string
}

func (e *HeaderError) Error() string {
	if e.Empty {
		return "empty CSV file"
	}

	return "missing required headers: " + strings.Join(e.Missing, ", ")
}

// Row is one data line of the file. Number is the 1-based line number in
// the original file; the header line is row 1, so data starts at row 2.
type Row struct {
	Number int
	Fields map[string]string
}

// Reader yields rows from a transaction CSV upload in a single forward
// pass. It is not restartable.
type Reader struct {
	cr     *stdcsv.Reader
	header []string
	rowNum int
}

// NewReader decodes r to UTF-8 (stripping any byte-order mark), reads the
// header line and verifies every required column is present. A *HeaderError
// is returned when the file is empty or a column is missing; the returned
// reader is nil in that case.
func NewReader(r io.Reader) (*Reader, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	cr := stdcsv.NewReader(utf8r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &HeaderError{Empty: true}
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	if missing := missingHeaders(header); len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	return &Reader{cr: cr, header: header, rowNum: 1}, nil
}

func missingHeaders(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}

	var missing []string

	for _, name := range RequiredHeaders {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}

	sort.Strings(missing)

	return missing
}

// Next returns the next data row, or io.EOF after the last one. Ragged
// rows are tolerated: absent trailing cells read as empty strings.
func (r *Reader) Next() (Row, error) {
	record, err := r.cr.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	}

	if err != nil {
		return Row{}, fmt.Errorf("read row: %w", err)
	}

	r.rowNum++

	fields := make(map[string]string, len(r.header))
	for i, name := range r.header {
		fields[name] = cellValue(record, i)
	}

	return Row{Number: r.rowNum, Fields: fields}, nil
}

func cellValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return record[idx]
}
