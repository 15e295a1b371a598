// Package csvimport reads and validates CSV uploads row by row so that a
// bulk import can report every bad row before anything is written.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const encodingProbeSize = 4096

// CSVParser reads a header row then data rows keyed by normalised header name
type CSVParser struct {
	delimiter rune
	maxRows   int
	headers   []string
	headerMap map[string]int
	line      int
	dataRows  int
	reader    *csv.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithMaxRows caps the number of data rows; zero means no cap
func WithMaxRows(n int) ParserOption {
	return func(p *CSVParser) {
		p.maxRows = n
	}
}

// NewCSVParser strips a UTF-8 BOM and refuses empty or non UTF-8 input
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{delimiter: ',', headerMap: make(map[string]int)}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReaderSize(r, encodingProbeSize)
	head, err := buf.Peek(encodingProbeSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = buf.Discard(3)
		head = head[3:]
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// trimPartialRune drops a rune cut in half by a full probe window
func trimPartialRune(b []byte) []byte {
	if len(b) < encodingProbeSize-3 {
		return b
	}
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// NormalizeHeader maps "Admission Number" and "admission-number" to "admission_number"
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// ParseHeader reads the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	p.line = 1

	p.headers = make([]string, 0, len(record))
	for i, h := range record {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := p.headerMap[name]; dup {
			return fmt.Errorf("%w: %q appears twice", ErrInvalidHeader, name)
		}
		p.headerMap[name] = i
		p.headers = append(p.headers, name)
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the normalised header names in file order
func (p *CSVParser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the required headers the file does not carry
func (p *CSVParser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row; Line is the 1-based line in the file
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of column, or "" when absent
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, NewRowError(p.line, "", ErrCodeMalformedRow, err.Error())
	}

	row := &Row{Line: p.line, Data: make(map[string]string, len(p.headers))}
	for _, h := range p.headers {
		if i := p.headerMap[h]; i < len(record) {
			row.Data[h] = strings.TrimSpace(record[i])
		} else {
			row.Data[h] = ""
		}
	}
	return row, nil
}

// ReadAllRows reads the remaining rows, skipping blank ones. Malformed rows
// are collected into errs rather than stopping the read.
func (p *CSVParser) ReadAllRows(errs *ErrorCollection) ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if rowErr, ok := err.(RowError); ok {
			errs.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		p.dataRows++
		if p.maxRows > 0 && p.dataRows > p.maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, p.maxRows)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 && !errs.HasErrors() {
		return nil, ErrNoDataRows
	}
	return rows, nil
}
