// Package csvdata turns raw CSV text into an ordered column list and a stream
// of records keyed by those columns.
//
// The first line of the input is always the header. Empty header cells are
// replaced by generated placeholder names so every column has a key.
package csvdata

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/plotset/plotembed/internal/embederr"
)

// byteOrderMark is the UTF-8 encoding of U+FEFF.
const byteOrderMark = "\ufeff"

// PlaceholderPrefix is prepended to the counter of generated column names.
const PlaceholderPrefix = "col-"

// StripBOM removes a single leading UTF-8 byte-order mark.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, byteOrderMark)
}

// splitHeader returns the header line and the remaining body. A "\r" that
// precedes the first "\n" belongs to the terminator, not to the header.
func splitHeader(text string) (header, body string) {
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return text, ""
	}
	return strings.TrimSuffix(text[:i], "\r"), text[i+1:]
}

// Columns returns the ordered column names derived from the header line of
// text. Empty header tokens become "col-1", "col-2", ... counted over the
// placeholders only. Real names are kept verbatim, even if they collide with
// a placeholder.
func Columns(text string) ([]string, error) {
	header, _ := splitHeader(StripBOM(text))
	return columnsFromHeader(header)
}

// RawHeader returns the header cells of text as written, before placeholder
// names are generated.
func RawHeader(text string) ([]string, error) {
	header, _ := splitHeader(StripBOM(text))
	return headerTokens(header)
}

func headerTokens(header string) ([]string, error) {
	tokens, err := newReader(strings.NewReader(header)).Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	if err != nil {
		return nil, headerError(err)
	}
	return tokens, nil
}

func columnsFromHeader(header string) ([]string, error) {
	tokens, err := headerTokens(header)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(tokens))
	placeholders := 0
	for i, tok := range tokens {
		if tok == "" {
			placeholders++
			columns[i] = PlaceholderPrefix + strconv.Itoa(placeholders)
			continue
		}
		columns[i] = tok
	}
	return columns, nil
}

// newReader returns a csv.Reader for the comma/double-quote dialect. Quotes
// are strict: a stray or unterminated quote is a parse error.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = false
	return cr
}

func headerError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return embederr.Parsef("header, column %d: %v", pe.Column, pe.Err)
	}
	return embederr.Parsef("header: %v", err)
}
