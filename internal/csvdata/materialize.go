package csvdata

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/plotset/plotembed/internal/embederr"
)

// ContextCheckInterval is how many records Parse materializes between
// context cancellation checks.
var ContextCheckInterval = 100

// Materializer streams records out of CSV text one at a time.
//
// Blank lines in the body are not skipped: each one yields a record whose
// cells are all empty. The terminator at the very end of the input does not
// start another line.
type Materializer struct {
	columns []string
	body    string
	reader  *csv.Reader

	// consumed is the body offset up to which blank lines have been counted.
	consumed int64
	// blanks is the number of blank records owed before pending.
	blanks  int
	pending *Record
	done    bool
	err     error
}

// NewMaterializer strips the byte-order mark, resolves the header and
// prepares the body for streaming.
func NewMaterializer(text string) (*Materializer, error) {
	header, body := splitHeader(StripBOM(text))
	columns, err := columnsFromHeader(header)
	if err != nil {
		return nil, err
	}
	return &Materializer{
		columns: columns,
		body:    body,
		reader:  newReader(strings.NewReader(body)),
	}, nil
}

// Columns returns the resolved column names.
func (m *Materializer) Columns() []string {
	return m.columns
}

// Next returns the next record, or io.EOF when the input is exhausted.
// After a parse error every further call returns the same error.
func (m *Materializer) Next() (Record, error) {
	if m.err != nil {
		return Record{}, m.err
	}
	if m.blanks > 0 {
		m.blanks--
		return m.blank(), nil
	}
	if m.pending != nil {
		rec := *m.pending
		m.pending = nil
		return rec, nil
	}
	if m.done {
		return Record{}, io.EOF
	}

	tokens, err := m.reader.Read()
	if errors.Is(err, io.EOF) {
		m.done = true
		m.blanks = countBlankLines(m.body[m.consumed:])
		return m.Next()
	}
	if err != nil {
		m.err = rowError(err)
		return Record{}, m.err
	}

	end := m.reader.InputOffset()
	m.blanks = countBlankLines(m.body[m.consumed:end])
	m.consumed = end

	rec := newRecord(m.columns, tokens)
	if m.blanks == 0 {
		return rec, nil
	}
	m.pending = &rec
	return m.Next()
}

func (m *Materializer) blank() Record {
	return newRecord(m.columns, nil)
}

// countBlankLines counts the empty lines at the start of s. encoding/csv
// consumes these silently before the record that follows them.
func countBlankLines(s string) int {
	n := 0
	for {
		switch {
		case strings.HasPrefix(s, "\n"):
			s = s[1:]
		case strings.HasPrefix(s, "\r\n"):
			s = s[2:]
		default:
			return n
		}
		n++
	}
}

func rowError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		// The header occupies line 1 of the original input.
		return embederr.Parsef("line %d, column %d: %v", pe.Line+1, pe.Column, pe.Err)
	}
	return embederr.Parsef("reading rows: %v", err)
}

// Parse materializes every record of text. Any tokenizer error fails the
// whole call; no partial record set is returned.
func Parse(ctx context.Context, text string) (*RecordSet, error) {
	m, err := NewMaterializer(text)
	if err != nil {
		return nil, err
	}

	set := &RecordSet{Columns: m.Columns(), Records: []Record{}}
	for {
		if len(set.Records)%ContextCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rec, err := m.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		set.Records = append(set.Records, rec)
	}

	slog.Debug("csv parsed", "columns", len(set.Columns), "records", len(set.Records))
	return set, nil
}
