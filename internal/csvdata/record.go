package csvdata

import (
	"bytes"
	"encoding/json"
)

// Record is one data row keyed by column name. Keys keep header order.
type Record struct {
	columns []string
	values  []string
}

// newRecord zips columns with tokens. Missing tokens become "" and surplus
// tokens are dropped, so the record always has one value per column.
func newRecord(columns, tokens []string) Record {
	values := make([]string, len(columns))
	copy(values, tokens)
	return Record{columns: columns, values: values}
}

// Len returns the number of columns in the record.
func (r Record) Len() int {
	return len(r.columns)
}

// Get returns the value for column. When the header repeats a name, the
// rightmost cell wins.
func (r Record) Get(column string) (string, bool) {
	for i := len(r.columns) - 1; i >= 0; i-- {
		if r.columns[i] == column {
			return r.values[i], true
		}
	}
	return "", false
}

// Values returns the cells in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// IsBlank reports whether every cell is empty.
func (r Record) IsBlank() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
// A repeated column name is written once, at its first position, holding the
// rightmost value.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]bool, len(r.columns))
	for _, col := range r.columns {
		if seen[col] {
			continue
		}
		seen[col] = true
		if len(seen) > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, _ := r.Get(col)
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordSet is the fully materialized result of parsing a CSV document.
// It is not modified after Parse returns.
type RecordSet struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.Records)
}

// BlankCount returns how many records have no non-empty cell.
func (s *RecordSet) BlankCount() int {
	n := 0
	for _, r := range s.Records {
		if r.IsBlank() {
			n++
		}
	}
	return n
}

// EmptyCells returns, per column index, how many records hold "" there.
func (s *RecordSet) EmptyCells() []int {
	counts := make([]int, len(s.Columns))
	for _, r := range s.Records {
		for i, v := range r.values {
			if v == "" {
				counts[i]++
			}
		}
	}
	return counts
}
