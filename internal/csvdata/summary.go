package csvdata

// ColumnSummary describes one column of a parsed document.
type ColumnSummary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	// Placeholder is true when the header cell was empty and the name was
	// generated.
	Placeholder bool `json:"placeholder"`
	Empty       int  `json:"empty"`
}

// Summary is a compact description of a RecordSet.
type Summary struct {
	Columns []ColumnSummary `json:"columns"`
	Records int             `json:"records"`
	Blank   int             `json:"blank"`
}

// Summarize describes s. header is the raw header cells, used to tell
// generated placeholder names from real ones; pass nil when unknown.
func Summarize(s *RecordSet, header []string) Summary {
	empty := s.EmptyCells()
	cols := make([]ColumnSummary, len(s.Columns))
	for i, name := range s.Columns {
		cols[i] = ColumnSummary{
			Index: i + 1,
			Name:  name,
			Empty: empty[i],
		}
		if i < len(header) && header[i] == "" {
			cols[i].Placeholder = true
		}
	}
	return Summary{
		Columns: cols,
		Records: s.Len(),
		Blank:   s.BlankCount(),
	}
}
