package dataset

// Table is a raw tabular dataset before normalization. Cells hold string, int64,
// float64, bool, time.Time, []any or nil depending on the source format.
type Table struct {
	Columns []string
	Rows    [][]any
	index   map[string]int
}

func NewTable(columns []string) *Table {
	t := &Table{
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	return t
}

func (s *Table) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

func (s *Table) Append(row []any) {
	s.Rows = append(s.Rows, row)
}

func (s *Table) Len() int {
	return len(s.Rows)
}

// Cell returns nil for missing columns and short rows.
func (s *Table) Cell(row int, column string) any {
	i, ok := s.index[column]
	if !ok {
		return nil
	}
	r := s.Rows[row]
	if i >= len(r) {
		return nil
	}
	return r[i]
}
