package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t := NewTable(header)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read csv row %v", t.Len()+1)
		}
		row := make([]any, len(rec))
		for i, v := range rec {
			if v == "" {
				continue
			}
			row[i] = v
		}
		t.Append(row)
	}
	return t, nil
}
