package dataset

import (
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

const parquetReadBatch = 256

// julianUnixEpoch is the julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

// listLeafNames are the leaf names parquet writers use for list elements.
var listLeafNames = map[string]bool{
	"element": true,
	"item":    true,
	"array":   true,
	"list":    true,
}

type timeUnit int

const (
	noTime timeUnit = iota
	dateDays
	timeMillis
	timeMicros
	timeNanos
)

type parquetLeaf struct {
	column int
	name   string
	unit   timeUnit
	// itemLevel is the definition level at which a list item exists.
	itemLevel int
	maxLevel  int
}

type parquetField struct {
	name   string
	nested bool
	leaves []parquetLeaf
}

func ReadParquetFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %v", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadParquet(f)
}

// ReadParquet reads a parquet file into a Table. Flat columns become scalar cells,
// list columns become []any and lists of groups become []any of map[string]any.
// Timestamp and date columns become time.Time.
func ReadParquet(r io.ReaderAt) (*Table, error) {
	pr := parquet.NewReader(r)
	defer func() {
		_ = pr.Close()
	}()
	fields := parquetFields(pr.Schema())
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.name
	}
	t := NewTable(columns)

	rows := make([]parquet.Row, parquetReadBatch)
	for {
		n, err := pr.ReadRows(rows)
		for _, row := range rows[:n] {
			t.Append(parquetRow(fields, row))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read parquet rows")
		}
		if n == 0 {
			break
		}
	}
	return t, nil
}

func parquetFields(schema *parquet.Schema) []parquetField {
	var fields []parquetField
	byName := map[string]int{}
	for col, path := range schema.Columns() {
		if len(path) == 0 {
			continue
		}
		name := path[0]
		i, ok := byName[name]
		if !ok {
			i = len(fields)
			byName[name] = i
			fields = append(fields, parquetField{name: name})
		}
		leaf := parquetLeaf{column: col, name: path[len(path)-1]}
		if lc, ok := schema.Lookup(path...); ok {
			leaf.unit = leafTimeUnit(lc.Node)
			leaf.maxLevel = lc.MaxDefinitionLevel
			if lc.MaxRepetitionLevel > 0 {
				fields[i].nested = true
			}
		}
		leaf.itemLevel = itemLevel(schema, path)
		if len(path) > 1 {
			fields[i].nested = true
		}
		if fields[i].nested && (len(path) == 1 || listLeafNames[leaf.name]) {
			leaf.name = ""
		}
		fields[i].leaves = append(fields[i].leaves, leaf)
	}
	return fields
}

// itemLevel walks path and returns the definition level of its first repeated
// node, or zero when nothing on the path repeats.
func itemLevel(schema *parquet.Schema, path []string) int {
	var node parquet.Node = schema
	level := 0
	for _, name := range path {
		var next parquet.Node
		for _, f := range node.Fields() {
			if f.Name() == name {
				next = f
				break
			}
		}
		if next == nil {
			return 0
		}
		if next.Optional() || next.Repeated() {
			level++
		}
		if next.Repeated() {
			return level
		}
		node = next
	}
	return 0
}

func leafTimeUnit(n parquet.Node) timeUnit {
	lt := n.Type().LogicalType()
	if lt == nil {
		if n.Type().Kind() == parquet.Int96 {
			return timeNanos
		}
		return noTime
	}
	if lt.Date != nil {
		return dateDays
	}
	if ts := lt.Timestamp; ts != nil {
		switch {
		case ts.Unit.Nanos != nil:
			return timeNanos
		case ts.Unit.Micros != nil:
			return timeMicros
		case ts.Unit.Millis != nil:
			return timeMillis
		}
	}
	return noTime
}

func parquetRow(fields []parquetField, row parquet.Row) []any {
	byColumn := map[int][]parquet.Value{}
	for _, v := range row {
		byColumn[v.Column()] = append(byColumn[v.Column()], v)
	}
	res := make([]any, len(fields))
	for i, f := range fields {
		if !f.nested {
			l := f.leaves[0]
			if vals := byColumn[l.column]; len(vals) > 0 && !vals[0].IsNull() {
				res[i] = parquetValue(vals[0], l.unit)
			}
			continue
		}
		res[i] = parquetNested(f, byColumn)
	}
	return res
}

// parquetItems returns the values of the list items present in leaf, with nil
// standing in for a null leaf so that columns of one group stay aligned.
func parquetItems(l parquetLeaf, vals []parquet.Value) []any {
	var res []any
	for _, v := range vals {
		if v.DefinitionLevel() < l.itemLevel {
			continue
		}
		if v.IsNull() || v.DefinitionLevel() < l.maxLevel {
			res = append(res, nil)
			continue
		}
		res = append(res, parquetValue(v, l.unit))
	}
	return res
}

func parquetNested(f parquetField, byColumn map[int][]parquet.Value) []any {
	if len(f.leaves) == 1 && f.leaves[0].name == "" {
		res := []any{}
		for _, v := range parquetItems(f.leaves[0], byColumn[f.leaves[0].column]) {
			if v != nil {
				res = append(res, v)
			}
		}
		return res
	}
	items := make([][]any, len(f.leaves))
	size := 0
	for i, l := range f.leaves {
		items[i] = parquetItems(l, byColumn[l.column])
		if n := len(items[i]); n > size {
			size = n
		}
	}
	res := make([]any, size)
	for j := 0; j < size; j++ {
		item := map[string]any{}
		for i, l := range f.leaves {
			if j < len(items[i]) && items[i][j] != nil {
				item[l.name] = items[i][j]
			}
		}
		res[j] = item
	}
	return res
}

func parquetValue(v parquet.Value, unit timeUnit) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		if unit == dateDays {
			return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32()))
		}
		return int64(v.Int32())
	case parquet.Int64:
		return parquetTime(v.Int64(), unit)
	case parquet.Int96:
		i := v.Int96()
		nanos := int64(i[1])<<32 | int64(i[0])
		days := int64(i[2]) - julianUnixEpoch
		return time.Unix(days*86400, nanos).UTC()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func parquetTime(n int64, unit timeUnit) any {
	switch unit {
	case dateDays:
		return time.Unix(0, 0).UTC().AddDate(0, 0, int(n))
	case timeMillis:
		return time.UnixMilli(n).UTC()
	case timeMicros:
		return time.UnixMicro(n).UTC()
	case timeNanos:
		return time.Unix(0, n).UTC()
	}
	return n
}
