package xmgrprotocol

// Column is a read-only numeric view of one dataset column.
type Column interface {
	Len() int
	At(i int) float64
}

// Float64s adapts a []float64 to Column.
type Float64s []float64

func (c Float64s) Len() int { return len(c) }

func (c Float64s) At(i int) float64 {
	if i < 0 || i >= len(c) {
		return 0
	}
	return c[i]
}

// Ints adapts a []int to Column.
type Ints []int

func (c Ints) Len() int { return len(c) }

func (c Ints) At(i int) float64 {
	if i < 0 || i >= len(c) {
		return 0
	}
	return float64(c[i])
}

// indexColumn yields 0..n-1, the implicit x values of a single column.
type indexColumn int

func (c indexColumn) Len() int { return int(c) }

func (c indexColumn) At(i int) float64 {
	if i < 0 || i >= int(c) {
		return 0
	}
	return float64(i)
}

// Columns coerces dataset arguments to columns. Each argument is either a
// Column, a flat numeric slice (one column), or a slice of numeric slices
// (one column per inner slice). Anything else is rejected with an
// *InputError wrapping ErrUnsupportedInputType.
func Columns(args ...any) ([]Column, error) {
	var cols []Column
	for i, arg := range args {
		switch v := arg.(type) {
		case Column:
			cols = append(cols, v)
		case []float64:
			cols = append(cols, Float64s(v))
		case []int:
			cols = append(cols, Ints(v))
		case []float32:
			cols = append(cols, convert(v))
		case []int32:
			cols = append(cols, convert(v))
		case []int64:
			cols = append(cols, convert(v))
		case [][]float64:
			for _, inner := range v {
				cols = append(cols, Float64s(inner))
			}
		case [][]int:
			for _, inner := range v {
				cols = append(cols, Ints(inner))
			}
		default:
			return nil, &InputError{Index: i, Value: arg}
		}
	}
	if len(cols) == 0 {
		return nil, &InputError{Index: 0, Value: nil}
	}
	return cols, nil
}

func convert[T float32 | int32 | int64](in []T) Float64s {
	out := make(Float64s, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// Rows transposes columns into rows. The row count is the length of the
// longest column; shorter columns are padded with 0.
func Rows(columns []Column) [][]float64 {
	n := 0
	for _, c := range columns {
		if c.Len() > n {
			n = c.Len()
		}
	}
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, len(columns))
		for j, c := range columns {
			if i < c.Len() {
				row[j] = c.At(i)
			}
		}
		rows[i] = row
	}
	return rows
}
