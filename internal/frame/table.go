// Package frame holds the tabular data passed between pipeline stages. A
// Table wraps a gota DataFrame: columns are typed series and missing cells
// are NA elements. Every operation returns a new Table and keeps the relative
// order of the rows it retains.
package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an immutable view of a DataFrame with unique column names
type Table struct {
	df dataframe.DataFrame
}

// New builds a table from series of equal length. Column names must be unique.
func New(columns ...series.Series) (*Table, error) {
	names := make([]string, len(columns))
	for i, s := range columns {
		names[i] = s.Name
	}
	if err := checkUnique(names); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return &Table{}, nil
	}
	return wrap(dataframe.New(columns...))
}

// MustNew is New for fixed column sets known to be valid
func MustNew(columns ...series.Series) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func wrap(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

func checkUnique(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// DataFrame returns the underlying gota frame
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

// Columns returns the column names in order
func (t *Table) Columns() []string {
	if t.df.Ncol() == 0 {
		return []string{}
	}
	return t.df.Names()
}

// Len returns the number of rows
func (t *Table) Len() int { return t.df.Nrow() }

// Width returns the number of columns
func (t *Table) Width() int { return t.df.Ncol() }

// Has reports whether the column exists
func (t *Table) Has(column string) bool {
	for _, c := range t.Columns() {
		if c == column {
			return true
		}
	}
	return false
}

// Col returns a copy of a column. Fetch it once per pass; it is not cheap.
func (t *Table) Col(column string) (series.Series, bool) {
	if !t.Has(column) {
		return series.Series{}, false
	}
	return t.df.Col(column), true
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	if t.Width() == 0 {
		return &Table{}
	}
	return &Table{df: t.df.Copy()}
}

// Filter keeps the rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.subset(idx)
}

func (t *Table) subset(idx []int) *Table {
	if t.Width() == 0 {
		return &Table{}
	}
	if len(idx) == t.Len() {
		return t.Clone()
	}
	if len(idx) == 0 {
		cols := make([]series.Series, 0, t.Width())
		for _, c := range t.Columns() {
			cols = append(cols, series.New([]string{}, t.df.Col(c).Type(), c))
		}
		return &Table{df: dataframe.New(cols...)}
	}
	return &Table{df: t.df.Subset(idx)}
}

// Select returns the named columns in table order. Unknown names are ignored.
func (t *Table) Select(columns ...string) *Table {
	want := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		want[c] = struct{}{}
	}
	var keep []string
	for _, c := range t.Columns() {
		if _, ok := want[c]; ok {
			keep = append(keep, c)
		}
	}
	switch len(keep) {
	case 0:
		return &Table{}
	case t.Width():
		return t.Clone()
	}
	return &Table{df: t.df.Select(keep)}
}

// Drop removes the named columns. Names that are not present are ignored.
func (t *Table) Drop(columns ...string) *Table {
	gone := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		gone[c] = struct{}{}
	}
	var keep []string
	for _, c := range t.Columns() {
		if _, ok := gone[c]; !ok {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Rename returns a table whose columns are renamed by mapping. Columns absent
// from the table are skipped and the result must still have unique names.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	names := t.Columns()
	for i, c := range names {
		if n, ok := mapping[c]; ok {
			names[i] = n
		}
	}
	if err := checkUnique(names); err != nil {
		return nil, err
	}

	df := t.df
	for _, old := range t.Columns() {
		if n, ok := mapping[old]; ok && n != old {
			df = df.Rename(n, old)
		}
	}
	return wrap(df)
}

// Mutate replaces the column named like s, or appends s as a new column
func (t *Table) Mutate(s series.Series) (*Table, error) {
	if s.Len() != t.Len() {
		return nil, fmt.Errorf("column %q has %d cells, table has %d rows", s.Name, s.Len(), t.Len())
	}
	if t.Width() == 0 {
		return New(s)
	}
	return wrap(t.df.Mutate(s))
}

// SortBy orders rows by column ascending. Rows with equal keys keep their
// order and missing keys sort last.
func (t *Table) SortBy(column string) (*Table, error) {
	if !t.Has(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	if t.Len() < 2 {
		return t.Clone(), nil
	}
	return wrap(t.df.Arrange(dataframe.Sort(column)))
}

// NonNullCount returns the number of set cells in a column
func (t *Table) NonNullCount(column string) int {
	s, ok := t.Col(column)
	if !ok {
		return 0
	}
	n := 0
	for i := 0; i < s.Len(); i++ {
		if !s.Elem(i).IsNA() {
			n++
		}
	}
	return n
}

// RowNonNullCounts returns the number of set cells in each row
func (t *Table) RowNonNullCounts() []int {
	counts := make([]int, t.Len())
	for _, c := range t.Columns() {
		s := t.df.Col(c)
		for i := range counts {
			if !s.Elem(i).IsNA() {
				counts[i]++
			}
		}
	}
	return counts
}

// CountNulls returns the number of missing cells in the whole table
func (t *Table) CountNulls() int {
	n := 0
	for _, c := range t.Columns() {
		n += t.Len() - t.NonNullCount(c)
	}
	return n
}

// Equal reports whether two tables have the same columns, types and cells
func (t *Table) Equal(o *Table) bool {
	if t.Width() != o.Width() || t.Len() != o.Len() {
		return false
	}
	for i, c := range t.Columns() {
		if o.Columns()[i] != c || t.df.Col(c).Type() != o.df.Col(c).Type() {
			return false
		}
	}
	a, b := t.Records(), o.Records()
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Header returns the column names for text sinks
func (t *Table) Header() []string { return t.Columns() }

// Records renders every row as text for text sinks
func (t *Table) Records() [][]string {
	cols := t.Columns()
	out := make([][]string, t.Len())
	for i := range out {
		out[i] = make([]string, len(cols))
	}
	for j, c := range cols {
		s := t.df.Col(c)
		for i := range out {
			out[i][j] = Text(s.Elem(i))
		}
	}
	return out
}
