package frame

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		Ints("id", 1, 2, 3),
		Strings("name", "a", nil, "c"),
		Floats("score", 1.5, 2.5, nil),
	)
	require.NoError(t, err)
	return tbl
}

func column(t *testing.T, tbl *Table, name string) []string {
	t.Helper()
	s, ok := tbl.Col(name)
	require.True(t, ok, name)
	out := make([]string, s.Len())
	for i := range out {
		out[i] = Text(s.Elem(i))
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New(Ints("a", 1), Ints("b", 1), Ints("a", 2))
	assert.Error(t, err)

	_, err = New(Ints("a", 1, 2), Ints("b", 1))
	assert.Error(t, err, "ragged columns")

	tbl := MustNew()
	assert.Equal(t, 0, tbl.Width())
	assert.Empty(t, tbl.Columns())
}

func TestTable_FilterPreservesOrder(t *testing.T) {
	tbl := sampleTable(t)
	ids, _ := tbl.Col("id")
	out := tbl.Filter(func(i int) bool {
		id, _ := Integer(ids.Elem(i))
		return id != 2
	})
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"1", "3"}, column(t, out, "id"))
	assert.Equal(t, 3, tbl.Len(), "source table is untouched")
}

func TestTable_FilterNothing(t *testing.T) {
	out := sampleTable(t).Filter(func(int) bool { return false })
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string{"id", "name", "score"}, out.Columns())
	s, _ := out.Col("score")
	assert.Equal(t, series.Float, s.Type())
}

func TestTable_SelectAndDrop(t *testing.T) {
	tbl := sampleTable(t)

	out := tbl.Drop("name", "missing")
	assert.Equal(t, []string{"id", "score"}, out.Columns())
	assert.Equal(t, []string{"1.5", "2.5", ""}, column(t, out, "score"))

	assert.Equal(t, []string{"id", "score"}, tbl.Select("score", "id", "missing").Columns())
	assert.Equal(t, 0, tbl.Drop("id", "name", "score").Width())
}

func TestTable_Mutate(t *testing.T) {
	tbl := sampleTable(t)
	ids, _ := tbl.Col("id")

	out, err := tbl.Mutate(Column("double", series.Int, tbl.Len(), func(i int) interface{} {
		id, _ := Integer(ids.Elem(i))
		return id * 2
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score", "double"}, out.Columns())
	assert.Equal(t, []string{"2", "4", "6"}, column(t, out, "double"))
	assert.Equal(t, 3, tbl.Width(), "source table is untouched")

	out, err = out.Mutate(Ints("double", 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Width())
	assert.Equal(t, []string{"0", "0", "0"}, column(t, out, "double"))

	_, err = out.Mutate(Ints("short", 1))
	assert.Error(t, err)
}

func TestTable_Rename(t *testing.T) {
	tbl := sampleTable(t)
	out, err := tbl.Rename(map[string]string{"score": "points", "absent": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "points"}, out.Columns())

	_, err = tbl.Rename(map[string]string{"score": "id"})
	assert.Error(t, err)
}

func TestTable_NullCounting(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, 2, tbl.NonNullCount("name"))
	assert.Equal(t, 0, tbl.NonNullCount("missing"))
	assert.Equal(t, 2, tbl.CountNulls())
	assert.Equal(t, []int{3, 2, 2}, tbl.RowNonNullCounts())
}

func TestTable_SortByIsStable(t *testing.T) {
	tbl := MustNew(
		Strings("k", "b", "a", "b", nil, "a"),
		Ints("seq", 0, 1, 2, 3, 4),
	)
	out, err := tbl.SortBy("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4", "0", "2", "3"}, column(t, out, "seq"))

	_, err = tbl.SortBy("missing")
	assert.Error(t, err)
}

func TestTable_EqualAndClone(t *testing.T) {
	tbl := sampleTable(t)
	c := tbl.Clone()
	assert.True(t, tbl.Equal(c))

	changed, err := c.Mutate(Strings("name", "z", nil, "c"))
	require.NoError(t, err)
	assert.False(t, tbl.Equal(changed))
	assert.Equal(t, []string{"a", "", "c"}, column(t, tbl, "name"))
}

func TestTable_Records(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, []string{"id", "name", "score"}, tbl.Header())
	assert.Equal(t, [][]string{
		{"1", "a", "1.5"},
		{"2", "", "2.5"},
		{"3", "c", ""},
	}, tbl.Records())
}

func TestCells(t *testing.T) {
	s := Floats("f", 7.9, nil)
	n, ok := Integer(s.Elem(0))
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.True(t, IsNull(s.Elem(1)))
	assert.True(t, IsNull(nil))

	_, ok = Number(Strings("s", "261").Elem(0))
	assert.False(t, ok, "text is not a number")

	for _, tok := range []string{"", " NaN ", "null", "None"} {
		assert.True(t, IsNullToken(tok), tok)
	}
	assert.False(t, IsNullToken("0"))
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffparcelid,logerror,transactiondate,zip\n1,0.5,2017-01-01,96337\n2,,2017-02-01,NaN\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"parcelid", "logerror", "transactiondate", "zip"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())

	logerror, _ := tbl.Col("logerror")
	assert.Equal(t, series.Float, logerror.Type())
	assert.True(t, IsNull(logerror.Elem(1)))

	zip, _ := tbl.Col("zip")
	assert.Equal(t, series.Int, zip.Type())
	assert.True(t, IsNull(zip.Elem(1)))

	assert.Equal(t, []string{"2017-01-01", "2017-02-01"}, column(t, tbl, "transactiondate"))
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestFromSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := mock.NewRowsWithColumnDefinition(
		mock.NewColumn("parcelid").OfType("BIGINT", int64(0)),
		mock.NewColumn("logerror").OfType("DOUBLE", float64(0)).Nullable(true),
		mock.NewColumn("transactiondate").OfType("DATE", []byte{}),
		mock.NewColumn("unitcnt").OfType("DOUBLE", float64(0)).Nullable(true),
		mock.NewColumn("zip").OfType("VARCHAR", "").Nullable(true),
	).
		AddRow(int64(10), 0.25, []byte("2017-01-01"), nil, []byte("0100")).
		AddRow(int64(11), []byte("-0.5"), []byte("2017-03-04"), []byte("1"), nil)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	res, err := db.Query("SELECT * FROM predictions_2017")
	require.NoError(t, err)
	defer res.Close()

	tbl, err := FromSQL(res)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())

	parcel, _ := tbl.Col("parcelid")
	assert.Equal(t, series.Int, parcel.Type())
	assert.Equal(t, []string{"0.25", "-0.5"}, column(t, tbl, "logerror"))
	assert.Equal(t, []string{"2017-01-01", "2017-03-04"}, column(t, tbl, "transactiondate"))
	assert.Equal(t, []string{"", "1"}, column(t, tbl, "unitcnt"))
	assert.Equal(t, []string{"0100", ""}, column(t, tbl, "zip"), "text columns keep leading zeros")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFromSQL_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(mock.NewRowsWithColumnDefinition(
		mock.NewColumn("parcelid").OfType("BIGINT", int64(0)),
	))

	res, err := db.Query("SELECT parcelid FROM properties_2017")
	require.NoError(t, err)
	defer res.Close()

	tbl, err := FromSQL(res)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []string{"parcelid"}, tbl.Columns())
}
