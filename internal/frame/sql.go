package frame

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// sqlTypes maps database type names to series types. Types not listed load
// as text.
var sqlTypes = map[string]series.Type{
	"TINYINT": series.Int, "SMALLINT": series.Int, "MEDIUMINT": series.Int,
	"INT": series.Int, "INTEGER": series.Int, "BIGINT": series.Int, "YEAR": series.Int,
	"UNSIGNED TINYINT": series.Int, "UNSIGNED SMALLINT": series.Int,
	"UNSIGNED MEDIUMINT": series.Int, "UNSIGNED INT": series.Int, "UNSIGNED BIGINT": series.Int,
	"DECIMAL": series.Float, "NUMERIC": series.Float, "FLOAT": series.Float,
	"DOUBLE": series.Float, "REAL": series.Float,
}

// sqlNull marks a NULL column value in the loaded records
const sqlNull = "NaN"

// FromSQL materialises a result set into a table. Column types follow the
// database types the driver reports; columns it reports no type for are
// detected from their values. The caller still owns rows and must close it.
func FromSQL(rows *sql.Rows) (*Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if err := checkUnique(cols); err != nil {
		return nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	types := make(map[string]series.Type, len(cols))
	dbTypes := make([]string, len(cols))
	for i, ct := range colTypes {
		dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
		if dbTypes[i] == "" {
			continue
		}
		if st, ok := sqlTypes[dbTypes[i]]; ok {
			types[cols[i]] = st
		} else {
			types[cols[i]] = series.String
		}
	}

	records := [][]string{cols}
	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(records), err)
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			rec[i] = driverText(v, dbTypes[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	if len(records) == 1 {
		empty := make([]series.Series, len(cols))
		for i, c := range cols {
			t, ok := types[c]
			if !ok {
				t = series.String
			}
			empty[i] = series.New([]string{}, t, c)
		}
		return New(empty...)
	}

	return wrap(dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{sqlNull}),
	))
}

// driverText renders a scanned driver value as record text
func driverText(v any, dbType string) string {
	switch x := v.(type) {
	case nil:
		return sqlNull
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		if dbType == "DATE" {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
