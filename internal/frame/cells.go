package frame

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// NullTokens are the textual spellings read as missing values
var NullTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "None", "<nil>"}

// IsNullToken reports whether s spells a missing value
func IsNullToken(s string) bool {
	s = strings.TrimSpace(s)
	for _, tok := range NullTokens {
		if s == tok {
			return true
		}
	}
	return false
}

// IsNull reports whether a cell is missing
func IsNull(e series.Element) bool {
	return e == nil || e.IsNA()
}

// Number returns the value of an int or float cell. Text and bool cells are
// not numbers even when they look like one.
func Number(e series.Element) (float64, bool) {
	if IsNull(e) {
		return 0, false
	}
	switch e.Type() {
	case series.Int, series.Float:
		return e.Float(), true
	}
	return 0, false
}

// Integer returns a numeric cell truncated toward zero, matching a float-to-int cast
func Integer(e series.Element) (int, bool) {
	f, ok := Number(e)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Text renders a cell for text sinks. Missing cells render as the empty
// string and floats use the shortest exact decimal form.
func Text(e series.Element) string {
	if IsNull(e) {
		return ""
	}
	switch e.Type() {
	case series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	case series.Int:
		n, _ := e.Int()
		return strconv.Itoa(n)
	}
	return e.String()
}

// Column builds a series of n cells from cell. A nil cell is missing.
func Column(name string, t series.Type, n int, cell func(row int) interface{}) series.Series {
	values := make([]interface{}, n)
	for i := range values {
		values[i] = cell(i)
	}
	return series.New(values, t, name)
}

// Ints builds an integer series; nil entries are missing
func Ints(name string, values ...interface{}) series.Series {
	return series.New(values, series.Int, name)
}

// Floats builds a float series; nil entries are missing
func Floats(name string, values ...interface{}) series.Series {
	return series.New(values, series.Float, name)
}

// Strings builds a text series; nil entries are missing
func Strings(name string, values ...interface{}) series.Series {
	return series.New(values, series.String, name)
}
