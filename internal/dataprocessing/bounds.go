package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
	"wranglecli/pkg/contracts/domain"
)

// DefaultIQRMultiplier is the conventional Tukey fence multiplier
const DefaultIQRMultiplier = 1.5

// Quantile returns the p-quantile of sorted values using linear interpolation
// between the closest ranks (position p*(n-1)). It returns NaN for no values.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ComputeBounds returns the IQR fence of values:
//
//	lower = p25 - multiplier*(p75-p25)
//	upper = p75 + multiplier*(p75-p25)
func ComputeBounds(values []float64, multiplier float64) (domain.Bounds, error) {
	if len(values) == 0 {
		return domain.Bounds{}, apperrors.NewValidationError("cannot compute bounds of an empty column")
	}
	if multiplier < 0 || math.IsNaN(multiplier) {
		return domain.Bounds{}, apperrors.NewValidationError(
			fmt.Sprintf("bounds multiplier must be non-negative, got %v", multiplier))
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1

	return domain.Bounds{
		Lower: q1 - multiplier*iqr,
		Upper: q3 + multiplier*iqr,
	}, nil
}

// NumericColumn returns the set cells of a column as floats
func NumericColumn(t *frame.Table, column string) ([]float64, error) {
	s, ok := t.Col(column)
	if !ok {
		return nil, apperrors.NewSchemaError("numeric column", column)
	}
	out := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if frame.IsNull(e) {
			continue
		}
		f, ok := frame.Number(e)
		if !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("column %q row %d is not numeric: %q", column, i, frame.Text(e)))
		}
		out = append(out, f)
	}
	return out, nil
}

// ColumnBounds computes the IQR fence of a table column, ignoring nulls
func ColumnBounds(t *frame.Table, column string, multiplier float64) (domain.Bounds, error) {
	values, err := NumericColumn(t, column)
	if err != nil {
		return domain.Bounds{}, err
	}
	return ComputeBounds(values, multiplier)
}

// CountOutside returns how many non-null cells of column fall outside b
func CountOutside(t *frame.Table, column string, b domain.Bounds) (int, error) {
	values, err := NumericColumn(t, column)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range values {
		if !b.Contains(v) {
			n++
		}
	}
	return n, nil
}

// QuantileCut assigns each value one of len(labels) equal-frequency bins.
// Bin edges are the i/q quantiles; the first bin is closed on both ends and
// the others are (lower, upper]. Duplicate edges make the cut ambiguous and
// are rejected.
func QuantileCut(values []float64, labels []string) ([]string, error) {
	q := len(labels)
	if q == 0 {
		return nil, apperrors.NewValidationError("quantile cut needs at least one label")
	}
	if len(values) == 0 {
		return []string{}, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, q+1)
	for i := range edges {
		edges[i] = Quantile(sorted, float64(i)/float64(q))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("quantile bin edges must be unique, got %v", edges)).
				WithContext("edges", edges)
		}
	}

	out := make([]string, len(values))
	for i, v := range values {
		bin := sort.SearchFloat64s(edges, v) - 1
		if bin < 0 {
			bin = 0
		}
		if bin >= q {
			bin = q - 1
		}
		out[i] = labels[bin]
	}
	return out, nil
}
