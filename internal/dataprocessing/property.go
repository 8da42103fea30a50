package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/series"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/source"
	"wranglecli/pkg/contracts/domain"
)

// DefaultPropertyCache is the CSV snapshot of the properties join
const DefaultPropertyCache = "zillow.csv"

// Literal cleaning constants of the property data set
const (
	DefaultColumnThreshold = 0.6
	DefaultRowThreshold    = 0.7
	DefaultReferenceYear   = 2021

	lotSizeFill      = 7265
	qualityFill      = 7.0
	homeValueCeiling = 5_000_000
	sqftCeiling      = 12_500
	livableSqftFloor = 500
	losAngelesFIPS   = 6037
	orangeFIPS       = 6059
	quartileColumn   = "logerror_quartiles"
	homeAgeColumn    = "home_age"
	countyColumn     = "county"
)

// singleUseCodes are the propertylandusetypeid values of single-family style parcels
var singleUseCodes = map[int64]struct{}{
	260: {}, 261: {}, 262: {}, 263: {}, 264: {}, 265: {}, 266: {},
	267: {}, 268: {}, 269: {}, 273: {}, 275: {}, 276: {}, 279: {},
}

var redundantColumns = []string{
	"id", "calculatedbathnbr", "finishedsquarefeet12",
	"fullbathcnt", "heatingorsystemtypeid",
	"propertycountylandusecode", "propertylandusetypeid",
	"propertyzoningdesc", "censustractandblock", "propertylandusedesc",
	"heatingorsystemdesc", "assessmentyear", "regionidcounty",
}

var integerColumns = []string{"fips", "buildingqualitytypeid", "bedroomcnt", homeAgeColumn, "yearbuilt"}

var propertyRenames = map[string]string{
	"bathroomcnt":                  "bathrooms",
	"bedroomcnt":                   "bedrooms",
	"buildingqualitytypeid":        "property_quality",
	"calculatedfinishedsquarefeet": "sqft",
	"lotsizesquarefeet":            "lot_sqft",
	"regionidzip":                  "zip_code",
	"landtaxvaluedollarcnt":        "land_value",
	"structuretaxvaluedollarcnt":   "structure_value",
	"taxvaluedollarcnt":            "home_value",
}

var finalDropColumns = []string{
	"rawcensustractandblock", "regionidcity", "zip_code", "roomcnt", "unitcnt", "transactiondate",
}

var quartileLabels = []string{"q1", "q2", "q3", "q4"}

// PropertyOptions tunes the property cleaning run
type PropertyOptions struct {
	ColumnThreshold float64
	RowThreshold    float64
	// ReferenceYear is the year home_age is measured against
	ReferenceYear int
}

// DefaultPropertyOptions returns the literal thresholds and reference year
func DefaultPropertyOptions() PropertyOptions {
	return PropertyOptions{
		ColumnThreshold: DefaultColumnThreshold,
		RowThreshold:    DefaultRowThreshold,
		ReferenceYear:   DefaultReferenceYear,
	}
}

// PropertyOptionsFromConfig maps the pipeline configuration section
func PropertyOptionsFromConfig(cfg config.PipelineConfig) PropertyOptions {
	return PropertyOptions{
		ColumnThreshold: cfg.ColumnThreshold,
		RowThreshold:    cfg.RowThreshold,
		ReferenceYear:   cfg.ReferenceYear,
	}
}

// AcquireProperties runs the properties join through the relational source
func AcquireProperties(ctx context.Context, src source.Source) (*frame.Table, error) {
	return src.Query(ctx, source.PropertiesJoinQuery)
}

// LoadPropertyCSV reads a saved copy of the properties join
func LoadPropertyCSV(ctx context.Context, path string) (*frame.Table, error) {
	t, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	infrastructure.WithComponent(infrastructure.GetLogger(), "zillow").InfoContext(ctx, "property file loaded",
		slog.String("path", path),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.Width()))
	return t, nil
}

// CleanProperties applies the cleaning stages to an acquired property table,
// in order and exactly once each. Rows failing a filter are dropped silently.
// The input table is not modified.
func CleanProperties(ctx context.Context, t *frame.Table, opts PropertyOptions) (*frame.Table, []StageReport, error) {
	runner := newStageRunner("zillow")
	return runner.run(ctx, t.Clone(), propertyStages(opts))
}

func propertyStages(opts PropertyOptions) []stage {
	return []stage{
		{"single_use_filter", singleUseFilter},
		{"livability_filter", livabilityFilter},
		{"sparsity_pruning", func(_ context.Context, t *frame.Table) (*frame.Table, error) {
			return DropBasedOnPct(t, opts.ColumnThreshold, opts.RowThreshold)
		}},
		{"derive_county", deriveCounty},
		{"drop_redundant_columns", dropColumns(redundantColumns...)},
		{"impute_missing", imputeMissing},
		{"drop_null_rows", dropNullRows},
		{"outlier_filter", outlierFilter},
		{"derive_home_age", deriveHomeAge(opts.ReferenceYear)},
		{"integer_casts", castIntegers},
		{"rename_columns", renameColumns},
		{"logerror_quartiles", logErrorQuartiles},
		{"final_column_drop", dropColumns(finalDropColumns...)},
	}
}

func singleUseFilter(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("single_use_filter", t, "propertylandusetypeid"); err != nil {
		return nil, err
	}
	codes, _ := t.Col("propertylandusetypeid")
	return t.Filter(func(i int) bool {
		f, ok := frame.Number(codes.Elem(i))
		if !ok || f != float64(int64(f)) {
			return false
		}
		_, keep := singleUseCodes[int64(f)]
		return keep
	}), nil
}

// livabilityFilter keeps parcels with at least one bedroom and bathroom, at
// most one unit and more than 500 finished square feet. A null in any
// compared column fails the comparison; a null unit count is allowed.
func livabilityFilter(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("livability_filter", t,
		"bedroomcnt", "bathroomcnt", "unitcnt", "calculatedfinishedsquarefeet"); err != nil {
		return nil, err
	}
	bedrooms, _ := t.Col("bedroomcnt")
	bathrooms, _ := t.Col("bathroomcnt")
	units, _ := t.Col("unitcnt")
	sqft, _ := t.Col("calculatedfinishedsquarefeet")

	return t.Filter(func(i int) bool {
		unit := units.Elem(i)
		unitOK := frame.IsNull(unit)
		if u, ok := frame.Number(unit); ok && u <= 1 {
			unitOK = true
		}
		return unitOK &&
			greater(bedrooms.Elem(i), 0) &&
			greater(bathrooms.Elem(i), 0) &&
			greater(sqft.Elem(i), livableSqftFloor)
	}), nil
}

// deriveCounty names the county of each parcel. Every FIPS code other than
// Los Angeles and Orange, null included, is Ventura.
func deriveCounty(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("derive_county", t, "fips"); err != nil {
		return nil, err
	}
	fips, _ := t.Col("fips")
	return t.Mutate(frame.Column(countyColumn, series.String, fips.Len(), func(i int) interface{} {
		return CountyName(fips.Elem(i))
	}))
}

// CountyName maps a FIPS cell to its county label
func CountyName(fips series.Element) string {
	f, ok := frame.Number(fips)
	switch {
	case ok && f == losAngelesFIPS:
		return "Los_Angeles"
	case ok && f == orangeFIPS:
		return "Orange"
	default:
		return "Ventura"
	}
}

// imputeMissing fills the lot size and quality gaps. An integer column stays
// integer; any other column becomes float.
func imputeMissing(_ context.Context, t *frame.Table) (*frame.Table, error) {
	fill := []struct {
		column string
		value  float64
	}{
		{"lotsizesquarefeet", lotSizeFill},
		{"buildingqualitytypeid", qualityFill},
	}
	for _, f := range fill {
		col, ok := t.Col(f.column)
		if !ok {
			continue
		}
		typ := col.Type()
		if typ != series.Int {
			typ = series.Float
		}
		filled, err := t.Mutate(frame.Column(f.column, typ, col.Len(), func(i int) interface{} {
			v, ok := frame.Number(col.Elem(i))
			if !ok {
				v = f.value
			}
			if typ == series.Int {
				return int(v)
			}
			return v
		}))
		if err != nil {
			return nil, err
		}
		t = filled
	}
	return t, nil
}

func dropNullRows(_ context.Context, t *frame.Table) (*frame.Table, error) {
	counts := t.RowNonNullCounts()
	width := t.Width()
	return t.Filter(func(i int) bool { return counts[i] == width }), nil
}

func outlierFilter(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("outlier_filter", t, "taxvaluedollarcnt", "calculatedfinishedsquarefeet"); err != nil {
		return nil, err
	}
	values, _ := t.Col("taxvaluedollarcnt")
	sqft, _ := t.Col("calculatedfinishedsquarefeet")
	return t.Filter(func(i int) bool {
		return less(values.Elem(i), homeValueCeiling) && less(sqft.Elem(i), sqftCeiling)
	}), nil
}

func deriveHomeAge(referenceYear int) stageFunc {
	return func(_ context.Context, t *frame.Table) (*frame.Table, error) {
		if err := requireColumns("derive_home_age", t, "yearbuilt"); err != nil {
			return nil, err
		}
		built, _ := t.Col("yearbuilt")
		return t.Mutate(frame.Column(homeAgeColumn, series.Float, built.Len(), func(i int) interface{} {
			year, ok := frame.Number(built.Elem(i))
			if !ok {
				return nil
			}
			return float64(referenceYear) - year
		}))
	}
}

func castIntegers(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("integer_casts", t, integerColumns...); err != nil {
		return nil, err
	}
	for _, column := range integerColumns {
		col, _ := t.Col(column)
		values := make([]int, col.Len())
		for i := range values {
			n, ok := frame.Integer(col.Elem(i))
			if !ok {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("cannot cast %q to integer in column %s", frame.Text(col.Elem(i)), column)).
					WithContext("row", i)
			}
			values[i] = n
		}
		cast, err := t.Mutate(series.New(values, series.Int, column))
		if err != nil {
			return nil, err
		}
		t = cast
	}
	return t, nil
}

func renameColumns(_ context.Context, t *frame.Table) (*frame.Table, error) {
	out, err := t.Rename(propertyRenames)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return out, nil
}

func logErrorQuartiles(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("logerror_quartiles", t, "logerror"); err != nil {
		return nil, err
	}
	col, _ := t.Col("logerror")
	values := make([]float64, col.Len())
	for i := range values {
		f, ok := frame.Number(col.Elem(i))
		if !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("logerror %q is not numeric", frame.Text(col.Elem(i)))).WithContext("row", i)
		}
		values[i] = f
	}
	labels, err := QuantileCut(values, quartileLabels)
	if err != nil {
		return nil, err
	}
	return t.Mutate(series.New(labels, series.String, quartileColumn))
}

// PropertyRecordsFromTable converts a cleaned table into typed records
func PropertyRecordsFromTable(t *frame.Table) (domain.PropertyRecords, error) {
	if err := requireColumns("property_records", t, domain.PropertyRecords(nil).Header()...); err != nil {
		return nil, err
	}

	num := func(column string) []float64 {
		col, _ := t.Col(column)
		out := make([]float64, col.Len())
		for i := range out {
			out[i], _ = frame.Number(col.Elem(i))
		}
		return out
	}
	integer := func(column string) []int64 {
		col, _ := t.Col(column)
		out := make([]int64, col.Len())
		for i := range out {
			n, _ := frame.Integer(col.Elem(i))
			out[i] = int64(n)
		}
		return out
	}
	text := columnText(t)

	parcels, bedrooms, quality := integer("parcelid"), integer("bedrooms"), integer("property_quality")
	fips, yearBuilt, homeAge := integer("fips"), integer("yearbuilt"), integer(homeAgeColumn)
	bathrooms, sqft, lot := num("bathrooms"), num("sqft"), num("lot_sqft")
	lat, lon := num("latitude"), num("longitude")
	structure, home, land := num("structure_value"), num("home_value"), num("land_value")
	tax, logerror := num("taxamount"), num("logerror")
	county, quartile := text(countyColumn), text(quartileColumn)

	out := make(domain.PropertyRecords, t.Len())
	for i := range out {
		out[i] = domain.PropertyRecord{
			ParcelID:         parcels[i],
			Bathrooms:        bathrooms[i],
			Bedrooms:         bedrooms[i],
			PropertyQuality:  quality[i],
			Sqft:             sqft[i],
			FIPS:             fips[i],
			Latitude:         lat[i],
			Longitude:        lon[i],
			LotSqft:          lot[i],
			YearBuilt:        yearBuilt[i],
			StructureValue:   structure[i],
			HomeValue:        home[i],
			LandValue:        land[i],
			TaxAmount:        tax[i],
			LogError:         logerror[i],
			County:           county[i],
			HomeAge:          homeAge[i],
			LogErrorQuartile: quartile[i],
		}
	}
	return out, nil
}

// dropColumns removes the named columns; absent ones are ignored
func dropColumns(columns ...string) stageFunc {
	return func(_ context.Context, t *frame.Table) (*frame.Table, error) {
		return t.Drop(columns...), nil
	}
}

func requireColumns(stage string, t *frame.Table, columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return apperrors.NewSchemaError(stage, c)
		}
	}
	return nil
}

// greater and less compare numeric cells; null or text cells compare false
func greater(e series.Element, bound float64) bool {
	f, ok := frame.Number(e)
	return ok && f > bound
}

func less(e series.Element, bound float64) bool {
	f, ok := frame.Number(e)
	return ok && f < bound
}
