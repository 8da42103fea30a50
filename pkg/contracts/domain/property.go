package domain

import "strconv"

// Bounds is an IQR fence around a numeric feature
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether v lies inside the fence, edges included
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// PropertyRecord is one cleaned parcel with its last 2017 transaction
type PropertyRecord struct {
	ParcelID         int64   `json:"parcelid"`
	Bathrooms        float64 `json:"bathrooms"`
	Bedrooms         int64   `json:"bedrooms"`
	PropertyQuality  int64   `json:"property_quality"`
	Sqft             float64 `json:"sqft"`
	FIPS             int64   `json:"fips"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	LotSqft          float64 `json:"lot_sqft"`
	YearBuilt        int64   `json:"yearbuilt"`
	StructureValue   float64 `json:"structure_value"`
	HomeValue        float64 `json:"home_value"`
	LandValue        float64 `json:"land_value"`
	TaxAmount        float64 `json:"taxamount"`
	LogError         float64 `json:"logerror"`
	County           string  `json:"county"`
	HomeAge          int64   `json:"home_age"`
	LogErrorQuartile string  `json:"logerror_quartiles"`
}

// PropertyRecords is a cleaned property table in typed form
type PropertyRecords []PropertyRecord

// Header returns the sink column names
func (p PropertyRecords) Header() []string {
	return []string{
		"parcelid", "bathrooms", "bedrooms", "property_quality", "sqft", "fips",
		"latitude", "longitude", "lot_sqft", "yearbuilt", "structure_value",
		"home_value", "land_value", "taxamount", "logerror", "county",
		"home_age", "logerror_quartiles",
	}
}

// Records renders the parcels for text sinks
func (p PropertyRecords) Records() [][]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	i := func(v int64) string { return strconv.FormatInt(v, 10) }

	out := make([][]string, len(p))
	for n, r := range p {
		out[n] = []string{
			i(r.ParcelID), f(r.Bathrooms), i(r.Bedrooms), i(r.PropertyQuality),
			f(r.Sqft), i(r.FIPS), f(r.Latitude), f(r.Longitude), f(r.LotSqft),
			i(r.YearBuilt), f(r.StructureValue), f(r.HomeValue), f(r.LandValue),
			f(r.TaxAmount), f(r.LogError), r.County, i(r.HomeAge), r.LogErrorQuartile,
		}
	}
	return out
}
