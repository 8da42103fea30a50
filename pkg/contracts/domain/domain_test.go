package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordsRecords(t *testing.T) {
	recs := LogRecords{{
		Timestamp: time.Date(2018, 1, 26, 9, 55, 3, 0, time.UTC),
		Path:      "/",
		UserID:    1,
		CohortID:  8,
		IP:        "97.105.19.61",
	}}

	rows := recs.Records()
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2018-01-26 09:55:03", "/", "1", "8", "97.105.19.61"}, rows[0])
	assert.Len(t, recs.Header(), len(rows[0]))
}

func TestLogEventsRecords(t *testing.T) {
	events := LogEvents{{
		Timestamp:  time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC),
		Path:       "/",
		UserID:     1,
		CohortID:   3,
		IP:         "1.2.3.4",
		CohortName: "Darden",
		ProgramID:  "DS",
		Weekday:    "Monday",
		Month:      1,
	}}

	rows := events.Records()
	require.Len(t, rows, 1)
	assert.Len(t, events.Header(), len(rows[0]))
	assert.Equal(t, "DS", rows[0][8])
	assert.Equal(t, "Monday", rows[0][9])
	assert.Equal(t, "1", rows[0][10])
}

func TestPropertyRecordsRecords(t *testing.T) {
	recs := PropertyRecords{{
		ParcelID:         11721753,
		Bathrooms:        2.5,
		Bedrooms:         3,
		FIPS:             6037,
		County:           "Los_Angeles",
		LogErrorQuartile: "q2",
	}}

	rows := recs.Records()
	require.Len(t, rows, 1)
	assert.Len(t, recs.Header(), len(rows[0]))
	assert.Equal(t, "11721753", rows[0][0])
	assert.Equal(t, "2.5", rows[0][1])
	assert.Equal(t, "Los_Angeles", rows[0][15])
	assert.Equal(t, "q2", rows[0][17])
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Lower: -1, Upper: 4}
	assert.True(t, b.Contains(-1))
	assert.True(t, b.Contains(4))
	assert.False(t, b.Contains(4.01))
}
