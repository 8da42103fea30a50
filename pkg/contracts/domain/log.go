package domain

import (
	"strconv"
	"time"
)

// TimestampLayout is the textual form of every log timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// LogRecord is one page access read from the flat access-log file
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	UserID    int64     `json:"user_id"`
	CohortID  int64     `json:"cohort_id"` // 0 when the source value was absent
	IP        string    `json:"ip"`
}

// LogRecords is a loaded access log, ordered by timestamp
type LogRecords []LogRecord

// Header returns the sink column names
func (l LogRecords) Header() []string {
	return []string{"timestamp", "page", "userid", "cohort", "ip"}
}

// Records renders the log for text sinks
func (l LogRecords) Records() [][]string {
	out := make([][]string, len(l))
	for i, r := range l {
		out[i] = []string{
			r.Timestamp.Format(TimestampLayout),
			r.Path,
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.CohortID, 10),
			r.IP,
		}
	}
	return out
}

// LogEvent is a page access joined to its cohort and enriched with calendar fields
type LogEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	UserID     int64     `json:"user_id"`
	CohortID   int64     `json:"cohort_id"`
	IP         string    `json:"ip"`
	CohortName string    `json:"name"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	// ProgramID holds the program label, or the raw code when it has none
	ProgramID string `json:"program_id"`
	Weekday   string `json:"weekday"`
	Month     int    `json:"month"`
}

// LogEvents is a normalized access log, ordered by timestamp
type LogEvents []LogEvent

// Header returns the sink column names
func (l LogEvents) Header() []string {
	return []string{
		"datetime", "path", "user_id", "cohort_id", "ip",
		"name", "start_date", "end_date", "program_id", "weekday", "month",
	}
}

// Records renders the events for text sinks
func (l LogEvents) Records() [][]string {
	out := make([][]string, len(l))
	for i, e := range l {
		out[i] = []string{
			e.Timestamp.Format(TimestampLayout),
			e.Path,
			strconv.FormatInt(e.UserID, 10),
			strconv.FormatInt(e.CohortID, 10),
			e.IP,
			e.CohortName,
			e.StartDate,
			e.EndDate,
			e.ProgramID,
			e.Weekday,
			strconv.Itoa(e.Month),
		}
	}
	return out
}
