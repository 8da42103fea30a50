package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/series"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/frame"
	"wranglecli/internal/infrastructure"
	"wranglecli/internal/source"
	"wranglecli/pkg/contracts/domain"
)

// DefaultLogFile is the access log shipped with the curriculum dataset
const DefaultLogFile = "anonymized-curriculum-access.txt"

// logFileFields is the fixed layout of an access log line:
// date time page userid cohort ip
const logFileFields = 6

// datetimeLayout stores merged timestamps as text that sorts chronologically
const datetimeLayout = "2006-01-02 15:04:05.999999999"

// timestampLayouts are tried in order when merging a date and a time field
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
}

// programLabels names the curriculum program codes
var programLabels = map[int64]string{
	1: "FS_PHP",
	2: "FS_Java",
	3: "DS",
	4: "frontend",
}

// logAuditColumns are removed by NormalizeLogs once the timestamp is merged
var logAuditColumns = []string{"date", "time", "id", "slack", "created_at", "updated_at", "deleted_at"}

// LoadLogFile reads an access log from disk
func LoadLogFile(ctx context.Context, path string) (domain.LogRecords, error) {
	logger := infrastructure.WithComponent(infrastructure.GetLogger(), "logs")

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError("cannot open log file", err).
			WithContext("path", path)
	}
	defer f.Close()

	records, err := ParseLogs(f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "log file loaded",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return records, nil
}

// ParseLogs parses single-space separated access log lines with no header.
// Every line must carry exactly six fields. An absent cohort becomes 0. The
// first bad line aborts the whole load. Records are returned in ascending
// timestamp order; lines with equal timestamps keep their file order.
func ParseLogs(r io.Reader) (domain.LogRecords, error) {
	reader := csv.NewReader(r)
	reader.Comma = ' '
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var records domain.LogRecords
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed log line", err)
		}

		line, _ := reader.FieldPos(0)
		if len(fields) != logFileFields {
			return nil, apperrors.NewColumnCountError(line, logFileFields, len(fields))
		}

		rec, lineErr := parseLogLine(fields)
		if lineErr != nil {
			return nil, lineErr.WithContext("line", line)
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func parseLogLine(fields []string) (domain.LogRecord, *apperrors.AppError) {
	ts, err := parseTimestamp(fields[0], fields[1])
	if err != nil {
		return domain.LogRecord{}, err
	}

	userID, perr := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if perr != nil {
		return domain.LogRecord{}, apperrors.NewParsingError(fmt.Sprintf("invalid userid %q", fields[3]), perr)
	}

	var cohort int64
	if !frame.IsNullToken(fields[4]) {
		c, perr := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if perr != nil {
			return domain.LogRecord{}, apperrors.NewParsingError(fmt.Sprintf("invalid cohort %q", fields[4]), perr)
		}
		cohort = int64(c)
	}

	return domain.LogRecord{
		Timestamp: ts,
		Path:      fields[2],
		UserID:    userID,
		CohortID:  cohort,
		IP:        fields[5],
	}, nil
}

// parseTimestamp merges a date and a time of day into one UTC timestamp
func parseTimestamp(date, clock string) (time.Time, *apperrors.AppError) {
	merged := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, merged)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, apperrors.NewParsingError(fmt.Sprintf("invalid timestamp %q", merged), lastErr)
}

// LoadLogsFromSource runs the logs-to-cohorts join and returns the raw rows
func LoadLogsFromSource(ctx context.Context, src source.Source) (*frame.Table, error) {
	return src.Query(ctx, source.LogsJoinQuery)
}

// NormalizeLogs turns the raw joined rows into timestamp-ordered events with
// calendar fields and program labels. The input table is not modified.
func NormalizeLogs(ctx context.Context, t *frame.Table) (domain.LogEvents, []StageReport, error) {
	runner := newStageRunner("logs")
	out, reports, err := runner.run(ctx, t.Clone(), []stage{
		{"merge_timestamp", mergeTimestamp},
		{"drop_audit_columns", dropColumns(logAuditColumns...)},
		{"sort_by_timestamp", sortByTimestamp},
		{"calendar_fields", calendarFields},
		{"program_labels", programLabelStage},
	})
	if err != nil {
		return nil, reports, err
	}

	events, err := logEventsFromTable(out)
	if err != nil {
		return nil, reports, err
	}
	return events, reports, nil
}

func mergeTimestamp(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("merge_timestamp", t, "date", "time"); err != nil {
		return nil, err
	}
	dates, _ := t.Col("date")
	clocks, _ := t.Col("time")

	stamps := make([]interface{}, t.Len())
	for i := range stamps {
		ts, err := parseTimestamp(frame.Text(dates.Elem(i)), frame.Text(clocks.Elem(i)))
		if err != nil {
			return nil, err.WithContext("row", i)
		}
		stamps[i] = ts.Format(datetimeLayout)
	}
	return t.Mutate(series.New(stamps, series.String, "datetime"))
}

func sortByTimestamp(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("sort_by_timestamp", t, "datetime"); err != nil {
		return nil, err
	}
	return t.SortBy("datetime")
}

func calendarFields(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("calendar_fields", t, "datetime"); err != nil {
		return nil, err
	}
	stamps, err := timestamps(t)
	if err != nil {
		return nil, err
	}

	out, err := t.Mutate(frame.Column("weekday", series.String, len(stamps), func(i int) interface{} {
		return stamps[i].Weekday().String()
	}))
	if err != nil {
		return nil, err
	}
	return out.Mutate(frame.Column("month", series.Int, len(stamps), func(i int) interface{} {
		return int(stamps[i].Month())
	}))
}

// timestamps parses the merged datetime column
func timestamps(t *frame.Table) ([]time.Time, error) {
	col, _ := t.Col("datetime")
	out := make([]time.Time, col.Len())
	for i := range out {
		ts, err := time.Parse(domain.TimestampLayout, frame.Text(col.Elem(i)))
		if err != nil {
			return nil, apperrors.NewParsingError("invalid datetime", err).WithContext("row", i)
		}
		out[i] = ts
	}
	return out, nil
}

// programLabelStage replaces known program codes with their labels. Unknown
// codes are kept as their decimal text and nulls stay null.
func programLabelStage(_ context.Context, t *frame.Table) (*frame.Table, error) {
	if err := requireColumns("program_labels", t, "program_id"); err != nil {
		return nil, err
	}
	codes, _ := t.Col("program_id")
	return t.Mutate(frame.Column("program_id", series.String, codes.Len(), func(i int) interface{} {
		return programLabel(codes.Elem(i))
	}))
}

// programLabel returns the label of a program code, its decimal text when
// the code is unknown, or nil for a missing code
func programLabel(e series.Element) interface{} {
	if frame.IsNull(e) {
		return nil
	}
	if f, ok := frame.Number(e); ok && f == float64(int64(f)) {
		if label, known := programLabels[int64(f)]; known {
			return label
		}
	}
	return frame.Text(e)
}

func logEventsFromTable(t *frame.Table) (domain.LogEvents, error) {
	if err := requireColumns("log_events", t,
		"datetime", "path", "user_id", "cohort_id", "ip", "program_id", "weekday", "month"); err != nil {
		return nil, err
	}
	stamps, err := timestamps(t)
	if err != nil {
		return nil, err
	}

	text := columnText(t)
	integer := func(column string) []int64 {
		col, _ := t.Col(column)
		out := make([]int64, col.Len())
		for i := range out {
			n, _ := frame.Integer(col.Elem(i))
			out[i] = int64(n)
		}
		return out
	}
	paths, ips, names := text("path"), text("ip"), text("name")
	starts, ends := text("start_date"), text("end_date")
	programs, weekdays := text("program_id"), text("weekday")
	users, cohorts, months := integer("user_id"), integer("cohort_id"), integer("month")

	events := make(domain.LogEvents, t.Len())
	for i := range events {
		events[i] = domain.LogEvent{
			Timestamp:  stamps[i],
			Path:       paths[i],
			UserID:     users[i],
			CohortID:   cohorts[i],
			IP:         ips[i],
			CohortName: names[i],
			StartDate:  starts[i],
			EndDate:    ends[i],
			ProgramID:  programs[i],
			Weekday:    weekdays[i],
			Month:      int(months[i]),
		}
	}
	return events, nil
}

// columnText returns a function rendering a whole column as text. A column
// the table lacks renders as empty strings.
func columnText(t *frame.Table) func(column string) []string {
	return func(column string) []string {
		out := make([]string, t.Len())
		col, ok := t.Col(column)
		if !ok {
			return out
		}
		for i := range out {
			out[i] = frame.Text(col.Elem(i))
		}
		return out
	}
}
