// Package dataprocessing holds the two cleaning pipelines and the IQR bounds
// utility they share.
//
// # Log pipeline
//
// LoadLogFile and ParseLogs read the space separated access log (date, time,
// page, userid, cohort, ip) into LogRecords ordered by timestamp.
// LoadLogsFromSource runs the logs-to-cohorts join and NormalizeLogs turns the
// joined rows into LogEvents with weekday, month and program labels.
//
// # Property pipeline
//
// AcquireProperties (or LoadPropertyCSV for a saved copy) produces the raw
// joined table. CleanProperties then runs these stages in order:
//
//	single_use_filter       keep single-family land use codes
//	livability_filter       bedrooms > 0, bathrooms > 0, units <= 1 or null, sqft > 500
//	sparsity_pruning        DropBasedOnPct(column 0.6, row 0.7)
//	derive_county           6037 Los_Angeles, 6059 Orange, else Ventura
//	drop_redundant_columns
//	impute_missing          lot size 7265, quality 7.0
//	drop_null_rows
//	outlier_filter          home value < 5,000,000 and sqft < 12,500
//	derive_home_age         reference year - yearbuilt
//	integer_casts
//	rename_columns
//	logerror_quartiles      q1..q4 equal-frequency bins of logerror
//	final_column_drop
//
// Every stage is traced as an OpenTelemetry span and reported as a
// StageReport. Filters never fail; a stage that needs a missing column returns
// a SCHEMA error.
//
// # Bounds
//
// ComputeBounds returns the Tukey fence p25 - m*IQR, p75 + m*IQR using
// linearly interpolated quantiles. DefaultIQRMultiplier is 1.5.
package dataprocessing
