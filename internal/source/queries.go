package source

import (
	_ "embed"
)

// LogsJoinQuery joins every access log row to its cohort
//
//go:embed queries/logs_join.sql
var LogsJoinQuery string

// PropertiesJoinQuery selects each parcel with its latest 2017 transaction and
// the lookup-table descriptions; rows without coordinates are filtered out
// server-side
//
//go:embed queries/properties_join.sql
var PropertiesJoinQuery string
