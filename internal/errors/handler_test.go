package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", fmt.Errorf("boom"), ExitFailure},
		{"validation", NewValidationError("bad flag"), ExitUsage},
		{"config", NewConfigError("missing", nil), ExitConfig},
		{"source", NewSourceUnavailableError("down", nil), ExitSource},
		{"parsing", NewParsingError("bad", nil), ExitInput},
		{"column count", NewColumnCountError(3, 6, 5), ExitInput},
		{"schema", NewSchemaError("outlier_filter", "logerror"), ExitInput},
		{"storage", NewStorageError("disk", nil), ExitStorage},
		{"wrapped", fmt.Errorf("run: %w", NewStorageError("disk", nil)), ExitStorage},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), ExitSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestLogAttrs(t *testing.T) {
	assert.Nil(t, LogAttrs(nil))
	assert.Len(t, LogAttrs(fmt.Errorf("plain")), 1)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Error("run failed", LogAttrs(NewColumnCountError(7, 6, 4))...)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "COLUMN_COUNT", entry["error_type"])
	ctx, ok := entry["error_context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), ctx["line"])
}
