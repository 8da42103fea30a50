package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wranglecli/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "curriculum_logs", cfg.Database.LogsName)
	assert.Equal(t, "zillow", cfg.Database.PropertiesName)
	assert.Empty(t, cfg.Database.Host)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, 0.6, cfg.Pipeline.ColumnThreshold)
	assert.Equal(t, 0.7, cfg.Pipeline.RowThreshold)
	assert.Equal(t, 2021, cfg.Pipeline.ReferenceYear)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/reports", cfg.Paths.OutputDir)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "file overrides defaults",
			file: `
database:
  host: db.internal
  user: analyst
pipeline:
  reference_year: 2024
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "analyst", cfg.Database.User)
				assert.Equal(t, 2024, cfg.Pipeline.ReferenceYear)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 0.6, cfg.Pipeline.ColumnThreshold)
			},
		},
		{
			name: "env overrides file",
			file: `
database:
  host: db.internal
pipeline:
  row_threshold: 0.5
`,
			env: map[string]string{
				"WRANGLE_DATABASE_HOST":            "db.override",
				"WRANGLE_DATABASE_PASSWORD":        "s3cret",
				"WRANGLE_DATABASE_PROPERTIES_NAME": "zillow_2017",
				"WRANGLE_PIPELINE_ROW_THRESHOLD":   "0.8",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "db.override", cfg.Database.Host)
				assert.Equal(t, "s3cret", cfg.Database.Password)
				assert.Equal(t, "zillow_2017", cfg.Database.PropertiesName)
				assert.Equal(t, 0.8, cfg.Pipeline.RowThreshold)
			},
		},
		{
			name:    "threshold out of range",
			env:     map[string]string{"WRANGLE_PIPELINE_COLUMN_THRESHOLD": "1.5"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"WRANGLE_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"WRANGLE_PIPELINE_REFERENCE_YEAR": "twenty"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "pipeline: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "wrangle.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestDatabaseConfig_Validate(t *testing.T) {
	complete := DatabaseConfig{
		Host:           "localhost",
		User:           "analyst",
		Password:       "pw",
		LogsName:       "curriculum_logs",
		PropertiesName: "zillow",
	}
	assert.NoError(t, complete.Validate())

	tests := []struct {
		name   string
		mutate func(*DatabaseConfig)
		field  string
	}{
		{"missing host", func(d *DatabaseConfig) { d.Host = "" }, "Host"},
		{"missing user", func(d *DatabaseConfig) { d.User = "" }, "User"},
		{"missing password", func(d *DatabaseConfig) { d.Password = "" }, "Password"},
		{"missing database name", func(d *DatabaseConfig) { d.PropertiesName = "" }, "PropertiesName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := complete
			tt.mutate(&d)
			err := d.Validate()
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
			assert.Contains(t, appErr.Context["fields"], tt.field)
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = "out"

	assert.Equal(t, filepath.Join("out", "zillow.csv"), cfg.OutputPath("zillow.csv"))
	abs := filepath.Join(t.TempDir(), "x.csv")
	assert.Equal(t, abs, cfg.OutputPath(abs))
}
