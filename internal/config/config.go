package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "wranglecli/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. WRANGLE_DATABASE_HOST
const EnvPrefix = "WRANGLE"

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// DatabaseConfig holds the connection parameters of the relational source.
// Credentials have no defaults; they are checked by Validate before a
// connection is attempted, so file-based runs do not need them.
//
// The fields carry no envconfig tags: a tag makes envconfig fall back to the
// bare variable (USER, HOST) when WRANGLE_DATABASE_* is unset.
type DatabaseConfig struct {
	Host           string `yaml:"host" validate:"required"`
	User           string `yaml:"user" validate:"required"`
	Password       string `yaml:"password" validate:"required"`
	LogsName       string `yaml:"logs_name" split_words:"true" validate:"required"`
	PropertiesName string `yaml:"properties_name" split_words:"true" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// PipelineConfig holds the tunables of the property cleaning run
type PipelineConfig struct {
	ColumnThreshold float64 `yaml:"column_threshold" envconfig:"COLUMN_THRESHOLD" validate:"min=0,max=1"`
	RowThreshold    float64 `yaml:"row_threshold" envconfig:"ROW_THRESHOLD" validate:"min=0,max=1"`
	ReferenceYear   int     `yaml:"reference_year" envconfig:"REFERENCE_YEAR" validate:"min=1800"`
}

// TelemetryConfig controls tracing and the metrics text file
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

var validate = validator.New()

// Load builds the configuration from defaults, then the YAML file at path (if
// path is empty the usual locations are searched), then WRANGLE_* environment
// variables. Environment values take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not readable", path), err)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate checks everything except the database credentials
func (c *Config) validate() error {
	for name, section := range map[string]interface{}{
		"logging":   c.Logging,
		"paths":     c.Paths,
		"pipeline":  c.Pipeline,
		"telemetry": c.Telemetry,
	} {
		if err := validate.Struct(section); err != nil {
			return apperrors.NewConfigError(fmt.Sprintf("invalid %s configuration", name), err)
		}
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging.file_path is required when output is file or both", nil)
	}
	return nil
}

// Validate fails fast when a connection parameter is missing
func (d DatabaseConfig) Validate() error {
	if err := validate.Struct(d); err != nil {
		var missing []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
		}
		return apperrors.NewConfigError("database configuration incomplete", err).
			WithContext("fields", missing)
	}
	return nil
}

// OutputPath resolves a file name against the output directory; absolute
// paths are returned unchanged
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.OutputDir, name)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"wrangle.yaml",
		"configs/wrangle.yaml",
		"../configs/wrangle.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			LogsName:       "curriculum_logs",
			PropertiesName: "zillow",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/wrangle.log",
		},
		Paths: PathsConfig{
			OutputDir: "data/reports",
		},
		Pipeline: PipelineConfig{
			ColumnThreshold: 0.6,
			RowThreshold:    0.7,
			ReferenceYear:   2021,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			SampleRatio:   1.0,
		},
	}
}
