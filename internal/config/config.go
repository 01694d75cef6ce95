package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete tool configuration
type Config struct {
	Logging    LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Scan       ScanConfig          `yaml:"scan" envconfig:"SCAN"`
	Plot       PlotConfig          `yaml:"plot" envconfig:"PLOT"`
	Telemetry  TelemetryConfig     `yaml:"telemetry" envconfig:"TELEMETRY"`
	Exclusions map[string][]string `yaml:"exclusions" ignored:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains the directories every stage reads from or writes to
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ImagesDir string `yaml:"images_dir" envconfig:"IMAGES_DIR" validate:"required"`
	JSONDir   string `yaml:"json_dir" envconfig:"JSON_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ScanConfig controls which files the extractor treats as tables
type ScanConfig struct {
	Extensions []string `yaml:"extensions" envconfig:"EXTENSIONS" validate:"min=1,dive,startswith=."`
}

// PlotConfig contains chart rendering settings
type PlotConfig struct {
	Interval    int `yaml:"interval" envconfig:"INTERVAL" validate:"min=1"`
	Bins        int `yaml:"bins" envconfig:"BINS" validate:"min=1"`
	GridColumns int `yaml:"grid_columns" envconfig:"GRID_COLUMNS" validate:"min=1"`
	Width       int `yaml:"width" envconfig:"WIDTH" validate:"min=100"`
	Height      int `yaml:"height" envconfig:"HEIGHT" validate:"min=100"`
	CellWidth   int `yaml:"cell_width" envconfig:"CELL_WIDTH" validate:"min=100"`
	CellHeight  int `yaml:"cell_height" envconfig:"CELL_HEIGHT" validate:"min=100"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, the YAML file (configFile, or
// a well-known location when empty), an optional .env file and TABVIZ_*
// environment variables, then validates it.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
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

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ExclusionOverrides returns the configured file name -> exclusion terms table
func (c *Config) ExclusionOverrides() map[string][]string {
	out := make(map[string][]string, len(c.Exclusions))
	for name, terms := range c.Exclusions {
		out[name] = append([]string(nil), terms...)
	}
	return out
}

// getConfigFilePath returns the first config file found in the usual places
func getConfigFilePath() string {
	locations := []string{
		"tabviz.yaml",
		"configs/tabviz.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogsDir + "/" + AppName + ".log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			ImagesDir: DefaultImagesDir,
			JSONDir:   DefaultJSONDir,
			LogsDir:   DefaultLogsDir,
		},
		Scan: ScanConfig{
			Extensions: []string{DefaultTabularExtension},
		},
		Plot: PlotConfig{
			Interval:    DefaultInterval,
			Bins:        HistogramBins,
			GridColumns: HistogramGridColumns,
			Width:       DefaultChartWidth,
			Height:      DefaultChartHeight,
			CellWidth:   DefaultCellWidth,
			CellHeight:  DefaultCellHeight,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
