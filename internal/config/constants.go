package config

// Application constants
const (
	AppName    = "tabviz"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment override, e.g. TABVIZ_PLOT_INTERVAL.
	EnvPrefix = "TABVIZ"

	// Directories (relative to the working directory unless configured otherwise)
	DefaultDataDir   = "data"
	DefaultImagesDir = "images"
	DefaultJSONDir   = "json"
	DefaultLogsDir   = "logs"

	// ParametersFileName is the artifact written by extract and read by the later stages.
	ParametersFileName = "parameters.json"

	// Scanning
	DefaultTabularExtension = ".csv"

	// Plotting
	DefaultInterval       = 25
	HistogramBins         = 50
	HistogramGridColumns  = 3
	DefaultChartWidth     = 1200
	DefaultChartHeight    = 800
	DefaultCellWidth      = 480
	DefaultCellHeight     = 320
	ImageExtension        = "png"
	ComparisonTickSpacing = 0.1
)
