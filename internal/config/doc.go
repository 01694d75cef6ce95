// Package config provides configuration loading for the tabviz command line tools.
//
// # Configuration Sources
//
// Values are layered, later sources overriding earlier ones:
//
//  1. Defaults (Default())
//  2. YAML file (--config, tabviz.yaml or configs/tabviz.yaml)
//  3. .env file in the working directory
//  4. Environment variables prefixed with TABVIZ_
//  5. Command line flags (applied by each command)
//
// # Environment Variables
//
//	TABVIZ_LOGGING_LEVEL=debug
//	TABVIZ_PATHS_DATA_DIR=/srv/data
//	TABVIZ_PLOT_INTERVAL=10
//	TABVIZ_SCAN_EXTENSIONS=.csv,.xlsx
//	TABVIZ_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/tabviz.prom
//
// # Exclusions
//
// Per-file column exclusion lists can only be set from the YAML file:
//
//	exclusions:
//	  fetal.csv: [histogram, mean, percent]
//	  sensors.csv: [raw_]
//
// All loaded configuration is validated with struct tags before use.
package config
