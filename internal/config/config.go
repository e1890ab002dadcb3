package config

import "time"

// Config is the root configuration of the isorecord CLI.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Catalogue  CatalogueConfig  `yaml:"catalogue"`
	Validation ValidationConfig `yaml:"validation"`
	Watch      WatchConfig      `yaml:"watch"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"ISORECORD_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"ISORECORD_LOG_FORMAT" env-default:"text"`
}

// CatalogueConfig selects the reference data catalogue.
// An empty Dir uses the catalogue embedded in the binary.
type CatalogueConfig struct {
	Dir string `yaml:"dir" env:"ISORECORD_CATALOGUE_DIR"`

	// Settings replaces individual entries of the catalogue's settings table,
	// e.g. items_base_url for a staging site.
	Settings map[string]string `yaml:"settings" env:"ISORECORD_CATALOGUE_SETTINGS"`
}

// ValidationConfig holds record validation settings.
// An empty SchemaPath uses the embedded record schema.
type ValidationConfig struct {
	SchemaPath string `yaml:"schema_path" env:"ISORECORD_SCHEMA_PATH"`
}

// WatchConfig holds settings for re-validating files as they change.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"ISORECORD_WATCH_DEBOUNCE" env-default:"250ms"`
}

// MetricsConfig holds validation metrics settings.
// When File is set, metrics are written there in Prometheus text format after each run.
type MetricsConfig struct {
	File string `yaml:"file" env:"ISORECORD_METRICS_FILE"`
}
