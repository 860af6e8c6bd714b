package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/datasource"
	"github.com/newthinker/algonex/internal/logger"
	"github.com/newthinker/algonex/internal/storage/archive"
	"github.com/newthinker/algonex/internal/strategy"
)

// EnvPrefix prefixes environment overrides, e.g. ALGONEX_DATA_PATH.
const EnvPrefix = "ALGONEX"

type Config struct {
	Log      logger.Options  `mapstructure:"log"`
	Data     DataConfig      `mapstructure:"data"`
	Archive  ArchiveConfig   `mapstructure:"archive"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Backtest BacktestConfig  `mapstructure:"backtest"`
	Strategy strategy.Config `mapstructure:"strategy"`
}

// DataConfig selects the price bar source.
type DataConfig struct {
	Source string `mapstructure:"source"` // "csv", "sqlite" or "yahoo"
	Path   string `mapstructure:"path"`   // directory or file for csv, database for sqlite, base URL override for yahoo
	Table  string `mapstructure:"table"`  // sqlite only
}

// ArchiveConfig controls where run reports are stored.
type ArchiveConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Type    string           `mapstructure:"type"` // "localfs" or "s3"
	Path    string           `mapstructure:"path"` // For localfs
	S3      archive.S3Config `mapstructure:"s3"`   // For S3
}

// Options returns the store options, with an empty type when disabled.
func (a ArchiveConfig) Options() archive.Options {
	if !a.Enabled {
		return archive.Options{}
	}
	return archive.Options{Type: a.Type, Path: a.Path, S3: a.S3}
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// BacktestConfig holds replay accounting settings.
type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
}

// Load reads configuration from file. An empty path loads the defaults with
// environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.Expand(val, os.Getenv))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}
	if len(cfg.Strategy.Indicators) == 0 {
		cfg.Strategy.Indicators = strategy.Default().Indicators
	}

	return &cfg, nil
}

// setDefaults registers every scalar default so environment overrides reach
// keys absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("data.source", d.Data.Source)
	v.SetDefault("data.path", d.Data.Path)
	v.SetDefault("data.table", d.Data.Table)

	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.s3.bucket", d.Archive.S3.Bucket)
	v.SetDefault("archive.s3.endpoint", d.Archive.S3.Endpoint)
	v.SetDefault("archive.s3.region", d.Archive.S3.Region)
	v.SetDefault("archive.s3.access_key", d.Archive.S3.AccessKey)
	v.SetDefault("archive.s3.secret_key", d.Archive.S3.SecretKey)
	v.SetDefault("archive.s3.prefix", d.Archive.S3.Prefix)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	v.SetDefault("backtest.initial_capital", d.Backtest.InitialCapital)

	v.SetDefault("strategy.signal_threshold", d.Strategy.SignalThreshold)
	v.SetDefault("strategy.require_confirmation", d.Strategy.RequireConfirmation)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Log: logger.Options{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Data: DataConfig{
			Source: datasource.KindCSV,
			Path:   "data",
			Table:  datasource.DefaultTable,
		},
		Archive: ArchiveConfig{
			Type: archive.TypeLocalFS,
			Path: "runs",
			S3: archive.S3Config{
				Region: "us-east-1",
				Prefix: "algonex",
			},
		},
		Backtest: BacktestConfig{
			InitialCapital: 10000,
		},
		Strategy: strategy.Default(),
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Log.Level != "" && !logLevels[strings.ToLower(c.Log.Level)] {
		return core.FieldError(core.ErrConfigInvalid, "log.level",
			"unknown level %q (want debug, info, warn or error)", c.Log.Level)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB < 0 {
		return core.FieldError(core.ErrConfigInvalid, "log.max_size_mb",
			"cannot be negative, got %d", c.Log.MaxSizeMB)
	}

	sources := datasource.DefaultRegistry()
	if _, ok := sources.Get(c.Data.Source); !ok {
		return core.FieldError(core.ErrConfigInvalid, "data.source",
			"unknown source %q (want one of: %s)", c.Data.Source, strings.Join(sources.Names(), ", "))
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case archive.TypeLocalFS:
			if c.Archive.Path == "" {
				return core.FieldError(core.ErrConfigMissing, "archive.path",
					"path required when type is localfs")
			}
		case archive.TypeS3:
			if c.Archive.S3.Bucket == "" {
				return core.FieldError(core.ErrConfigMissing, "archive.s3.bucket",
					"bucket required when type is s3")
			}
		default:
			return core.FieldError(core.ErrConfigInvalid, "archive.type",
				"unknown type %q (want localfs or s3)", c.Archive.Type)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Textfile == "" {
		return core.FieldError(core.ErrConfigMissing, "metrics.textfile",
			"textfile path required when metrics are enabled")
	}

	if !(c.Backtest.InitialCapital > 0) {
		return core.FieldError(core.ErrConfigInvalid, "backtest.initial_capital",
			"must be greater than 0, got %g", c.Backtest.InitialCapital)
	}

	if _, err := strategy.NewBuilder(nil).Build(c.Strategy); err != nil {
		if ce, ok := err.(*core.Error); ok {
			return ce.Within("strategy")
		}
		return err
	}
	return nil
}
