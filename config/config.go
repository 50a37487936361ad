// Package config holds the monitoring layer configuration.
//
// Invalid settings never abort startup: Validate returns human-readable
// messages and ApplyDefaults substitutes the defaults, so the system always
// comes up.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete monitoring configuration.
type Config struct {
	// Logging
	LogLevel     string `json:"log_level" yaml:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format"` // json, text or both
	LogFile      string `json:"log_file" yaml:"log_file"`
	LogMaxSizeMB int    `json:"log_max_size_mb" yaml:"log_max_size_mb"`
	LogBackups   int    `json:"log_backups" yaml:"log_backups"`

	// Metrics
	MetricsInterval string `json:"metrics_interval" yaml:"metrics_interval"` // e.g. "60s"
	RetentionDays   int    `json:"retention_days" yaml:"retention_days"`
	HourlyGrowth    bool   `json:"hourly_growth" yaml:"hourly_growth"`

	// Dashboard
	DashboardRefresh string   `json:"dashboard_refresh" yaml:"dashboard_refresh"`
	MaxDataPoints    int      `json:"max_data_points" yaml:"max_data_points"`
	Symbols          []string `json:"symbols" yaml:"symbols"`

	// Storage
	DBPath string `json:"db_path" yaml:"db_path"`

	// Feature toggles
	PerformanceMonitoring bool   `json:"performance_monitoring" yaml:"performance_monitoring"`
	TrackTrades           bool   `json:"track_trades" yaml:"track_trades"`
	LiquidityTracking     bool   `json:"liquidity_tracking" yaml:"liquidity_tracking"`
	LiquidityInterval     string `json:"liquidity_interval" yaml:"liquidity_interval"`
	ErrorTracking         bool   `json:"error_tracking" yaml:"error_tracking"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		LogLevel:              "INFO",
		LogFormat:             "both",
		LogFile:               "logs/poseidon_monitor.log",
		LogMaxSizeMB:          10,
		LogBackups:            5,
		MetricsInterval:       "60s",
		RetentionDays:         30,
		HourlyGrowth:          true,
		DashboardRefresh:      "30s",
		MaxDataPoints:         10000,
		Symbols:               []string{"BTCUSDT", "ETHUSDT", "ADAUSDT"},
		DBPath:                "poseidon_metrics.db",
		PerformanceMonitoring: true,
		TrackTrades:           true,
		LiquidityTracking:     true,
		LiquidityInterval:     "15m",
		ErrorTracking:         true,
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv returns the defaults overlaid with POSEIDON_* environment
// variables. Unparseable values are left at their defaults; Validate reports
// anything still out of range.
func FromEnv() Config {
	cfg := Default()

	envString(&cfg.LogLevel, "POSEIDON_LOG_LEVEL")
	envString(&cfg.LogFormat, "POSEIDON_LOG_FORMAT")
	envString(&cfg.LogFile, "POSEIDON_LOG_FILE")
	envInt(&cfg.LogMaxSizeMB, "POSEIDON_LOG_MAX_SIZE_MB")
	envInt(&cfg.LogBackups, "POSEIDON_LOG_BACKUP_COUNT")
	envString(&cfg.MetricsInterval, "POSEIDON_METRICS_INTERVAL")
	envInt(&cfg.RetentionDays, "POSEIDON_METRICS_RETENTION_DAYS")
	envBool(&cfg.HourlyGrowth, "POSEIDON_HOURLY_GROWTH")
	envString(&cfg.DashboardRefresh, "POSEIDON_DASHBOARD_REFRESH")
	envInt(&cfg.MaxDataPoints, "POSEIDON_MAX_DATA_POINTS")
	envString(&cfg.DBPath, "POSEIDON_DB_PATH")
	envBool(&cfg.PerformanceMonitoring, "POSEIDON_PERFORMANCE_MONITORING")
	envBool(&cfg.TrackTrades, "POSEIDON_TRACK_TRADES")
	envBool(&cfg.LiquidityTracking, "POSEIDON_LIQUIDITY_TRACKING")
	envString(&cfg.LiquidityInterval, "POSEIDON_LIQUIDITY_INTERVAL")
	envBool(&cfg.ErrorTracking, "POSEIDON_ERROR_TRACKING")

	if v := os.Getenv("POSEIDON_SYMBOLS"); v != "" {
		var symbols []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) > 0 {
			cfg.Symbols = symbols
		}
	}

	return cfg
}

// Validate returns a list of human-readable problems. An empty list means the
// configuration is usable as-is.
func (c Config) Validate() []string {
	var errs []string

	if c.LogMaxSizeMB < 1 {
		errs = append(errs, "log_max_size_mb must be a positive integer >= 1")
	}
	if c.LogBackups < 1 {
		errs = append(errs, "log_backups must be a positive integer >= 1")
	}
	if c.RetentionDays < 1 {
		errs = append(errs, "retention_days must be a positive integer >= 1")
	}
	if c.MaxDataPoints < 100 {
		errs = append(errs, "max_data_points must be a positive integer >= 100")
	}
	if _, err := time.ParseDuration(c.MetricsInterval); err != nil {
		errs = append(errs, fmt.Sprintf("metrics_interval %q is not a valid duration", c.MetricsInterval))
	}
	if _, err := time.ParseDuration(c.DashboardRefresh); err != nil {
		errs = append(errs, fmt.Sprintf("dashboard_refresh %q is not a valid duration", c.DashboardRefresh))
	}
	if _, err := time.ParseDuration(c.LiquidityInterval); err != nil {
		errs = append(errs, fmt.Sprintf("liquidity_interval %q is not a valid duration", c.LiquidityInterval))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text", "both":
	default:
		errs = append(errs, fmt.Sprintf("log_format %q must be json, text or both", c.LogFormat))
	}
	if c.DBPath == "" {
		errs = append(errs, "db_path is required")
	}

	return errs
}

// ApplyDefaults replaces every invalid field with its default so the system
// can proceed after logging the validation messages.
func (c *Config) ApplyDefaults() {
	def := Default()

	if c.LogMaxSizeMB < 1 {
		c.LogMaxSizeMB = def.LogMaxSizeMB
	}
	if c.LogBackups < 1 {
		c.LogBackups = def.LogBackups
	}
	if c.RetentionDays < 1 {
		c.RetentionDays = def.RetentionDays
	}
	if c.MaxDataPoints < 100 {
		c.MaxDataPoints = def.MaxDataPoints
	}
	if _, err := time.ParseDuration(c.MetricsInterval); err != nil {
		c.MetricsInterval = def.MetricsInterval
	}
	if _, err := time.ParseDuration(c.DashboardRefresh); err != nil {
		c.DashboardRefresh = def.DashboardRefresh
	}
	if _, err := time.ParseDuration(c.LiquidityInterval); err != nil {
		c.LiquidityInterval = def.LiquidityInterval
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text", "both":
	default:
		c.LogFormat = def.LogFormat
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if len(c.Symbols) == 0 {
		c.Symbols = def.Symbols
	}
}

// MetricsEvery parses MetricsInterval, falling back to the default.
func (c Config) MetricsEvery() time.Duration {
	return parseDuration(c.MetricsInterval, "60s")
}

// DashboardEvery parses DashboardRefresh, falling back to the default.
func (c Config) DashboardEvery() time.Duration {
	return parseDuration(c.DashboardRefresh, "30s")
}

// LiquidityEvery parses LiquidityInterval, falling back to the default.
func (c Config) LiquidityEvery() time.Duration {
	return parseDuration(c.LiquidityInterval, "15m")
}

func parseDuration(s, fallback string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.EqualFold(v, "true") || v == "1"
	}
}
