// Package config handles configuration loading using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"firestige.xyz/netsniff/internal/core"
)

// Config represents the top-level configuration.
// Maps to the `netsniff:` root key in YAML.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Filter  FilterConfig  `mapstructure:"filter" yaml:"filter"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ─── Capture ───

// CaptureConfig selects the frame source. PcapFile takes precedence over
// Interface when both are set.
type CaptureConfig struct {
	Interface    string `mapstructure:"interface" yaml:"interface"`
	PcapFile     string `mapstructure:"pcap_file" yaml:"pcap_file"`
	SnapLen      int    `mapstructure:"snap_len" yaml:"snap_len"`
	BufferSizeMB int    `mapstructure:"buffer_size_mb" yaml:"buffer_size_mb"`
	TimeoutMs    int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	KernelFilter bool   `mapstructure:"kernel_filter" yaml:"kernel_filter"` // attach port 80/53 BPF prefilter
}

// ─── Filter ───

// FilterConfig holds the report mode. Empty means ask interactively.
type FilterConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"` // tcp / udp / all
}

// ─── Output ───

// OutputConfig controls the console dump.
type OutputConfig struct {
	Printable       string `mapstructure:"printable" yaml:"printable"` // legacy (32..128) / ascii (32..126)
	DNSPayloadLimit int    `mapstructure:"dns_payload_limit" yaml:"dns_payload_limit"`
	LineWidth       int    `mapstructure:"line_width" yaml:"line_width"`
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level      string           `mapstructure:"level" yaml:"level"`   // trace / debug / info / warn / error
	Format     string           `mapstructure:"format" yaml:"format"` // json / text / pattern
	Pattern    string           `mapstructure:"pattern" yaml:"pattern"`
	TimeFormat string           `mapstructure:"time_format" yaml:"time_format"`
	Outputs    LogOutputsConfig `mapstructure:"outputs" yaml:"outputs"`
}

// LogOutputsConfig contains log output destinations besides stderr.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file" yaml:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled" yaml:"enabled"`
	Path     string         `mapstructure:"path" yaml:"path"`
	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`   // MB
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// ─── Loading ───

// configRoot is the top-level wrapper matching the YAML structure `netsniff: ...`.
type configRoot struct {
	Netsniff Config `mapstructure:"netsniff" yaml:"netsniff"`
}

// Load loads configuration. An empty path searches ./netsniff.yaml and
// /etc/netsniff/netsniff.yaml and falls back to defaults when neither
// exists; an explicit path must be readable.
// Env vars override file values with the NETSNIFF_ prefix (e.g. NETSNIFF_LOG_LEVEL).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("netsniff")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/netsniff")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// key "netsniff.log.level" → env "NETSNIFF_LOG_LEVEL"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Netsniff

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use "netsniff." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("netsniff.capture.interface", "")
	v.SetDefault("netsniff.capture.pcap_file", "")
	v.SetDefault("netsniff.capture.snap_len", 65536)
	v.SetDefault("netsniff.capture.buffer_size_mb", 8)
	v.SetDefault("netsniff.capture.timeout_ms", 100)
	v.SetDefault("netsniff.capture.kernel_filter", false)

	// Filter defaults
	v.SetDefault("netsniff.filter.mode", "")

	// Output defaults
	v.SetDefault("netsniff.output.printable", "legacy")
	v.SetDefault("netsniff.output.dns_payload_limit", 100)
	v.SetDefault("netsniff.output.line_width", 16)

	// Log defaults
	v.SetDefault("netsniff.log.level", "info")
	v.SetDefault("netsniff.log.format", "pattern")
	v.SetDefault("netsniff.log.pattern", "%time [%level] %msg %field")
	v.SetDefault("netsniff.log.time_format", "2006-01-02 15:04:05.000")
	v.SetDefault("netsniff.log.outputs.file.enabled", false)
	v.SetDefault("netsniff.log.outputs.file.path", "/var/log/netsniff/netsniff.log")
	v.SetDefault("netsniff.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("netsniff.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("netsniff.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("netsniff.log.outputs.file.rotation.compress", true)

	// Metrics defaults
	v.SetDefault("netsniff.metrics.enabled", false)
	v.SetDefault("netsniff.metrics.listen", ":9091")
	v.SetDefault("netsniff.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration and normalizes
// case-insensitive enum values.
func (cfg *Config) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level: %s (must be trace/debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" && cfg.Log.Format != "pattern" {
		return fmt.Errorf("%w: invalid log format: %s (must be json/text/pattern)", core.ErrConfigInvalid, cfg.Log.Format)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("%w: log.outputs.file.path is required when file output is enabled", core.ErrConfigInvalid)
	}

	// ── Filter validation ──
	cfg.Filter.Mode = strings.ToLower(strings.TrimSpace(cfg.Filter.Mode))
	switch cfg.Filter.Mode {
	case "", "tcp", "udp", "all", "1", "2", "3":
	default:
		return fmt.Errorf("%w: invalid filter mode: %s (must be tcp/udp/all)", core.ErrConfigInvalid, cfg.Filter.Mode)
	}

	// ── Output validation ──
	cfg.Output.Printable = strings.ToLower(cfg.Output.Printable)
	if cfg.Output.Printable != "ascii" && cfg.Output.Printable != "legacy" {
		return fmt.Errorf("%w: invalid output.printable: %s (must be ascii/legacy)", core.ErrConfigInvalid, cfg.Output.Printable)
	}
	if cfg.Output.DNSPayloadLimit <= 0 {
		return fmt.Errorf("%w: output.dns_payload_limit must be positive, got %d", core.ErrConfigInvalid, cfg.Output.DNSPayloadLimit)
	}
	if cfg.Output.LineWidth <= 0 {
		return fmt.Errorf("%w: output.line_width must be positive, got %d", core.ErrConfigInvalid, cfg.Output.LineWidth)
	}

	// ── Capture validation ──
	if cfg.Capture.SnapLen <= 0 {
		return fmt.Errorf("%w: capture.snap_len must be positive, got %d", core.ErrConfigInvalid, cfg.Capture.SnapLen)
	}
	if cfg.Capture.BufferSizeMB <= 0 {
		return fmt.Errorf("%w: capture.buffer_size_mb must be positive, got %d", core.ErrConfigInvalid, cfg.Capture.BufferSizeMB)
	}
	if cfg.Capture.TimeoutMs <= 0 {
		return fmt.Errorf("%w: capture.timeout_ms must be positive, got %d", core.ErrConfigInvalid, cfg.Capture.TimeoutMs)
	}

	// ── Metrics validation ──
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("%w: metrics.listen is required when metrics are enabled", core.ErrConfigInvalid)
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	return nil
}

// Dump renders cfg as YAML under the `netsniff:` root key, in the same
// shape Load accepts.
func Dump(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(configRoot{Netsniff: *cfg})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
