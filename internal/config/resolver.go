// Package config resolves rider's CLI settings from flags, the environment,
// ~/.rider/config.yaml and built-in defaults, remembering where each value
// came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ValueSource names where a resolved setting came from.
type ValueSource string

const (
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// Built-in defaults.
const (
	DefaultOutputDir = "updated_contracts"
	DefaultLogLevel  = "info"
)

// ResolvedValue is a setting together with its source. From names the flag,
// variable or file that supplied it.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the flag values; empty means the flag was not given.
type ResolveOptions struct {
	ConfigPath   string
	CLIOutputDir string
	CLILogLevel  string
	CLIPreview   string
}

// ResolvedConfig is the merged configuration of one CLI invocation.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	OutputDir ResolvedValue `json:"output_dir"`
	LogLevel  ResolvedValue `json:"log_level"`
	Preview   ResolvedValue `json:"preview"`
}

type fileConfig struct {
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	Preview   *bool  `yaml:"preview"`
}

// DefaultConfigPath returns ~/.rider/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rider", "config.yaml")
}

// ResolveConfig applies defaults, then the config file, then RIDER_*
// environment variables, then flags. A missing config file is not an error.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		OutputDir:  ResolvedValue{Value: DefaultOutputDir, Source: SourceDefault, From: "built-in default"},
		LogLevel:   ResolvedValue{Value: DefaultLogLevel, Source: SourceDefault, From: "built-in default"},
		Preview:    ResolvedValue{Value: "false", Source: SourceDefault, From: "built-in default"},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.OutputDir, cfg.OutputDir, SourceConfig, path)
		apply(&out.LogLevel, cfg.LogLevel, SourceConfig, path)
		if cfg.Preview != nil {
			apply(&out.Preview, strconv.FormatBool(*cfg.Preview), SourceConfig, path)
		}
	}

	applyEnv(&out.OutputDir, "RIDER_OUTPUT_DIR")
	applyEnv(&out.LogLevel, "RIDER_LOG_LEVEL")
	applyEnv(&out.Preview, "RIDER_PREVIEW")

	apply(&out.OutputDir, opts.CLIOutputDir, SourceCLI, "--output-dir")
	apply(&out.LogLevel, opts.CLILogLevel, SourceCLI, "--verbose")
	apply(&out.Preview, opts.CLIPreview, SourceCLI, "--preview")

	out.OutputDir.Value = expandUserPath(out.OutputDir.Value)

	if _, err := out.Level(); err != nil {
		return out, err
	}
	if _, err := out.PreviewEnabled(); err != nil {
		return out, err
	}
	return out, nil
}

// Level parses the resolved log level.
func (r ResolvedConfig) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(r.LogLevel.Value)
	if err != nil {
		return lvl, fmt.Errorf("log_level from %s: %w", r.LogLevel.Source, err)
	}
	return lvl, nil
}

// PreviewEnabled parses the resolved preview switch.
func (r ResolvedConfig) PreviewEnabled() (bool, error) {
	on, err := strconv.ParseBool(r.Preview.Value)
	if err != nil {
		return false, fmt.Errorf("preview from %s: %w", r.Preview.Source, err)
	}
	return on, nil
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
