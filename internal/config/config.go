// Package config loads the server configuration.
//
// Precedence, highest first: explicitly set flags, GRAMMATICUS_ environment
// variables, the YAML config file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/cours-de-latin/grammaticus"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GRAMMATICUS_"

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "grammaticus.yaml"

// Exception sources.
const (
	SourceEmbedded = "embedded"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourceNone     = "none"
)

// Config holds the server settings.
type Config struct {
	Addr            string        `koanf:"addr"`
	Exceptions      Exceptions    `koanf:"exceptions"`
	AltStemMatch    string        `koanf:"alt_stem_match"`
	LogLevel        string        `koanf:"log_level"`
	CORS            CORS          `koanf:"cors"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Exceptions selects where exception records come from.
type Exceptions struct {
	// Source is one of embedded, csv, sqlite or none.
	Source string `koanf:"source"`
	// Path is the CSV file or SQLite database.
	Path string `koanf:"path"`
	// Table is the SQLite table name.
	Table string `koanf:"table"`
}

// CORS holds cross-origin settings.
type CORS struct {
	Origins []string `koanf:"origins"`
}

func defaults() map[string]any {
	return map[string]any{
		"addr":              ":8080",
		"exceptions.source": SourceEmbedded,
		"exceptions.table":  "exceptions",
		"alt_stem_match":    "exact",
		"log_level":         "info",
		"cors.origins":      []string{"*"},
		"shutdown_timeout":  5 * time.Second,
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"addr":              "addr",
	"exceptions-source": "exceptions.source",
	"exceptions-path":   "exceptions.path",
	"exceptions-table":  "exceptions.table",
	"alt-stem-match":    "alt_stem_match",
	"log-level":         "log_level",
	"cors-origins":      "cors.origins",
	"shutdown-timeout":  "shutdown_timeout",
}

// Flags returns the flag set understood by Load. Defaults are left to
// Load, so unset flags never shadow the file or the environment.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("addr", "", "listen address")
	fs.String("exceptions-source", "", "exception source: embedded, csv, sqlite or none")
	fs.String("exceptions-path", "", "exception CSV file or SQLite database")
	fs.String("exceptions-table", "", "SQLite exception table")
	fs.String("alt-stem-match", "", "alternate stem matching: exact or contains")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.StringSlice("cors-origins", nil, "allowed CORS origins")
	fs.Duration("shutdown-timeout", 0, "graceful shutdown timeout")
	return fs
}

// Load builds the configuration. cfgFile may be empty, in which case
// DefaultFile is used when present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" && flags != nil {
		cfgFile, _ = flags.GetString("config")
	}
	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// GRAMMATICUS_EXCEPTIONS_PATH -> exceptions.path
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"exceptions_", "cors_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// Validate checks value ranges and the settings each source needs.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.Exceptions.Source {
	case SourceEmbedded, SourceNone:
	case SourceCSV, SourceSQLite:
		if c.Exceptions.Path == "" {
			return fmt.Errorf("exceptions.path is required for source %q", c.Exceptions.Source)
		}
	default:
		return fmt.Errorf("unknown exceptions.source %q", c.Exceptions.Source)
	}
	if _, err := grammaticus.ParseAltStemMatch(c.AltStemMatch); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}
