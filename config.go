package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
//
// Values come, in increasing priority, from built-in defaults, environment
// variables, the optional config file and explicitly set flags.
type Config struct {
	HTTP           string   `toml:"http" yaml:"http"`
	File           string   `toml:"file" yaml:"file"`
	Prefix         string   `toml:"prefix" yaml:"prefix"`
	Adapter        string   `toml:"adapter" yaml:"adapter"`
	Schemas        string   `toml:"schemas" yaml:"schemas"`
	LogLevel       string   `toml:"log_level" yaml:"log_level"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	// Rate is the number of requests per second accepted. Zero disables
	// rate limiting.
	Rate    float64 `toml:"rate" yaml:"rate"`
	Burst   int     `toml:"burst" yaml:"burst"`
	Metrics string  `toml:"metrics" yaml:"metrics"`

	PrintSchema bool `toml:"-" yaml:"-"`
}

func env(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func defaultConfig(getenv func(string) string) Config {
	return Config{
		HTTP:           env(getenv, "HTTP", "localhost:8080"),
		File:           env(getenv, "DB_FILE", "db.json"),
		Prefix:         getenv("PREFIX"),
		Adapter:        env(getenv, "STORE_ADAPTER", "file"),
		Schemas:        getenv("SCHEMAS"),
		LogLevel:       env(getenv, "LOG_LEVEL", "info"),
		AllowedOrigins: splitList(env(getenv, "ALLOWED_ORIGINS", "*")),
		Burst:          20,
	}
}

// loadFile overlays the values present in a TOML or YAML file, picked by
// extension.
func (c *Config) loadFile(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (supported: .toml, .yaml, .yml)", ext)
	}
	return nil
}

func (c *Config) validate() error {
	if c.File == "" {
		return errors.New("-file is required")
	}
	if c.Rate < 0 {
		return errors.New("-rate must not be negative")
	}
	if c.Rate > 0 && c.Burst < 1 {
		return errors.New("-burst must be at least 1 when rate limiting")
	}
	return nil
}

// parseConfig builds the configuration from command line arguments and the
// environment.
func parseConfig(args []string, getenv func(string) string) (*Config, error) {
	fs := flag.NewFlagSet("jsonrest", flag.ContinueOnError)
	configPath := fs.String("config", getenv("CONFIG"), "Path to a .toml or .yaml config file")
	httpAddr := fs.String("http", "", "Address to listen on (default localhost:8080, env HTTP)")
	file := fs.String("file", "", "Backing document (default db.json, env DB_FILE)")
	prefix := fs.String("prefix", "", "URL prefix stripped before routing (env PREFIX)")
	adapter := fs.String("adapter", "", "Storage adapter: file, memory or sqlite (env STORE_ADAPTER)")
	schemas := fs.String("schemas", "", "JSON file mapping collection names to JSON Schemas (env SCHEMAS)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	origins := fs.String("allowed-origins", "", "Comma separated CORS origins, * for any (env ALLOWED_ORIGINS)")
	rateLimit := fs.Float64("rate", 0, "Requests per second accepted, 0 to disable")
	burst := fs.Int("burst", 0, "Rate limiter burst size (default 20)")
	metrics := fs.String("metrics", "", "Address serving Prometheus /metrics, empty to disable")
	printSchema := fs.Bool("print-schema", false, "Print the JSON Schema of the document file and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	cfg := defaultConfig(getenv)
	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return nil, err
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["http"] {
		cfg.HTTP = *httpAddr
	}
	if set["file"] {
		cfg.File = *file
	}
	if set["prefix"] {
		cfg.Prefix = *prefix
	}
	if set["adapter"] {
		cfg.Adapter = *adapter
	}
	if set["schemas"] {
		cfg.Schemas = *schemas
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if set["allowed-origins"] {
		cfg.AllowedOrigins = splitList(*origins)
	}
	if set["rate"] {
		cfg.Rate = *rateLimit
	}
	if set["burst"] {
		cfg.Burst = *burst
	}
	if set["metrics"] {
		cfg.Metrics = *metrics
	}
	cfg.PrintSchema = *printSchema

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
