// Package config loads playmat configuration from an optional YAML file
// overlaid by PLAYMAT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Editor    EditorConfig    `yaml:"editor"`
	Export    ExportConfig    `yaml:"export"`
	Assets    AssetsConfig    `yaml:"assets"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type EditorConfig struct {
	SaveDebounce time.Duration `yaml:"save_debounce"`
	HistoryLimit int           `yaml:"history_limit"`
}

type ExportConfig struct {
	// Dir receives PNGs written by the export tools.
	Dir string `yaml:"dir"`
}

type AssetsConfig struct {
	// Dir is the only directory image file paths may be read from when
	// serving. Empty refuses file paths; data URIs and URLs still load.
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		DB: DBConfig{
			Path: "playmat.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Editor: EditorConfig{
			SaveDebounce: 300 * time.Millisecond,
			HistoryLimit: 50,
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}

// Load reads configuration from the YAML file at path, or at
// PLAYMAT_CONFIG_PATH when path is empty, then applies environment variables
// and validates the result. A missing path means defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PLAYMAT_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PLAYMAT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PLAYMAT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PLAYMAT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("PLAYMAT_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("PLAYMAT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("PLAYMAT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("PLAYMAT_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if debounce := os.Getenv("PLAYMAT_SAVE_DEBOUNCE"); debounce != "" {
		d, err := time.ParseDuration(debounce)
		if err != nil {
			return fmt.Errorf("invalid PLAYMAT_SAVE_DEBOUNCE: %w", err)
		}
		cfg.Editor.SaveDebounce = d
	}
	if dir := os.Getenv("PLAYMAT_EXPORT_DIR"); dir != "" {
		cfg.Export.Dir = dir
	}
	if dir := os.Getenv("PLAYMAT_ASSET_DIR"); dir != "" {
		cfg.Assets.Dir = dir
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Host, validation.Required),
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validation.ValidateStruct(&c.Transport,
		validation.Field(&c.Transport.Mode, validation.Required, validation.In(TransportHTTP, TransportStdio)),
	); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := validation.ValidateStruct(&c.DB,
		validation.Field(&c.DB.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := validation.ValidateStruct(&c.Editor,
		validation.Field(&c.Editor.SaveDebounce, validation.Min(time.Duration(0))),
		validation.Field(&c.Editor.HistoryLimit, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
