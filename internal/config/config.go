// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatdeck.
//
// Configuration is read from ~/.chatdeck/config.toml when present, falls
// back to built-in defaults otherwise, and is finally adjusted by
// CHATDECK_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatdeck/internal/util"
)

// HomeEnv overrides the configuration directory (~/.chatdeck).
const HomeEnv = "CHATDECK_HOME"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatdeck configuration.
type Config struct {
	// Storage configuration (the key-value medium)
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "redis", "memory"
	Backend string `toml:"backend" json:"backend"`
	// DataDir holds one file per key for the file backend
	DataDir string `toml:"data_dir" json:"data_dir"`
	// Key is the reserved key holding the whole conversation list
	Key string `toml:"key" json:"key"`
	// SQLitePath is the database file for the sqlite backend
	SQLitePath string `toml:"sqlite_path" json:"sqlite_path"`

	RedisAddr     string `toml:"redis_addr" json:"redis_addr"`
	RedisPassword string `toml:"redis_password" json:"redis_password"`
	RedisDB       int    `toml:"redis_db" json:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix" json:"redis_prefix"`

	// TimeoutMs bounds each remote backend call
	TimeoutMs int `toml:"timeout_ms" json:"timeout_ms"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is the initial theme: "dark", "light" or "system".
	// A theme chosen inside the TUI is persisted in storage and wins.
	Theme string `toml:"theme" json:"theme"`
	// ResponseDelayMs is how long the simulated assistant "thinks"
	ResponseDelayMs int `toml:"response_delay_ms" json:"response_delay_ms"`
	// RevealStep is how many characters the typing reveal adds per frame
	RevealStep int `toml:"reveal_step" json:"reveal_step"`
	// Watch reloads the history when another instance writes the store
	Watch bool `toml:"watch" json:"watch"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error, disabled
	Level string `toml:"level" json:"level"`
	// Format is "console" or "json"
	Format string `toml:"format" json:"format"`
	// File receives the log; the TUI owns stdout so this defaults to a file
	File string `toml:"file" json:"file"`
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultStorageKey is the reserved key for the conversation list.
const DefaultStorageKey = "ai-chat-conversations"

// Default returns the default configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".chatdeck"
	}
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendFile,
			DataDir:     filepath.Join(dir, "data"),
			Key:         DefaultStorageKey,
			SQLitePath:  filepath.Join(dir, "chatdeck.db"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "chatdeck:",
			TimeoutMs:   2000,
		},
		UI: UIConfig{
			Theme:           "system",
			ResponseDelayMs: 2000,
			RevealStep:      12,
			Watch:           true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dir, "chatdeck.log"),
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatdeck configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file.
// A missing file is not an error: defaults are used.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes a TOML file over the defaults without applying
// environment overrides or validation. Config commands use it so that
// saving never bakes environment values into the file.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaults.Storage.DataDir
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaults.Storage.Key
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = defaults.Storage.SQLitePath
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = defaults.Storage.RedisAddr
	}
	if c.Storage.TimeoutMs == 0 {
		c.Storage.TimeoutMs = defaults.Storage.TimeoutMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.RevealStep == 0 {
		c.UI.RevealStep = defaults.UI.RevealStep
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatdeck configuration file\n")
	buf.WriteString("# Generated by chatdeck - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// SECURITY: may hold a Redis password
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, redis, memory", c.Storage.Backend),
		})
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, ValidationError{Field: "storage.key", Message: "must not be empty"})
	}
	if c.Storage.RedisDB < 0 {
		errs = append(errs, ValidationError{Field: "storage.redis_db", Message: "must be >= 0"})
	}
	if c.Storage.TimeoutMs < 0 {
		errs = append(errs, ValidationError{Field: "storage.timeout_ms", Message: "must be >= 0"})
	}

	switch c.UI.Theme {
	case "dark", "light", "system":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, system", c.UI.Theme),
		})
	}
	if c.UI.ResponseDelayMs < 0 {
		errs = append(errs, ValidationError{Field: "ui.response_delay_ms", Message: "must be >= 0"})
	}
	if c.UI.RevealStep < 0 {
		errs = append(errs, ValidationError{Field: "ui.reveal_step", Message: "must be >= 0"})
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - CHATDECK_BACKEND: overrides storage.backend
//   - CHATDECK_DATA_DIR: overrides storage.data_dir
//   - CHATDECK_SQLITE_PATH: overrides storage.sqlite_path
//   - CHATDECK_REDIS_ADDR: overrides storage.redis_addr
//   - CHATDECK_REDIS_PASSWORD: overrides storage.redis_password
//   - CHATDECK_THEME: overrides ui.theme
//   - CHATDECK_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATDECK_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CHATDECK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("CHATDECK_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("CHATDECK_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("CHATDECK_REDIS_PASSWORD"); v != "" {
		c.Storage.RedisPassword = v
	}
	if v := os.Getenv("CHATDECK_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("CHATDECK_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "storage.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks dotted keys down the struct tree.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"storage.backend",
		"storage.data_dir",
		"storage.key",
		"storage.sqlite_path",
		"storage.redis_addr",
		"storage.redis_password",
		"storage.redis_db",
		"storage.redis_prefix",
		"storage.timeout_ms",
		"ui.theme",
		"ui.response_delay_ms",
		"ui.reveal_step",
		"ui.watch",
		"log.level",
		"log.format",
		"log.file",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Storage.RedisPassword != "" {
		safe.Storage.RedisPassword = "[REDACTED]"
	}
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(safe)
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration instance, loading it on first use.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	loaded, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		loaded = Default()
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = loaded
	}
	return globalConfig
}

// SetGlobal sets the global configuration instance.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
