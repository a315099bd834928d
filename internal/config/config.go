// Package config handles configuration loading and cart directory resolution.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCartDir is the storage directory used when nothing else is
// configured. It is relative to the working directory.
const DefaultCartDir = "cartdb"

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ShellConfig controls the interactive prompt.
type ShellConfig struct {
	Prompt string `yaml:"prompt"`
	Banner string `yaml:"banner"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Config is the global cart configuration. The cart_dir key of the same
// file is resolved separately by ResolveCartDir.
type Config struct {
	Shell ShellConfig `yaml:"shell"`
	Log   LogConfig   `yaml:"log"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			Prompt: "> ",
			Banner: "Welcome to your shopping cart",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads a config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if sh, ok := raw["shell"].(map[string]any); ok {
		if v, ok := sh["prompt"].(string); ok && v != "" {
			cfg.Shell.Prompt = v
		}
		if v, ok := sh["banner"].(string); ok && v != "" {
			cfg.Shell.Banner = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
	}

	return cfg, nil
}

// LoadGlobal loads the global config file. A missing home directory or file
// yields defaults.
func LoadGlobal() (*Config, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// SlogLevel maps the configured level name to a slog.Level. Unknown names
// map to slog.LevelWarn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ---------------------------------------------------------------------------
// Cart directory resolution
// ---------------------------------------------------------------------------

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "shopcart", "config.yaml"), nil
}

// normalizePath expands ~ and environment variables. Relative paths stay
// relative so the default keeps following the working directory.
func normalizePath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Clean(path), nil
}

// ResolveCartDir returns the cart directory and the source of the resolution.
// Priority: CART_DIR env → persisted global config → "cartdb".
// source is one of "env", "config", or "default".
func ResolveCartDir() (path, source string) {
	if env := os.Getenv("CART_DIR"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedCartDir(); ok {
		return persisted, "config"
	}

	return DefaultCartDir, "default"
}

// GetPersistedCartDir reads cart_dir from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedCartDir() (string, bool, error) {
	raw, err := readGlobal()
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw["cart_dir"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedCartDir makes path absolute and persists it in the global
// config, preserving any other keys. Returns the stored path.
func SetPersistedCartDir(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}
	normalized, err = filepath.Abs(normalized)
	if err != nil {
		return "", err
	}

	raw, err := readGlobal()
	if err != nil {
		return "", err
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["cart_dir"] = normalized

	if err := writeGlobal(raw); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedCartDir removes cart_dir from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedCartDir() (bool, error) {
	raw, err := readGlobal()
	if err != nil || raw == nil {
		return false, err
	}
	if _, ok := raw["cart_dir"]; !ok {
		return false, nil
	}
	delete(raw, "cart_dir")

	if len(raw) == 0 {
		cfgPath, err := GlobalConfigPath()
		if err != nil {
			return false, err
		}
		_ = os.Remove(cfgPath)
		return true, nil
	}
	return true, writeGlobal(raw)
}

// readGlobal returns the global config as a raw map, or nil when the file
// does not exist or cannot be parsed.
func readGlobal() (map[string]any, error) {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil //nolint:nilerr // a malformed global config is treated as absent
	}
	return raw, nil
}

func writeGlobal(raw map[string]any) error {
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(cfgPath, out, 0o600)
}
