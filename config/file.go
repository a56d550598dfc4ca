package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no other config file is named.
const DefaultConfigFile = "goldrates.yaml"

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "GOLDRATES_"

// Load builds the configuration with precedence:
// 1. Environment variables, including a .env file (highest priority)
// 2. The YAML file at path, if it exists
// 3. Default values (lowest priority)
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Fields absent from the
// file keep their current values. It returns false, nil if the file doesn't
// exist (not an error).
func LoadFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config file: %w", err)
	}

	return true, nil
}

// ApplyEnv overlays GOLDRATES_* variables found through lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		val, ok := lookup(EnvPrefix + name)
		if !ok || val == "" {
			return "", false
		}
		return val, true
	}

	if val, ok := get("URL"); ok {
		cfg.URL = val
	}
	if val, ok := get("OUTPUT_DIR"); ok {
		cfg.OutputDir = val
	}
	if val, ok := get("TIMEZONE"); ok {
		cfg.Timezone = val
	}
	if val, ok := get("CONTAINER_SELECTOR"); ok {
		cfg.Table.ContainerSelector = val
	}
	if val, ok := get("CURRENCY_TOKEN"); ok {
		cfg.Table.CurrencyToken = val
	}
	if val, ok := get("USER_AGENT"); ok {
		cfg.Static.UserAgent = val
	}
	if val, ok := get("RENDER_EXEC_PATH"); ok {
		cfg.Render.ExecPath = val
	}

	if val, ok := get("STATIC_TIMEOUT"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %sSTATIC_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Static.Timeout = d
	}
	if val, ok := get("STATIC_ATTEMPTS"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %sSTATIC_ATTEMPTS: %w", EnvPrefix, err)
		}
		cfg.Static.Attempts = n
	}
	if val, ok := get("RENDER_ENABLED"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %sRENDER_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Render.Enabled = b
	}
	if val, ok := get("RENDER_NO_SANDBOX"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %sRENDER_NO_SANDBOX: %w", EnvPrefix, err)
		}
		cfg.Render.NoSandbox = b
	}

	return nil
}
