package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"fluids/internal/units"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains on-disk locations.
type Paths struct {
	CataloguePath string `toml:"catalogue_path"`
	HistoryPath   string `toml:"history_path"`
	ScratchDir    string `toml:"scratch_dir"`
	LogDir        string `toml:"log_dir"`
}

// Service contains the remote endpoint settings.
type Service struct {
	BaseURL        string `toml:"base_url"`
	ListingURL     string `toml:"listing_url"`
	RequestTimeout int    `toml:"request_timeout"`
	UserAgent      string `toml:"user_agent"`
}

// Catalogue controls substance catalogue staleness.
type Catalogue struct {
	MaxAgeHours int `toml:"max_age_hours"`
}

// Request holds defaults applied to every calculation request.
type Request struct {
	Digits       int    `toml:"digits"`
	RefState     string `toml:"ref_state"`
	OutputPrefix string `toml:"output_prefix"`
	// UnitPreset names a preset ("default" or "si"); UnitCodes, when set,
	// takes precedence.
	UnitPreset string `toml:"unit_preset"`
	UnitCodes  []int  `toml:"unit_codes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for fluids.
//
// Configuration sections:
//   - Paths: catalogue, history database, scratch and log locations
//   - Service: fluid calculator and substance listing endpoints
//   - Catalogue: catalogue time-to-live
//   - Request: default digits, reference state, units and output prefix
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Service   Service   `toml:"service"`
	Catalogue Catalogue `toml:"catalogue"`
	Request   Request   `toml:"request"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fluids/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fluids.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories that hold persisted state.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.CataloguePath), filepath.Dir(c.Paths.HistoryPath)}
	if c.Paths.ScratchDir != "" {
		dirs = append(dirs, c.Paths.ScratchDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.RequestTimeout) * time.Second
}

// CatalogueMaxAge returns the age after which the catalogue is considered stale.
func (c *Config) CatalogueMaxAge() time.Duration {
	return time.Duration(c.Catalogue.MaxAgeHours) * time.Hour
}

// UnitCodes returns the configured default unit selection.
func (c *Config) UnitCodes() (units.Codes, error) {
	if len(c.Request.UnitCodes) > 0 {
		return units.FromSlice(c.Request.UnitCodes)
	}
	return units.Preset(c.Request.UnitPreset)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
