package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeService()
	c.normalizeRequest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("FLUIDS_CATALOGUE_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Paths.CataloguePath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.CataloguePath) == "" {
		c.Paths.CataloguePath = defaultCataloguePath
	}
	if c.Paths.CataloguePath, err = expandPath(c.Paths.CataloguePath); err != nil {
		return fmt.Errorf("paths.catalogue_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryPath) == "" {
		c.Paths.HistoryPath = defaultHistoryPath
	}
	if c.Paths.HistoryPath, err = expandPath(c.Paths.HistoryPath); err != nil {
		return fmt.Errorf("paths.history_path: %w", err)
	}
	if c.Paths.ScratchDir, err = expandPath(strings.TrimSpace(c.Paths.ScratchDir)); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeService() {
	if value, ok := os.LookupEnv("FLUIDS_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Service.BaseURL = value
	}
	c.Service.BaseURL = strings.TrimSpace(c.Service.BaseURL)
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	c.Service.ListingURL = strings.TrimSpace(c.Service.ListingURL)
	if c.Service.ListingURL == "" {
		c.Service.ListingURL = defaultListingURL
	}
	c.Service.UserAgent = strings.TrimSpace(c.Service.UserAgent)
	if c.Service.UserAgent == "" {
		c.Service.UserAgent = defaultUserAgent
	}
	if c.Service.RequestTimeout == 0 {
		c.Service.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeRequest() {
	c.Request.RefState = strings.ToUpper(strings.TrimSpace(c.Request.RefState))
	if c.Request.RefState == "" {
		c.Request.RefState = defaultRefState
	}
	c.Request.OutputPrefix = strings.TrimSpace(c.Request.OutputPrefix)
	if c.Request.OutputPrefix == "" {
		c.Request.OutputPrefix = defaultOutputPrefix
	}
	c.Request.UnitPreset = strings.ToLower(strings.TrimSpace(c.Request.UnitPreset))
	if c.Request.UnitPreset == "" {
		c.Request.UnitPreset = defaultUnitPreset
	}
	if c.Request.Digits == 0 {
		c.Request.Digits = defaultDigits
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
