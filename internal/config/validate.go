package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// RefStates lists the reference-state conventions the service accepts.
var RefStates = []string{"DEF", "NBP", "ASHRAE", "IIR"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validateCatalogue(); err != nil {
		return err
	}
	if err := c.validateRequest(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateService() error {
	for key, value := range map[string]string{
		"service.base_url":    c.Service.BaseURL,
		"service.listing_url": c.Service.ListingURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, value)
		}
	}
	if c.Service.RequestTimeout <= 0 {
		return errors.New("service.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateCatalogue() error {
	if c.Catalogue.MaxAgeHours <= 0 {
		return errors.New("catalogue.max_age_hours must be positive")
	}
	return nil
}

func (c *Config) validateRequest() error {
	if c.Request.Digits < 1 || c.Request.Digits > 12 {
		return errors.New("request.digits must be between 1 and 12")
	}
	if !slices.Contains(RefStates, c.Request.RefState) {
		return fmt.Errorf("request.ref_state must be one of %s, got %q", strings.Join(RefStates, ", "), c.Request.RefState)
	}
	if strings.ContainsAny(c.Request.OutputPrefix, `/\`) {
		return errors.New("request.output_prefix must not contain path separators")
	}
	codes, err := c.UnitCodes()
	if err != nil {
		return fmt.Errorf("request units: %w", err)
	}
	if err := codes.Validate(); err != nil {
		return fmt.Errorf("request.unit_codes: %w", err)
	}
	return nil
}
