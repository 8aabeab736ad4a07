package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	if strings.TrimSpace(c.Detection.SearchTerm) == "" {
		return errors.New("detection.search_term must be set")
	}
	for key, value := range map[string]string{
		"detection.api_base":      c.Detection.APIBase,
		"detection.download_base": c.Detection.DownloadBase,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	if _, err := language.Parse(c.Detection.Language); err != nil {
		return fmt.Errorf("detection.language %q is not a valid language tag: %w", c.Detection.Language, err)
	}
	if strings.TrimSpace(c.Detection.Architecture) == "" {
		return errors.New("detection.architecture must be set")
	}
	return ensurePositiveMap(map[string]int{
		"detection.check_interval":  c.Detection.CheckInterval,
		"detection.max_builds":      c.Detection.MaxBuilds,
		"detection.request_timeout": c.Detection.RequestTimeout,
	})
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TrackingFile) == "" {
		return errors.New("paths.tracking_file must be set")
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		return errors.New("paths.output_file must be set")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	return ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
