package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizeDetection(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeNotifications(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDetection() error {
	c.Detection.SearchTerm = strings.TrimSpace(c.Detection.SearchTerm)
	if c.Detection.SearchTerm == "" {
		c.Detection.SearchTerm = defaultSearchTerm
	}
	c.Detection.APIBase = strings.TrimSpace(c.Detection.APIBase)
	if c.Detection.APIBase == "" {
		if value, ok := os.LookupEnv("UUPDUMP_API_BASE"); ok && strings.TrimSpace(value) != "" {
			c.Detection.APIBase = strings.TrimSpace(value)
		} else {
			c.Detection.APIBase = defaultAPIBase
		}
	}
	c.Detection.APIBase = strings.TrimRight(c.Detection.APIBase, "/")
	c.Detection.DownloadBase = strings.TrimSpace(c.Detection.DownloadBase)
	if c.Detection.DownloadBase == "" {
		c.Detection.DownloadBase = defaultDownloadBase
	}
	c.Detection.DownloadBase = strings.TrimRight(c.Detection.DownloadBase, "/")
	c.Detection.Language = strings.TrimSpace(c.Detection.Language)
	if c.Detection.Language == "" {
		c.Detection.Language = defaultLanguage
	}
	// Canonicalize the language pack tag; download URLs expect the
	// lowercase form (en-us, de-de).
	if tag, err := language.Parse(c.Detection.Language); err == nil {
		c.Detection.Language = strings.ToLower(tag.String())
	}
	c.Detection.Architecture = strings.TrimSpace(c.Detection.Architecture)
	if c.Detection.Architecture == "" {
		c.Detection.Architecture = defaultArchitecture
	}
	if c.Detection.CheckInterval <= 0 {
		c.Detection.CheckInterval = defaultCheckInterval
	}
	if c.Detection.MaxBuilds <= 0 {
		c.Detection.MaxBuilds = defaultMaxBuilds
	}
	if c.Detection.RequestTimeout <= 0 {
		c.Detection.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TrackingFile) == "" {
		c.Paths.TrackingFile = defaultTrackingFile
	}
	if c.Paths.TrackingFile, err = expandPath(c.Paths.TrackingFile); err != nil {
		return fmt.Errorf("paths.tracking_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = defaultOutputFile
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() error {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("RELEASEWATCH_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, defaultHistoryFilename)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
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
