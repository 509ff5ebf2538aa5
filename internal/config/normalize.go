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
	c.normalizeRadiko()
	c.normalizeNHK()
	c.normalizeCapture()
	c.normalizeTagging()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRadiko() {
	c.Radiko.AreaID = strings.ToUpper(strings.TrimSpace(c.Radiko.AreaID))
	if c.Radiko.AreaID == "" {
		if value, ok := os.LookupEnv("AIRCHECK_AREA_ID"); ok {
			c.Radiko.AreaID = strings.ToUpper(strings.TrimSpace(value))
		}
	}
	if c.Radiko.AreaID == "" {
		c.Radiko.AreaID = defaultAreaID
	}
	if c.Radiko.TimeoutSeconds <= 0 {
		c.Radiko.TimeoutSeconds = defaultRadikoTimeout
	}
	if c.Radiko.RetryAttempts <= 0 {
		c.Radiko.RetryAttempts = defaultRetryAttempts
	}
	if c.Radiko.RetryBaseDelayMS <= 0 {
		c.Radiko.RetryBaseDelayMS = defaultRetryBaseDelayMS
	}
	if c.Radiko.RetryMaxDelayMS <= 0 {
		c.Radiko.RetryMaxDelayMS = defaultRetryMaxDelayMS
	}
}

func (c *Config) normalizeNHK() {
	if c.NHK.TimeoutSeconds <= 0 {
		c.NHK.TimeoutSeconds = defaultNHKTimeout
	}
	if c.NHK.DurationMinutes <= 0 {
		c.NHK.DurationMinutes = defaultNHKDurationMinutes
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.FFmpegBinary = strings.TrimSpace(c.Capture.FFmpegBinary)
	if c.Capture.FFmpegBinary == "" {
		c.Capture.FFmpegBinary = defaultFFmpegBinary
	}
	c.Capture.Loglevel = strings.ToLower(strings.TrimSpace(c.Capture.Loglevel))
	if c.Capture.Loglevel == "" {
		c.Capture.Loglevel = defaultCaptureLoglevel
	}
	if c.Capture.SafetyMarginSeconds < 0 {
		c.Capture.SafetyMarginSeconds = defaultSafetyMarginSeconds
	}
}

func (c *Config) normalizeTagging() {
	c.Tagging.Genre = strings.TrimSpace(c.Tagging.Genre)
	if c.Tagging.Genre == "" {
		c.Tagging.Genre = defaultGenre
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
