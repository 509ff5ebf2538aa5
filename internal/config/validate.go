package config

import (
	"errors"
	"fmt"
	"regexp"
)

var areaIDPattern = regexp.MustCompile(`^JP\d{1,2}$`)

var knownLoglevels = map[string]struct{}{
	"quiet":   {},
	"panic":   {},
	"fatal":   {},
	"error":   {},
	"warning": {},
	"info":    {},
	"verbose": {},
	"debug":   {},
	"trace":   {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRadiko(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRadiko() error {
	if !areaIDPattern.MatchString(c.Radiko.AreaID) {
		return fmt.Errorf("radiko.area_id %q must look like JP13", c.Radiko.AreaID)
	}
	if c.Radiko.RetryMaxDelayMS < c.Radiko.RetryBaseDelayMS {
		return errors.New("radiko.retry_max_delay_ms must be at least retry_base_delay_ms")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if _, ok := knownLoglevels[c.Capture.Loglevel]; !ok {
		return fmt.Errorf("capture.loglevel %q is not an ffmpeg loglevel", c.Capture.Loglevel)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
