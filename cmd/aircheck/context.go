package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"aircheck/internal/capture"
	"aircheck/internal/config"
	"aircheck/internal/httpx"
	"aircheck/internal/logging"
	"aircheck/internal/nhk"
	"aircheck/internal/radiko"
	"aircheck/internal/tagging"
	"aircheck/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	buildOnce sync.Once
	logger    *slog.Logger
	broadcast *radiko.Client
	ondemand  *nhk.Client
	runner    *workflow.Runner
	buildErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// build wires the shared clients and the run sequencer from the loaded
// configuration. Every command goes through here so construction happens
// once per invocation.
func (c *commandContext) build() error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	c.buildOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
		if err != nil {
			c.buildErr = err
			return
		}
		c.logger = logger

		policy := httpx.RetryPolicy{
			Attempts:  cfg.Radiko.RetryAttempts,
			BaseDelay: millis(cfg.Radiko.RetryBaseDelayMS),
			MaxDelay:  millis(cfg.Radiko.RetryMaxDelayMS),
		}
		radikoHTTP := httpx.New(cfg.RadikoTimeout(), policy)
		nhkHTTP := httpx.New(cfg.NHKTimeout(), httpx.NoRetry)

		c.broadcast = radiko.New(radikoHTTP, radiko.WithLogger(logger))
		c.ondemand = nhk.New(nhkHTTP, nhk.WithLogger(logger))

		recorder := capture.New(
			capture.WithBinary(cfg.Capture.FFmpegBinary),
			capture.WithLoglevel(cfg.Capture.Loglevel),
			capture.WithSafetyMargin(cfg.Capture.SafetyMarginSeconds),
			capture.WithLogger(logger),
		)
		tagger := tagging.New(
			tagging.WithBinary(cfg.Capture.FFmpegBinary),
			tagging.WithGenre(cfg.Tagging.Genre),
			tagging.WithCoverArt(cfg.Tagging.CoverArt),
			tagging.WithHTTPClient(nhkHTTP),
			tagging.WithLogger(logger),
		)

		c.runner = workflow.New(cfg, logger, c.broadcast, c.ondemand, recorder, tagger)
	})
	return c.buildErr
}

func (c *commandContext) ensureRunner() (*workflow.Runner, error) {
	if err := c.build(); err != nil {
		return nil, err
	}
	return c.runner, nil
}

func (c *commandContext) ensureBroadcast() (*radiko.Client, *config.Config, error) {
	if err := c.build(); err != nil {
		return nil, nil, err
	}
	return c.broadcast, c.config, nil
}

func (c *commandContext) ensureOndemand() (*nhk.Client, error) {
	if err := c.build(); err != nil {
		return nil, err
	}
	return c.ondemand, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
