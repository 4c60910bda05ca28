package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/hints"
	"github.com/alnah/go-md2html/internal/version"
)

// defaultConfigName is looked up (md2html.yaml, ~/.config/go-md2html/md2html.yaml)
// when neither --config nor MD2HTML_CONFIG is given.
const defaultConfigName = "md2html"

// loadConfig resolves configuration as defaults < file < env.
// An explicit config that cannot be found is an error; the implicit
// default name silently falls back to built-in defaults.
func loadConfig(flagPath string, envCfg *envConfig) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = envCfg.ConfigPath
	}

	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	default:
		cfg, err = config.LoadConfig(defaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderFlags merges rendering flags into config. CLI values override config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.engine != "" {
		cfg.Markdown.Engine = f.engine
	}
	if f.rawHTML {
		cfg.Markdown.RawHTML = true
	}
	if f.imageBaseURL != "" {
		cfg.Markdown.ImageBaseURL = f.imageBaseURL
	}
	if f.primaryLogo != "" {
		cfg.Branding.PrimaryLogo = f.primaryLogo
	}
	if f.secondaryLogo != "" {
		cfg.Branding.SecondaryLogo = f.secondaryLogo
	}
	if f.dateFormat != "" {
		cfg.Banner.DateFormat = f.dateFormat
	}
}

// mergeVersionFlags merges version flags into config. CLI values override config values.
func mergeVersionFlags(f *versionFlags, cfg *config.Config) {
	if f.docVersion != "" {
		cfg.Version.Fixed = f.docVersion
	}
	if f.url != "" {
		cfg.Version.URL = f.url
	}
	if f.timeout > 0 {
		cfg.Version.Timeout = f.timeout.String()
	}
}

// resolveTimeout picks the PDF timeout: flag > env > config. Zero keeps the library default.
func resolveTimeout(flagTimeout time.Duration, envCfg *envConfig, cfg *config.Config) time.Duration {
	if flagTimeout > 0 {
		return flagTimeout
	}
	if envCfg.Timeout > 0 {
		return envCfg.Timeout
	}
	return cfg.PDFTimeout()
}

// converterOptions translates config into library options.
func converterOptions(cfg *config.Config, timeout time.Duration, env *Environment) []md2html.Option {
	opts := []md2html.Option{
		md2html.WithEngine(cfg.Markdown.Engine),
		md2html.WithRawHTML(cfg.Markdown.RawHTML),
		md2html.WithImageBaseURL(cfg.Markdown.ImageBaseURL),
		md2html.WithDateFormat(cfg.Banner.DateFormat),
		md2html.WithClock(env.Now),
	}
	if timeout > 0 {
		opts = append(opts, md2html.WithTimeout(timeout))
	}
	return opts
}

// brandingFrom returns the configured logos; empty values use the defaults.
func brandingFrom(cfg *config.Config) *md2html.Branding {
	return &md2html.Branding{
		PrimaryLogo:   cfg.Branding.PrimaryLogo,
		SecondaryLogo: cfg.Branding.SecondaryLogo,
	}
}

// resolveVersion returns the banner version for the whole run.
// Priority: --doc-version > MD2HTML_DOC_VERSION > version.fixed > status page.
// The first two are already folded into version.fixed.
func resolveVersion(ctx context.Context, cfg *config.Config, noFetch bool, env *Environment, log *zerolog.Logger) string {
	if cfg.Version.Fixed != "" {
		log.Debug().Str("version", cfg.Version.Fixed).Msg("using fixed version")
		return cfg.Version.Fixed
	}

	fallback := cfg.Version.Fallback
	if fallback == "" {
		fallback = version.DefaultFallback
	}

	if noFetch {
		log.Debug().Str("version", fallback).Msg("fetch disabled, using fallback version")
		return fallback
	}

	f := &version.Fetcher{
		URL:      cfg.Version.URL,
		Timeout:  cfg.VersionTimeout(),
		Fallback: fallback,
		LogFile:  cfg.Version.LogFile,
		Client:   env.HTTPClient,
		Logger:   log,
	}
	v := f.Fetch(ctx)
	if v == fallback {
		log.Info().Msg("banner version " + v + hints.ForVersionFetch())
	}
	return v
}
