package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/logging"
)

// runConvert parses convert flags, builds a converter pool and runs the batch.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return runConvertWithPool(ctx, positional, flags, newConverterPool, env)
}

// poolBuilder builds the pool once config is resolved. Swapped in tests.
type poolBuilder func(size int, opts []md2html.Option) (Pool, func() error)

// newConverterPool is the production poolBuilder.
func newConverterPool(size int, opts []md2html.Option) (Pool, func() error) {
	p := md2html.NewConverterPool(size, func() (*md2html.Converter, error) {
		return md2html.NewConverter(opts...)
	})
	return &poolAdapter{pool: p}, p.Close
}

// runConvertWithPool orchestrates the conversion process.
func runConvertWithPool(ctx context.Context, positionalArgs []string, flags *convertFlags, build poolBuilder, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins)
	mergeRenderFlags(&flags.render, cfg)
	mergeVersionFlags(&flags.version, cfg)
	if flags.pdf {
		cfg.PDF.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Validate worker count early (flag wins over MD2HTML_WORKERS)
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	log := logging.New(env.Stderr, flags.common.verbose, flags.common.quiet)

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdown, inputPath)
	}

	// Resolve the banner version once for the entire batch
	docVersion := resolveVersion(ctx, cfg, flags.version.noFetch || envCfg.NoFetch, env, &log)

	size := md2html.ResolvePoolSize(workers)
	if size > len(files) {
		size = len(files)
	}

	timeout := resolveTimeout(flags.timeout, envCfg, cfg)
	pool, closePool := build(size, converterOptions(cfg, timeout, env))
	defer func() {
		if err := closePool(); err != nil {
			log.Warn().Err(err).Msg("closing converters")
		}
	}()

	log.Debug().
		Int("files", len(files)).
		Int("workers", size).
		Str("version", docVersion).
		Str("engine", cfg.Markdown.Engine).
		Bool("pdf", cfg.PDF.Enabled).
		Msg("starting conversion")

	params := &conversionParams{
		version:  docVersion,
		branding: brandingFrom(cfg),
		pdf:      cfg.PDF.Enabled,
	}

	results := convertBatch(ctx, pool, files, params)

	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", summary.Failed, summary.FirstErr)
	}

	return nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
