package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/logging"
	"github.com/alnah/go-md2html/internal/preview"
)

// listenFunc starts the server. Swapped in tests.
type listenFunc func(ctx context.Context, srv *preview.Server, addr string) error

func listenAndServe(ctx context.Context, srv *preview.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

// runServe parses serve flags and runs the preview server until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return runServeWith(ctx, positional, flags, listenAndServe, env)
}

func runServeWith(ctx context.Context, positionalArgs []string, flags *serveFlags, listen listenFunc, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	mergeRenderFlags(&flags.render, cfg)
	mergeVersionFlags(&flags.version, cfg)
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(env.Stderr, flags.common.verbose, flags.common.quiet)

	root := "."
	switch {
	case len(positionalArgs) > 0:
		root = positionalArgs[0]
	case cfg.Input.DefaultDir != "":
		root = cfg.Input.DefaultDir
	}

	conv, err := md2html.NewConverter(converterOptions(cfg, 0, env)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	docVersion := resolveVersion(ctx, cfg, flags.version.noFetch || envCfg.NoFetch, env, &log)

	srv, err := preview.New(root, conv, docVersion, brandingFrom(cfg), &log)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s on http://%s\n", srv.Root, cfg.Server.Addr)
	}
	return listen(ctx, srv, cfg.Server.Addr)
}
