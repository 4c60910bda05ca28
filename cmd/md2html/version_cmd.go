package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/version"
)

// runVersion prints the build version and the last document version
// fetched from the status page, when a version log exists.
func runVersion(args []string, env *Environment) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var configPath string
	fs.StringVarP(&configPath, "config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fmt.Fprintf(env.Stdout, "md2html %s\n", Version)

	cfg, err := loadConfig(configPath, loadEnvConfig())
	if err != nil {
		return err
	}
	if cfg.Version.LogFile == "" {
		return nil
	}

	last, err := version.ReadLast(cfg.Version.LogFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(env.Stdout, "document version: never fetched")
	case err != nil:
		return err
	default:
		fmt.Fprintf(env.Stdout, "document version: %s (%s)\n", last, cfg.Version.LogFile)
	}
	return nil
}
