package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// ErrConfigExists is returned when init-config would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

// defaultConfigFile is where init-config writes without an argument.
// It matches defaultConfigName so the file is picked up automatically.
const defaultConfigFile = defaultConfigName + ".yaml"

// runInitConfig writes the default configuration as YAML.
func runInitConfig(args []string, env *Environment) error {
	fs := flag.NewFlagSet("init-config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var force bool
	fs.BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	path := defaultConfigFile
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if fileutil.FileExists(path) && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}

	data, err := config.DefaultYAML()
	if err != nil {
		return fmt.Errorf("rendering default config: %w", err)
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
