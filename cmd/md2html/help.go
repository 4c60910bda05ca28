package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert      Convert markdown files to branded HTML (and PDF)")
	fmt.Fprintln(w, "  serve        Preview a markdown tree in the browser")
	fmt.Fprintln(w, "  init-config  Write a default configuration file")
	fmt.Fprintln(w, "  doctor       Check Chrome, status page and environment")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2html help <command>' for details on a specific command.")
}

// printRenderUsage prints the flags shared by convert and serve.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <s>          Markdown engine: goldmark, gomarkdown")
	fmt.Fprintln(w, "      --raw-html            Keep raw HTML from markdown (sanitized)")
	fmt.Fprintln(w, "      --image-base-url <u>  Base URL for Obsidian ![[image]] embeds")
	fmt.Fprintln(w, "      --primary-logo <s>    Header logo URL or path")
	fmt.Fprintln(w, "      --secondary-logo <s>  Footer logo URL or path")
	fmt.Fprintln(w, "      --date-format <s>     Banner date format")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): br, br-long, european, iso, long, us")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Version banner:")
	fmt.Fprintln(w, "      --doc-version <s>     Version string (skips the status page)")
	fmt.Fprintln(w, "      --version-url <u>     Status page holding div.softgray")
	fmt.Fprintln(w, "      --version-timeout <d> Status page timeout (e.g. 5s)")
	fmt.Fprintln(w, "      --no-fetch            Never query the status page, use the fallback")
	fmt.Fprintln(w)
}

// printOutputControlUsage prints the common verbosity flags.
func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug diagnostics")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to branded HTML documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --pdf                 Also write a PDF (requires Chrome)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	printOutputControlUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve restyled documents for preview. Routes:")
	fmt.Fprintln(w, "  /              Index of markdown files")
	fmt.Fprintln(w, "  /view/<path>   Restyled document (other files served as-is)")
	fmt.Fprintln(w, "  /healthz       Health check")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	printOutputControlUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "init-config":
		fmt.Fprintln(env.Stdout, "Usage: md2html init-config [path] [--force]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintf(env.Stdout, "Write the default configuration (default path: %s).\n", defaultConfigFile)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2html doctor [--json] [--config <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, the status page and the environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2html version [--config <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show the build version and the last fetched document version.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
