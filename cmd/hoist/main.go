package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hoistjs/hoist/internal/compat"
	"github.com/hoistjs/hoist/internal/config"
	"github.com/hoistjs/hoist/internal/linker"
	"github.com/hoistjs/hoist/internal/logger"
	"github.com/hoistjs/hoist/pkg/api"
	"go.uber.org/zap"
)

const hoistVersion = "0.1.0"

const helpText = `
Usage:
  hoist [options] [manifest.json]

Links the merged program of every bundle in the manifest into its output
file. The manifest is read from stdin when no path is given.

Options:
  --outdir=...          Write output files relative to this directory
                        (default: the manifest's directory)
  --format=...          Output format for bundles that don't specify one
                        (commonjs, esmodule, global, default commonjs)
  --target=...          Engine targets for bundles that don't specify any
                        (e.g. chrome58,node6.5)
  --include-helpers     Add the interop helpers to every bundle
  --ascii-only          Escape non-ASCII characters in the output
  --color=...           Force use of color terminal escapes (true or false)
  --error-limit=...     Maximum error count or 0 to disable (default 10)
  --log-level=...       Disable logging (info, warning, error, silent)
  --verbose             Trace what the linker does to stderr
  --version             Print the current version and exit (` + hoistVersion + `)

Examples:
  # Link the bundles a bundler described in dist/manifest.json
  hoist dist/manifest.json

  # Produce ES modules for old browsers
  hoist --format=esmodule --target=chrome58,safari11 manifest.json
`

type cliOptions struct {
	manifestPath string
	outdir       string
	defaults     manifestDefaults
	verbose      bool
	link         api.LinkOptions
}

func parseArgs(osArgs []string) (cliOptions, error) {
	options := cliOptions{
		defaults: manifestDefaults{format: "commonjs"},
		link: api.LinkOptions{
			ErrorLimit: 10,
			LogLevel:   api.LogLevelInfo,
		},
	}

	for _, arg := range osArgs {
		switch {
		case arg == "--include-helpers":
			options.link.IncludeHelpers = true

		case arg == "--ascii-only":
			options.link.ASCIIOnly = true

		case arg == "--verbose":
			options.verbose = true

		case strings.HasPrefix(arg, "--outdir="):
			options.outdir = arg[len("--outdir="):]

		case strings.HasPrefix(arg, "--format="):
			value := arg[len("--format="):]
			if _, err := config.ParseFormat(value); err != nil {
				return cliOptions{}, err
			}
			options.defaults.format = value

		case strings.HasPrefix(arg, "--target="):
			value := arg[len("--target="):]
			if _, err := compat.ParseTarget(value); err != nil {
				return cliOptions{}, err
			}
			options.defaults.target = value

		case strings.HasPrefix(arg, "--color="):
			value := arg[len("--color="):]
			switch value {
			case "true":
				options.link.Color = api.ColorAlways
			case "false":
				options.link.Color = api.ColorNever
			default:
				return cliOptions{}, fmt.Errorf("Invalid color: %q (valid: true, false)", value)
			}

		case strings.HasPrefix(arg, "--error-limit="):
			value := arg[len("--error-limit="):]
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 0 {
				return cliOptions{}, fmt.Errorf("Invalid error limit: %q", value)
			}
			options.link.ErrorLimit = limit

		case strings.HasPrefix(arg, "--log-level="):
			value := arg[len("--log-level="):]
			switch value {
			case "info":
				options.link.LogLevel = api.LogLevelInfo
			case "warning":
				options.link.LogLevel = api.LogLevelWarning
			case "error":
				options.link.LogLevel = api.LogLevelError
			case "silent":
				options.link.LogLevel = api.LogLevelSilent
			default:
				return cliOptions{}, fmt.Errorf("Invalid log level: %q (valid: info, warning, error, silent)", value)
			}

		case strings.HasPrefix(arg, "-"):
			return cliOptions{}, fmt.Errorf("Invalid flag: %q", arg)

		default:
			if options.manifestPath != "" {
				return cliOptions{}, fmt.Errorf("Only one manifest can be linked at a time")
			}
			options.manifestPath = arg
		}
	}

	return options, nil
}

func main() {
	osArgs := os.Args[1:]

	for _, arg := range osArgs {
		switch arg {
		case "-h", "-help", "--help", "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		case "--version":
			fmt.Fprintf(os.Stderr, "%s\n", hoistVersion)
			os.Exit(0)
		}
	}

	// Print help text when there is nothing to read
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	os.Exit(run(osArgs))
}

func run(osArgs []string) int {
	options, err := parseArgs(osArgs)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}

	if options.verbose {
		zapLogger, err := zap.NewDevelopment()
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not create logger: %s", err.Error()))
			return 1
		}
		defer zapLogger.Sync()
		linker.SetLogger(zapLogger)
	}

	var contents []byte
	if options.manifestPath == "" {
		contents, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not read from stdin: %s", err.Error()))
			return 1
		}
		options.defaults.dir, _ = os.Getwd()
	} else {
		contents, err = os.ReadFile(options.manifestPath)
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Could not read manifest: %s", err.Error()))
			return 1
		}
		options.defaults.dir = filepath.Dir(options.manifestPath)
	}

	parsed, err := parseManifest(contents, options.defaults)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}
	parsed.Color = options.link.Color
	parsed.ErrorLimit = options.link.ErrorLimit
	parsed.LogLevel = options.link.LogLevel
	parsed.IncludeHelpers = options.link.IncludeHelpers
	parsed.ASCIIOnly = options.link.ASCIIOnly

	result := api.Link(parsed)

	outdir := options.outdir
	if outdir == "" {
		outdir = options.defaults.dir
	}
	for _, file := range result.OutputFiles {
		path := file.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(outdir, path)
		}
		if err := writeOutputFile(path, file.Contents); err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Failed to write to output file: %s", err.Error()))
			return 1
		}
	}

	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

func writeOutputFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}
