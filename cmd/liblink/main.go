// Command liblink links batches of library descriptor files and dumps the
// resolved artifact or diagnostics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/golanglink/liblink"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or processing failure
	exitDiags = 2 // linked, but with error diagnostics
)

const usage = `liblink - batch library linker

Usage:
  liblink <command> [options] [arguments]

Commands:
  link    Link descriptor files and write the artifact
  check   Link and report diagnostics only
  version Show version

Common options:
  -p, --path PATH   Add a descriptor directory (repeatable)
  -o FILE           Write the artifact to FILE (default stdout, link only)
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  -h, --help        Show help

Examples:
  liblink link -p ./libs -o batch.json
  liblink check -p ./libs
  liblink link app.yaml util.yaml
`

type cli struct {
	verbose  int
	paths    []string
	output   string
	helpFlag bool
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var c cli
	args := os.Args[1:]
	var cmdArgs []string
	var cmd string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			c.helpFlag = true
		case arg == "-v" || arg == "--verbose":
			if c.verbose < 1 {
				c.verbose = 1
			}
		case arg == "-vv":
			c.verbose = 2
		case arg == "-p" || arg == "--path":
			if i+1 < len(args) {
				i++
				c.paths = append(c.paths, args[i])
			}
		case strings.HasPrefix(arg, "--path="):
			c.paths = append(c.paths, arg[len("--path="):])
		case arg == "-o":
			if i+1 < len(args) {
				i++
				c.output = args[i]
			}
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}

	if c.helpFlag && cmd == "" {
		fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "link":
		return c.cmdLink(cmdArgs, true)
	case "check":
		return c.cmdLink(cmdArgs, false)
	case "version":
		printVersion()
		return exitOK
	case "help":
		fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = liblink.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func (c *cli) buildSource(files []string) (liblink.Source, error) {
	var sources []liblink.Source
	for _, p := range c.paths {
		sources = append(sources, liblink.DirTree(p))
	}
	if len(files) > 0 {
		sources = append(sources, liblink.Files(files))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no descriptor paths or files given")
	}
	return liblink.Multi(sources...), nil
}

func (c *cli) cmdLink(args []string, writeArtifact bool) int {
	source, err := c.buildSource(args)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	units, err := liblink.LoadUnits(source)
	if err != nil {
		printError("loading units: %v", err)
		return exitError
	}

	var opts []liblink.LinkOption
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, liblink.WithLogger(logger))
	}
	if !writeArtifact {
		opts = append(opts, liblink.WithSerializer(nil))
	}

	res, err := liblink.Link(units, opts...)
	if err != nil {
		printError("linking: %v", err)
		return exitError
	}

	for _, d := range res.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if writeArtifact {
		if c.output != "" {
			if err := os.WriteFile(c.output, res.Bytes, 0o644); err != nil {
				printError("writing %s: %v", c.output, err)
				return exitError
			}
		} else {
			os.Stdout.Write(res.Bytes)
			fmt.Println()
		}
	}

	if res.HasErrors() {
		return exitDiags
	}
	return exitOK
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("liblink %s\n", version)
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
