// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main implements the fontstore CLI for managing font projects in
// the embedded store or on a fontstore server.
//
// Usage:
//
//	fontstore init                  Create the local store
//	fontstore list                  List projects
//	fontstore create <id>           Create a project
//	fontstore show <id>             Show a project summary
//	fontstore glyphs <id>           List a project's glyphs
//	fontstore delete <id> --yes     Delete a project and its data
//	fontstore serve                 Serve the HTTP API
//	fontstore version               Show version
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/fontstore/internal/bootstrap"
	"github.com/kraklabs/fontstore/internal/config"
	"github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const usageText = `fontstore - font project storage

Usage:
  fontstore [global options] <command> [options]

Commands:
  init       Create the local store and optionally save a config file
  list       List projects
  create     Create a project
  show       Show a project summary
  glyphs     List a project's glyphs and code points
  delete     Delete a project and everything stored under it
  serve      Serve the fontstore HTTP API
  version    Show version information

Global Options:
`

const usageFooter = `
Backend selection:
  With no remote URL (or with --standalone) commands use the embedded store
  in the data directory. With --remote-url they talk to a fontstore server.

Environment Variables:
  FONTSTORE_CONFIG      Config file (default: ~/.fontstore/config.yaml)
  FONTSTORE_BACKEND     auto | local | remote
  FONTSTORE_REMOTE_URL  fontstore server URL
  FONTSTORE_DATA_DIR    Embedded store directory (default: ~/.fontstore/data)

For command help: fontstore <command> --help
`

// globalFlags are parsed before the command name.
type globalFlags struct {
	configPath string
	backend    string
	remoteURL  string
	dataDir    string
	standalone bool
	logLevel   string
	jsonOutput bool
	noColor    bool
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var g globalFlags
	fs := flag.NewFlagSet("fontstore", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(stderr)
	fs.StringVar(&g.configPath, "config", "", "Path to config file (default: ~/.fontstore/config.yaml)")
	fs.StringVar(&g.backend, "backend", "", "Backend mode: auto, local or remote")
	fs.StringVar(&g.remoteURL, "remote-url", "", "URL of a fontstore server")
	fs.StringVar(&g.dataDir, "data-dir", "", "Embedded store directory")
	fs.BoolVar(&g.standalone, "standalone", false, "Always use the embedded store")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.BoolVar(&g.jsonOutput, "json", false, "Output as JSON")
	fs.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&g.version, "version", false, "Show version and exit")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
		fmt.Fprint(stderr, usageFooter)
	}

	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return errors.ExitSuccess
		}
		return errors.ExitInput
	}
	ui.InitColors(g.noColor)

	if g.version {
		return report(stderr, runVersion(ctx, &app{out: stdout, json: g.jsonOutput}, nil), g)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.ExitInput
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n", rest[0])
		fs.Usage()
		return errors.ExitInput
	}

	a, err := newApp(g, rest[0], stdout, stderr)
	if err != nil {
		return report(stderr, err, g)
	}
	return report(stderr, cmd(ctx, a, rest[1:]), g)
}

func report(w io.Writer, err error, g globalFlags) int {
	return errors.Report(w, err, g.jsonOutput, g.noColor)
}

// newApp loads configuration with the global flags applied on top.
// init may point --config at a file it is about to write.
func newApp(g globalFlags, command string, stdout, stderr io.Writer) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, errors.NewConfigError("Cannot load .env file", err.Error(), "Fix or remove the .env file", err)
	}

	load := config.LoadConfig
	if command == "init" {
		load = config.LoadConfigIfExists
	}
	cfg, err := load(g.configPath)
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot load fontstore configuration",
			err.Error(),
			"Fix the config file or run 'fontstore init --write-config' to create one",
			err,
		)
	}
	if g.backend != "" {
		cfg.Backend.Mode = g.backend
	}
	if g.remoteURL != "" {
		cfg.Backend.RemoteURL = g.remoteURL
	}
	if g.dataDir != "" {
		cfg.Storage.DataDir = g.dataDir
	}
	if g.standalone {
		cfg.Backend.Standalone = true
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewInputError("Invalid option", err.Error(), "Run 'fontstore --help' for the accepted values")
	}

	logger, err := bootstrap.NewLogger(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, errors.NewConfigError("Cannot configure logging", err.Error(), "", err)
	}

	return &app{
		cfg:        cfg,
		configPath: g.configPath,
		logger:     logger,
		out:        stdout,
		errOut:     stderr,
		json:       g.jsonOutput,
	}, nil
}
