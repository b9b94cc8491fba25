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

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/fontstore/internal/bootstrap"
	"github.com/kraklabs/fontstore/internal/config"
	"github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/output"
	"github.com/kraklabs/fontstore/internal/ui"
	"github.com/kraklabs/fontstore/pkg/backend"
)

// commandFunc runs one subcommand with its remaining arguments.
type commandFunc func(ctx context.Context, a *app, args []string) error

var commands = map[string]commandFunc{
	"init":    runInit,
	"list":    runList,
	"create":  runCreate,
	"show":    runShow,
	"glyphs":  runGlyphs,
	"delete":  runDelete,
	"serve":   runServe,
	"version": runVersion,
}

// app is the state shared by subcommands.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	out        io.Writer
	errOut     io.Writer
	json       bool
}

func (a *app) printer() *ui.Printer {
	return &ui.Printer{W: a.out}
}

// emit writes result as JSON in --json mode, otherwise runs text.
func (a *app) emit(result any, text func(p *ui.Printer)) error {
	return output.Emit(a.out, a.json, result, func() { text(a.printer()) })
}

// flagSet returns a FlagSet for a subcommand. usage is printed before the
// option defaults on --help.
func (a *app) flagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprint(a.errOut, usage)
		if fs.HasFlags() {
			fmt.Fprintln(a.errOut, "\nOptions:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parse parses args and checks the number of positional arguments. It
// returns errHelp after printing usage for --help.
func (a *app) parse(fs *flag.FlagSet, args []string, positional ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return nil, errHelp
		}
		return nil, errors.NewInputError("Invalid arguments", err.Error(), "Run 'fontstore "+fs.Name()+" --help'")
	}
	if fs.NArg() != len(positional) {
		return nil, errors.NewInputError(
			fmt.Sprintf("Expected %d argument(s), got %d", len(positional), fs.NArg()),
			"",
			fmt.Sprintf("Usage: fontstore %s %s", fs.Name(), joinArgs(positional)),
		)
	}
	return fs.Args(), nil
}

// errHelp ends a command after --help without an error report.
var errHelp = stderrors.New("help requested")

func joinArgs(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += " "
		}
		s += "<" + n + ">"
	}
	return s
}

// withBackend opens the configured backend, runs fn and closes it.
func (a *app) withBackend(ctx context.Context, fn func(b backend.Backend) error) error {
	b, err := bootstrap.OpenBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return errors.FromBackend("open the backend", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			a.logger.Warn("backend.close.error", "err", err)
		}
	}()
	return fn(b)
}

// requireProject fails with a not-found UserError unless id exists.
func requireProject(ctx context.Context, b backend.Backend, id string) error {
	p, err := b.GetProject(ctx, id)
	if err != nil {
		return errors.FromBackend("read project", err)
	}
	if p == nil {
		return projectNotFound(id)
	}
	return nil
}

func projectNotFound(id string) error {
	return errors.NewNotFoundError(
		"Project not found",
		fmt.Sprintf("No project with id %q is recorded", id),
		"Run 'fontstore list' to see the recorded projects",
	)
}
