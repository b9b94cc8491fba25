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
	"errors"
	"io/fs"
	"os"

	"github.com/kraklabs/fontstore/internal/bootstrap"
	"github.com/kraklabs/fontstore/internal/config"
	ferrors "github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/ui"
)

// InitResult is the --json output of init.
type InitResult struct {
	DataDir       string `json:"data_dir"`
	Engine        string `json:"engine"`
	SchemaVersion int    `json:"schema_version"`
	Projects      int    `json:"projects"`
	ConfigPath    string `json:"config_path,omitempty"`
	ConfigWritten bool   `json:"config_written"`
}

// runInit creates the embedded store and migrates it. It is safe to run
// again on an existing store.
//
// Flags:
//   - --write-config: save the effective configuration
//   - --force: overwrite an existing config file
func runInit(ctx context.Context, a *app, args []string) error {
	fset := a.flagSet("init", `Usage: fontstore init [options]

Creates the embedded store in the data directory and brings its schema to
the current version. Existing projects are kept.
`)
	writeConfig := fset.Bool("write-config", false, "Save the effective configuration to the config file")
	force := fset.Bool("force", false, "Overwrite an existing config file")
	if _, err := a.parse(fset, args); err != nil {
		return helpOrErr(err)
	}

	info, err := bootstrap.InitStore(ctx, a.cfg.StorageOptions(a.logger), a.logger)
	if err != nil {
		return ferrors.FromBackend("initialize the store", err)
	}

	result := InitResult{
		DataDir:       info.DataDir,
		Engine:        info.Engine,
		SchemaVersion: info.SchemaVersion,
		Projects:      info.Projects,
	}

	if *writeConfig {
		path, err := a.resolvedConfigPath()
		if err != nil {
			return ferrors.NewConfigError("Cannot locate config file", err.Error(), "Pass --config", err)
		}
		result.ConfigPath = path

		_, statErr := os.Stat(path)
		switch {
		case statErr == nil && !*force:
		case statErr == nil || errors.Is(statErr, fs.ErrNotExist):
			if err := config.SaveConfig(a.cfg, path); err != nil {
				return ferrors.NewPermissionError("Cannot write config file", err.Error(),
					"Check permissions or pass another --config path", err)
			}
			result.ConfigWritten = true
		default:
			return ferrors.NewPermissionError("Cannot read config file", statErr.Error(), "", statErr)
		}
	}

	return a.emit(result, func(p *ui.Printer) {
		p.Successf("Store ready (schema v%d)", result.SchemaVersion)
		if result.DataDir != "" {
			p.Field("Data dir", ui.DimText(result.DataDir))
		}
		p.Field("Engine", result.Engine)
		p.Field("Projects", ui.CountText(result.Projects))
		switch {
		case result.ConfigWritten:
			p.Successf("Config written to %s", result.ConfigPath)
		case result.ConfigPath != "":
			p.Warningf("Config %s already exists (use --force to overwrite)", result.ConfigPath)
		}
	})
}

func (a *app) resolvedConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.ConfigPath()
}

// helpOrErr maps errHelp to a clean exit.
func helpOrErr(err error) error {
	if errors.Is(err, errHelp) {
		return nil
	}
	return err
}
