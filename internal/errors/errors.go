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

// Package errors provides user-facing errors for the fontstore CLI.
//
// A UserError carries three pieces of text, what went wrong, why, and how
// to fix it, plus the process exit code:
//
//	Error: Project not found
//	Cause: No project with id "sans" is recorded
//	Fix:   Run 'fontstore list' to see the recorded projects
//
// FromBackend converts the error kinds returned by the backend package
// into UserErrors so every command reports them the same way.
//
// # Exit Codes
//
//   - ExitSuccess (0)
//   - ExitConfig (1): missing or invalid configuration
//   - ExitDatabase (2): embedded store unavailable or transaction aborted
//   - ExitNetwork (3): remote backend unreachable or failing
//   - ExitInput (4): invalid arguments or payloads
//   - ExitPermission (5)
//   - ExitNotFound (6): unknown project
//   - ExitConflict (7): project id already taken
//   - ExitInternal (10): bugs
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kraklabs/fontstore/pkg/backend"
)

// Exit codes.
const (
	ExitSuccess    = 0
	ExitConfig     = 1
	ExitDatabase   = 2
	ExitNetwork    = 3
	ExitInput      = 4
	ExitPermission = 5
	ExitNotFound   = 6
	ExitConflict   = 7

	// ExitInternal signals a bug that should be reported.
	ExitInternal = 10
)

// UserError is an error with context for end users.
type UserError struct {
	// Message says what went wrong.
	Message string

	// Cause says why, when known.
	Cause string

	// Fix suggests what to do next.
	Fix string

	ExitCode int

	// Err is the wrapped error, visible to errors.Is and errors.As.
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func newUserError(code int, msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: code, Err: err}
}

// NewConfigError reports a missing or invalid configuration.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitConfig, msg, cause, fix, err)
}

// NewDatabaseError reports a failure of the embedded store.
func NewDatabaseError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitDatabase, msg, cause, fix, err)
}

// NewNetworkError reports a failure talking to a remote fontstore server.
func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitNetwork, msg, cause, fix, err)
}

// NewInputError reports invalid arguments. It wraps nothing.
func NewInputError(msg, cause, fix string) *UserError {
	return newUserError(ExitInput, msg, cause, fix, nil)
}

// NewPermissionError reports a permission failure on the host.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitPermission, msg, cause, fix, err)
}

// NewNotFoundError reports a missing resource. It wraps nothing.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return newUserError(ExitNotFound, msg, cause, fix, nil)
}

// NewConflictError reports an attempt to create something that exists.
func NewConflictError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitConflict, msg, cause, fix, err)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitInternal, msg, cause, fix, err)
}

// FromBackend converts an error returned by a backend operation into a
// UserError. op names the failed operation ("create project", "list
// glyphs"). A nil err returns nil; a UserError is returned unchanged.
func FromBackend(op string, err error) *UserError {
	if err == nil {
		return nil
	}
	var ue *UserError
	if stderrors.As(err, &ue) {
		return ue
	}

	msg := "Cannot " + op
	cause := err.Error()

	switch backend.Kind(err) {
	case backend.KindAlreadyExists:
		return NewConflictError(msg, cause,
			"Choose another project id or delete the existing project first", err)
	case backend.KindNotFound:
		ue := NewNotFoundError(msg, cause, "Run 'fontstore list' to see the recorded projects")
		ue.Err = err
		return ue
	case backend.KindInvalidInput:
		ue := NewInputError(msg, cause, "Check the arguments and payload, then retry")
		ue.Err = err
		return ue
	case backend.KindStorageUnavailable:
		return NewDatabaseError(msg, cause,
			"Check that the data directory is writable, or use --backend remote", err)
	case backend.KindTransactionAborted:
		return NewDatabaseError(msg, cause,
			"The change was rolled back. Retry the command", err)
	}

	if stderrors.Is(err, backend.ErrRemote) {
		return NewNetworkError(msg, cause,
			"Check that the fontstore server is running and --remote-url is correct", err)
	}
	return NewInternalError(msg, cause,
		"This is a bug. Please report it at github.com/kraklabs/fontstore/issues", err)
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format renders the error for a terminal. Empty Cause and Fix lines are
// omitted. Color is disabled by noColor or NO_COLOR; the global
// color.NoColor is restored before returning.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}
	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}
	return out.String()
}

// ErrorJSON is the --json rendering of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// Report writes err to w and returns the exit code to use. Errors that are
// not UserErrors are printed plainly with ExitInternal.
func Report(w io.Writer, err error, jsonOutput, noColor bool) int {
	if err == nil {
		return ExitSuccess
	}

	var ue *UserError
	if !stderrors.As(err, &ue) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitInternal
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(ue.ToJSON())
	} else {
		fmt.Fprint(w, ue.Format(noColor))
	}
	return ue.ExitCode
}
